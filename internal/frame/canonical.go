package frame

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// DomainSubject prefixes subject fingerprints. The version suffix allows a
// future change of encoding.
const DomainSubject = "tablecontract/subject/v1"

// Fingerprint returns a stable content hash of a subject.
//
// The subject is encoded as canonical JSON (object keys in UTF-16 code unit
// order, NFC-normalised strings, no HTML escaping) and hashed as
// SHA256(domain + 0x00 + json). Two subjects with equal content always
// share a fingerprint.
func Fingerprint(s Subject) (string, error) {
	data, err := MarshalCanonical(s)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(DomainSubject))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// MarshalCanonical encodes a subject as canonical JSON.
func MarshalCanonical(s Subject) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch v := s.(type) {
	case *Table:
		err = writeTable(&buf, v)
	case *Column:
		err = writeColumn(&buf, v, true)
	case *Labels:
		err = writeLabels(&buf, v)
	default:
		err = fmt.Errorf("unsupported subject %T", s)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeTable(buf *bytes.Buffer, t *Table) error {
	fields := map[string]func() error{
		"columns": func() error {
			buf.WriteByte('[')
			for i, c := range t.columns {
				if i > 0 {
					buf.WriteByte(',')
				}
				if err := writeColumn(buf, c, false); err != nil {
					return err
				}
			}
			buf.WriteByte(']')
			return nil
		},
		"kind":   func() error { return writeString(buf, string(KindTable)) },
		"labels": func() error { return writeLabels(buf, t.labels) },
	}
	return writeObject(buf, fields)
}

func writeColumn(buf *bytes.Buffer, c *Column, withLabels bool) error {
	fields := map[string]func() error{
		"dtype":  func() error { return writeString(buf, string(c.dtype)) },
		"name":   func() error { return writeString(buf, c.name) },
		"values": func() error { return writeValues(buf, c.values) },
	}
	if withLabels {
		fields["kind"] = func() error { return writeString(buf, string(KindColumn)) }
		fields["labels"] = func() error { return writeLabels(buf, c.labels) }
	}
	return writeObject(buf, fields)
}

func writeLabels(buf *bytes.Buffer, l *Labels) error {
	fields := map[string]func() error{
		"kind": func() error { return writeString(buf, string(KindLabels)) },
		"names": func() error {
			buf.WriteByte('[')
			for i, n := range l.names {
				if i > 0 {
					buf.WriteByte(',')
				}
				if err := writeString(buf, n); err != nil {
					return err
				}
			}
			buf.WriteByte(']')
			return nil
		},
		"values": func() error { return writeValues(buf, l.values) },
	}
	return writeObject(buf, fields)
}

// writeObject emits fields in RFC 8785 key order.
func writeObject(buf *bytes.Buffer, fields map[string]func() error) error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(buf, k); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := fields[k](); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeValues(buf *bytes.Buffer, values []Value) error {
	buf.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeValue(buf, v); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	buf.WriteByte(']')
	return nil
}

// writeValue tags numbers so Int(1) and Float(1) stay distinguishable.
func writeValue(buf *bytes.Buffer, v Value) error {
	if IsNull(v) {
		buf.WriteString("null")
		return nil
	}
	switch val := v.(type) {
	case Int:
		buf.WriteString(`{"i":`)
		buf.WriteString(strconv.FormatInt(int64(val), 10))
		buf.WriteByte('}')
	case Float:
		f := float64(val)
		if math.IsInf(f, 0) {
			return fmt.Errorf("infinite float %v", f)
		}
		buf.WriteString(`{"f":`)
		buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		buf.WriteByte('}')
	case String:
		return writeString(buf, string(val))
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(val)))
	default:
		return fmt.Errorf("unsupported value %T", v)
	}
	return nil
}

// writeString emits a JSON string with NFC normalisation and without HTML
// escaping.
func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'}))
	return nil
}

// compareKeysRFC8785 compares strings by UTF-16 code units as RFC 8785
// requires. Go's native string order is UTF-8 and differs for characters
// outside the BMP.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	return slices.Compare(a16, b16)
}
