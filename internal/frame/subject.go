package frame

// Kind identifies which of the three subject kinds a value is.
type Kind string

const (
	KindTable  Kind = "table"
	KindColumn Kind = "column"
	KindLabels Kind = "labels"
)

// ParseKind maps a scope name to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindTable, KindColumn, KindLabels:
		return Kind(s), true
	default:
		return "", false
	}
}

// Subject is the closed set of data objects a contract can check.
// Only *Table, *Column, and *Labels implement it.
type Subject interface {
	Kind() Kind
	subject() // Sealed
}

// KindOf returns the kind for the subject type parameter S without needing a
// value of it.
func KindOf[S Subject]() Kind {
	var zero S
	switch any(zero).(type) {
	case *Table:
		return KindTable
	case *Column:
		return KindColumn
	case *Labels:
		return KindLabels
	default:
		return ""
	}
}
