package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tablecontract/internal/decl"
	"github.com/roach88/tablecontract/internal/testutil"
)

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const invalidYAML = `contracts:
  - name: qty_ok
    scope: column
    rule: positive
  - name: qty_ok
    scope: table
    rule: columns
    columns: [qty]
`

func TestValidateValidContracts(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "orders.yaml", testutil.OrdersYAML)

	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Equal(t, "✓ All contracts valid (6)\n", out)
}

func TestValidateValidContractsJSON(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "orders.yaml", testutil.OrdersYAML)

	out, err := execute(t, "--format", "json", "validate", path)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, []string{
		"has_columns", "qty_non_negative", "price_not_null",
		"index_positive", "index_named", "region_filled",
	}, resp.Data.Contracts)
}

func TestValidateInvalidContracts(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "bad.yaml", invalidYAML)

	out, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "2 error(s)")

	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, decl.ErrMissingTarget+": qty_ok.column:")
	assert.Contains(t, out, decl.ErrDuplicateName)
	assert.Contains(t, out, path+":2", "errors name their source line")
}

func TestValidateInvalidContractsJSON(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "bad.yaml", invalidYAML)

	out, err := execute(t, "--format", "json", "validate", path)
	require.Error(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  *CLIError        `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	require.Len(t, resp.Data.Errors, 2)
	assert.Equal(t, decl.ErrMissingTarget, resp.Error.Code)
}

func TestValidateLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
		code string
	}{
		{"not found", dir + "/missing.yaml", decl.ErrCodeNotFound},
		{"empty directory", t.TempDir(), decl.ErrCodeNoContracts},
		{"unsupported format", testutil.WriteFile(t, dir, "c.ini", "x=1"), decl.ErrCodeFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "validate", tt.path)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.code)
			assert.Contains(t, out, "Error ["+tt.code+"]")
		})
	}
}

func TestValidateCUEDirectory(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "orders.cue", `package contracts

contract: has_columns: {
	scope:   "table"
	rule:    "columns"
	columns: ["qty"]
}
`)
	testutil.WriteFile(t, dir, "labels.cue", `package contracts

contract: sorted: {
	scope: "labels"
	rule:  "monotonic"
}
`)

	out, err := execute(t, "validate", dir)
	require.NoError(t, err)
	assert.Equal(t, "✓ All contracts valid (2)\n", out)
}
