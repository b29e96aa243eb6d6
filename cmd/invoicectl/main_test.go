package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRequirementsCommand(t *testing.T) {
	t.Setenv("MANDATORY_CSV_PATH", "")
	t.Setenv("SPECIFIC_CSV_PATH", "")

	out, err := run(t, "", "requirements", "case_1_multi_order")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "CASE_1_MULTI_ORDER ("))
	assert.Contains(t, out, "  supplierName\n")
	assert.Contains(t, out, "  orderNumber\n")

	out, err = run(t, "", "requirements", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "STANDARD")
	assert.Contains(t, out, "CASE_42_TAX_REFUND")
}

func TestSerializeCommandFromStdin(t *testing.T) {
	record := `{"supplierName":"ACME & Co","invoiceNumber":"F-7","invoiceDate":"2024-02-03","totalNet":100,"totalTax":20}`
	out, err := run(t, record, "serialize", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "<cbc:ID>F-7</cbc:ID>")
	assert.Contains(t, out, "ACME &amp; Co")
	assert.Contains(t, out, ">120.00</cbc:PayableAmount>")
}

func TestSerializeCommandToFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "rec.json")
	require.NoError(t, os.WriteFile(in, []byte(`{"invoiceNumber":"F-8","invoiceType":"CREDIT_NOTE"}`), 0o644))
	target := filepath.Join(dir, "xml", "F-8.xml")

	_, err := run(t, "", "serialize", in, "-o", target)
	require.NoError(t, err)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<cbc:InvoiceTypeCode>381</cbc:InvoiceTypeCode>")
}

func TestSerializeCommandRejectsBadJSON(t *testing.T) {
	_, err := run(t, "{nope", "serialize", "-")
	assert.Error(t, err)
}

func TestJobsRequiresDatabase(t *testing.T) {
	t.Setenv("DB_URL", "")
	_, err := run(t, "", "jobs")
	assert.ErrorContains(t, err, "DB_URL")
}

func TestDBCheckSQLite(t *testing.T) {
	t.Setenv("DB_URL", "sqlite://"+filepath.Join(t.TempDir(), "jobs.db"))
	out, err := run(t, "", "dbcheck")
	require.NoError(t, err)
	assert.Contains(t, out, "database OK (sqlite3)")

	out, err = run(t, "", "jobs")
	require.NoError(t, err)
	assert.Contains(t, out, "STATUS")
}

func TestIsWithin(t *testing.T) {
	assert.True(t, isWithin("/a/out", "/a/out/x.txt"))
	assert.False(t, isWithin("/a/out", "/a/in/x.txt"))
	assert.False(t, isWithin("/a/out", "/a/outside.txt"))
}
