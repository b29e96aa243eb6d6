package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/einvoice/constants"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadBaseListCSV(t *testing.T) {
	p := writeFile(t, t.TempDir(), "base.csv", "field,comment\nsupplierName,x\n\nbuyerReference,y\n")

	got, err := LoadBaseList(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"supplierName", "buyerReference"}, got)
}

func TestLoadSpecificMapByHeader(t *testing.T) {
	// columns out of order: header matching picks the right ones
	p := writeFile(t, t.TempDir(), "specific.csv",
		"comment,fieldName,useCase\nc,totalNet,CASE_1_MULTI_ORDER\nc,note,CASE_1_MULTI_ORDER\nc,,CASE_9_DISTRIBUTOR\n")

	got, err := LoadSpecificMap(p)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"CASE_1_MULTI_ORDER": {"totalNet", "note"}}, got)
}

func TestLoadSpecificMapFallsBackToFirstColumns(t *testing.T) {
	p := writeFile(t, t.TempDir(), "specific.csv", "a,b\n case_7_lodged_card ,payeeName\n")

	got, err := LoadSpecificMap(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"payeeName"}, got["CASE_7_LODGED_CARD"])
}

func TestLoadSpecificMapXLSX(t *testing.T) {
	p := filepath.Join(t.TempDir(), "specific.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]string{"use_case", "zone"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]string{"CASE_27_TOLL", "note"}))
	require.NoError(t, f.SaveAs(p))
	require.NoError(t, f.Close())

	got, err := LoadSpecificMap(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"note"}, got["CASE_27_TOLL"])
}

func TestLoadTableDegradesOnMissingFiles(t *testing.T) {
	tbl := LoadTable(nil, "/nonexistent/base.csv", "/nonexistent/specific.csv")
	assert.Empty(t, tbl.ExternalBase)
	assert.Empty(t, tbl.ExternalSpecific)
	assert.Equal(t, Resolve(constants.UseCaseToll), tbl.Effective(constants.UseCaseToll))
}

func TestEffectiveIsAdditive(t *testing.T) {
	tbl := &Table{
		ExternalBase:     []string{"supplierName", "paymentTerms"},
		ExternalSpecific: map[string][]string{"CASE_1_MULTI_ORDER": {"totalNet", "orderNumber"}},
	}

	got := tbl.Effective(constants.UseCaseMultiOrder)
	for _, f := range Resolve(constants.UseCaseMultiOrder) {
		assert.Contains(t, got, f)
	}
	assert.Contains(t, got, "paymentTerms")
	assert.Contains(t, got, "totalNet")

	d := tbl.Divergence()
	assert.False(t, d.Empty())
	assert.Equal(t, []string{"paymentTerms"}, d.Base)
	assert.Equal(t, []string{"totalNet"}, d.ByUseCase["CASE_1_MULTI_ORDER"])
}

func TestSpecificMapMergesExternal(t *testing.T) {
	tbl := &Table{ExternalSpecific: map[string][]string{"CASE_27_TOLL": {"note"}}}
	m := tbl.SpecificMap()
	assert.Equal(t, []string{"buyerReference", "note"}, m["CASE_27_TOLL"])
	assert.Contains(t, m, "CASE_4_PARTIAL_PAYMENT_UNKNOWN")
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "tables/x.csv"), ExpandHome("~/tables/x.csv"))
	assert.Equal(t, "/abs/x.csv", ExpandHome("/abs/x.csv"))
}
