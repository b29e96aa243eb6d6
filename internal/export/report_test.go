package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteReport(t *testing.T) {
	net, tax, gross := 100.0, 20.0, 120.0
	rows := []ReportRow{
		{
			Source:        "a.pdf",
			Status:        "SUCCEEDED",
			UseCase:       "STANDARD",
			Supplier:      "ACME",
			InvoiceNumber: "F-1",
			InvoiceDate:   "2024-05-01",
			Currency:      "EUR",
			TotalNet:      &net,
			TotalTax:      &tax,
			TotalAmount:   &gross,
			Attempts:      1,
			XMLPath:       "out/a.xml",
		},
		{
			Source:      "b.txt",
			Status:      "FAILED",
			Attempts:    3,
			FailureKind: "RETRY_EXHAUSTED",
			Missing:     []string{"totalNet", "orderNumber"},
		},
	}

	data, err := WriteReport(rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	got, err := f.GetRows(reportSheet)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, reportHeaders, got[0])
	assert.Equal(t, "a.pdf", got[1][0])
	assert.Equal(t, "120", got[1][10])
	assert.Equal(t, "out/a.xml", got[1][14])
	assert.Equal(t, "RETRY_EXHAUSTED", got[2][12])
	assert.Equal(t, "totalNet, orderNumber", got[2][13])
	assert.Equal(t, "", got[2][8])
}

func TestWriteReport_Empty(t *testing.T) {
	data, err := WriteReport(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
