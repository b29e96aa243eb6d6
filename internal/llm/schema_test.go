package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInvoice(t *testing.T) {
	tests := []struct {
		name      string
		candidate map[string]any
		wantLocs  []string
	}{
		{
			name: "minimal valid",
			candidate: map[string]any{
				"supplierName": "ACME", "invoiceNumber": "F-1", "totalAmount": 10.0,
			},
		},
		{
			name: "nulls allowed on optional fields and extras ignored",
			candidate: map[string]any{
				"supplierName": "ACME", "invoiceNumber": "F-1", "totalAmount": 10.0,
				"totalNet": nil, "customerName": nil, "lineItems": []any{"x"},
			},
		},
		{
			name: "wrong types",
			candidate: map[string]any{
				"supplierName": "ACME", "invoiceNumber": 12.0, "totalAmount": "10",
			},
			wantLocs: []string{"/invoiceNumber", "/totalAmount"},
		},
		{
			name: "enumerations and currency shape",
			candidate: map[string]any{
				"supplierName": "ACME", "invoiceNumber": "F-1", "totalAmount": 10.0,
				"useCase": "CASE_99", "invoiceType": "RECEIPT", "currency": "eur",
			},
			wantLocs: []string{"/currency", "/invoiceType", "/useCase"},
		},
		{
			name: "enumerated values and nulls accepted",
			candidate: map[string]any{
				"supplierName": "ACME", "invoiceNumber": "F-1", "totalAmount": 10.0,
				"useCase": "CASE_1_MULTI_ORDER", "invoiceType": nil, "currency": "EUR",
			},
		},
		{
			name:      "required missing",
			candidate: map[string]any{"supplierName": "ACME", "totalAmount": 1.0},
			wantLocs:  []string{"/"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateInvoice(tt.candidate)
			require.NoError(t, err)
			if len(tt.wantLocs) == 0 {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, len(tt.wantLocs))
			for i, loc := range tt.wantLocs {
				assert.Contains(t, got[i], loc+": ")
			}
		})
	}
}

func TestValidateJSONAgainstSchema(t *testing.T) {
	require.NoError(t, ValidateJSONAgainstSchema(InvoiceJSONSchema(), []byte(`{"supplierName":"A","invoiceNumber":"1","totalAmount":1}`)))
	require.Error(t, ValidateJSONAgainstSchema(InvoiceJSONSchema(), []byte(`{"supplierName":null}`)))
}
