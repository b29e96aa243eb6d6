package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/einvoice/constants"
)

func TestResolveIsSupersetOfBase(t *testing.T) {
	for _, uc := range constants.AllUseCases() {
		got := Resolve(uc)
		for _, f := range BaseFields {
			assert.Contains(t, got, f, "use case %s", uc)
		}
		assert.Equal(t, got, Resolve(uc), "resolve must be stable for %s", uc)
	}
}

func TestResolveIsDuplicateFree(t *testing.T) {
	for _, uc := range constants.AllUseCases() {
		got := Resolve(uc)
		seen := map[string]bool{}
		for _, f := range got {
			require.False(t, seen[f], "duplicate %q for %s", f, uc)
			seen[f] = true
		}
	}
}

func TestResolveExamples(t *testing.T) {
	tests := []struct {
		name    string
		useCase constants.UseCase
		want    []string
	}{
		{
			name:    "multi order adds order and delivery fields",
			useCase: constants.UseCaseMultiOrder,
			want: []string{"supplierName", "invoiceNumber", "invoiceDate", "totalAmount", "currency", "supplierVatId",
				"orderNumber", "deliveryDate", "deliveryNoteReference"},
		},
		{
			name:    "partial payment unknown is base only",
			useCase: constants.UseCasePartialPaymentUnknown,
			want:    BaseFields,
		},
		{
			name:    "co-contracting is base only",
			useCase: constants.UseCaseCoContractingB2G,
			want:    BaseFields,
		},
		{
			name:    "standard falls back to the default extension",
			useCase: constants.UseCaseStandard,
			want: []string{"supplierName", "invoiceNumber", "invoiceDate", "totalAmount", "currency", "supplierVatId",
				"customerName", "customerVatId", "totalNet", "totalTax"},
		},
		{
			name:    "unknown identifier falls back to the default extension",
			useCase: constants.UseCase("CASE_99_NOT_A_CASE"),
			want: []string{"supplierName", "invoiceNumber", "invoiceDate", "totalAmount", "currency", "supplierVatId",
				"customerName", "customerVatId", "totalNet", "totalTax"},
		},
		{
			name:    "identifiers match exactly",
			useCase: constants.UseCase("case_1_multi_order"),
			want: []string{"supplierName", "invoiceNumber", "invoiceDate", "totalAmount", "currency", "supplierVatId",
				"customerName", "customerVatId", "totalNet", "totalTax"},
		},
		{
			name:    "overlap with base collapses",
			useCase: constants.UseCaseExpensesWithInvoice,
			want: []string{"supplierName", "invoiceNumber", "invoiceDate", "totalAmount", "currency", "supplierVatId",
				"buyerReference"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.useCase))
		})
	}
}

func TestExplicitEmptyEntryBeatsDefault(t *testing.T) {
	ext, listed := Extension(constants.UseCaseCoContractingB2B)
	assert.True(t, listed)
	assert.Empty(t, ext)

	ext, listed = Extension(constants.UseCaseRestaurantNote)
	assert.False(t, listed)
	assert.Equal(t, DefaultExtension, ext)
}

func TestMissing(t *testing.T) {
	values := map[string]any{
		"supplierName":  "ACME",
		"invoiceNumber": "  ",
		"totalAmount":   0.0,
		"currency":      nil,
	}
	got := Missing([]string{"supplierName", "invoiceNumber", "totalAmount", "currency", "invoiceDate"}, values)
	assert.Equal(t, []string{"invoiceNumber", "currency", "invoiceDate"}, got)
}
