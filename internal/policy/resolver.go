// Package policy decides which invoice fields are mandatory for a use case.
package policy

import (
	"strings"

	"github.com/joseph-ayodele/einvoice/constants"
)

// BaseFields are required for every use case.
var BaseFields = []string{
	"supplierName",
	"invoiceNumber",
	"invoiceDate",
	"totalAmount",
	"currency",
	"supplierVatId",
}

// DefaultExtension applies to use cases that have no entry in extensions.
var DefaultExtension = []string{"customerName", "customerVatId", "totalNet", "totalTax"}

// extensions maps a use case to the fields it adds on top of BaseFields.
// An empty entry is explicit: the base set alone is sufficient.
var extensions = map[constants.UseCase][]string{
	constants.UseCaseMultiOrder:               {"orderNumber", "deliveryDate", "deliveryNoteReference"},
	constants.UseCasePaidByThirdPartyPre:      {"paymentDate", "paymentMeans", "payeeName", "payeeIBAN", "payeeBIC"},
	constants.UseCasePaidByThirdParty:         {"payeeName", "paymentTerms", "paymentMeans"},
	constants.UseCasePartialPaymentUnknown:    {},
	constants.UseCaseExpensesWithInvoice:      {"buyerReference", "supplierVatId"},
	constants.UseCaseExpensesWithoutInvoice:   {"note"},
	constants.UseCaseLodgedCard:               {"paymentMeans", "paymentMeansID"},
	constants.UseCaseFactoringKnown:           {"payeeName", "paymentTerms"},
	constants.UseCaseDistributor:              {"supplierName", "customerName"},
	constants.UseCaseFactoringUnknown:         {"note", "invoiceDate"},
	constants.UseCaseCentralOrdering:          {"buyerReference", "deliveryNoteReference"},
	constants.UseCaseTransparentIntermediary:  {"buyerReference"},
	constants.UseCaseSubcontractingDelegation: {"contractReference", "supplierVatId"},
	constants.UseCaseSubcontractingDirect:     {"contractReference", "supplierVatId"},
	constants.UseCaseCoContractingB2B:         {},
	constants.UseCaseCoContractingB2G:         {},
	constants.UseCasePurchaseOnBehalf:         {"buyerReference"},
	constants.UseCaseDisbursements:            {"precedingInvoiceReference", "note"},
	constants.UseCaseMandateIntermediary:      {"buyerReference"},
	constants.UseCaseMandateInvoicing:         {"buyerReference"},
	constants.UseCaseDebitNote:                {"precedingInvoiceReference"},
	constants.UseCaseDuplicateCorrection:      {"precedingInvoiceReference"},
	constants.UseCaseAuthorNote:               {"precedingInvoiceReference"},
	constants.UseCaseSelfBilling:              {"customerName", "customerVatId", "totalNet"},
	constants.UseCaseDepositInvoice:           {"totalAmount"},
	constants.UseCaseFinalInvoice:             {"precedingInvoiceReference"},
	constants.UseCaseDiscountCashVAT:          {"paymentTerms"},
	constants.UseCaseDiscountDebitVAT:         {"paymentTerms"},
	constants.UseCaseSelfBillingIndividual:    {"customerVatId"},
	constants.UseCaseArrhes:                   {"note"},
	constants.UseCaseRetentionOfTitle:         {"note"},
	constants.UseCaseGiftCardSingle:           {"paymentMeans"},
	constants.UseCaseGiftCardMulti:            {"paymentMeans"},
	constants.UseCaseToll:                     {"buyerReference"},
	constants.UseCaseSingleTaxableEntity:      {"buyerReference", "note"},
	constants.UseCaseMarginVAT:                {"paymentMeans", "paymentTerms", "note"},
	constants.UseCaseProfessionalSecrecy:      {"note"},
	constants.UseCaseNetting:                  {"precedingInvoiceReference", "note"},
	constants.UseCaseTaxRefund:                {"precedingInvoiceReference"},
}

// Resolve returns the ordered, duplicate-free set of mandatory fields for
// useCase. It is defined for every input; identifiers are matched exactly
// and unlisted ones get the default extension. Callers normalize input
// with constants.ParseUseCase.
func Resolve(useCase constants.UseCase) []string {
	ext, _ := Extension(useCase)
	return union(BaseFields, ext)
}

// Extension returns the use-case specific part of Resolve and whether the
// use case is listed explicitly.
func Extension(useCase constants.UseCase) ([]string, bool) {
	ext, ok := extensions[useCase]
	if !ok {
		return append([]string(nil), DefaultExtension...), false
	}
	return append([]string(nil), ext...), true
}

// Missing returns the fields of required whose value in values is absent,
// null, or a blank string. Zero numbers count as present.
func Missing(required []string, values map[string]any) []string {
	var out []string
	for _, f := range required {
		if isMissing(values[f]) {
			out = append(out, f)
		}
	}
	return out
}

func isMissing(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case *string:
		return t == nil || strings.TrimSpace(*t) == ""
	case *float64:
		return t == nil
	}
	return false
}

func union(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, l := range lists {
		for _, f := range l {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			out = append(out, f)
		}
	}
	return out
}
