package constants

import (
	"strings"
)

// UseCase classifies the business scenario an invoice belongs to. The value
// decides which fields are mandatory beyond the universal baseline.
type UseCase string

const (
	UseCaseStandard                 UseCase = "STANDARD"
	UseCaseMultiOrder               UseCase = "CASE_1_MULTI_ORDER"
	UseCasePaidByThirdPartyPre      UseCase = "CASE_2_PAID_BY_THIRD_PARTY_PRE"
	UseCasePaidByThirdParty         UseCase = "CASE_3_PAID_BY_THIRD_PARTY"
	UseCasePartialPaymentUnknown    UseCase = "CASE_4_PARTIAL_PAYMENT_UNKNOWN"
	UseCaseExpensesWithInvoice      UseCase = "CASE_5_EXPENSES_WITH_INVOICE"
	UseCaseExpensesWithoutInvoice   UseCase = "CASE_6_EXPENSES_WITHOUT_INVOICE"
	UseCaseLodgedCard               UseCase = "CASE_7_LODGED_CARD"
	UseCaseFactoringKnown           UseCase = "CASE_8_FACTORING_KNOWN"
	UseCaseDistributor              UseCase = "CASE_9_DISTRIBUTOR"
	UseCaseFactoringUnknown         UseCase = "CASE_10_FACTORING_UNKNOWN"
	UseCaseCentralOrdering          UseCase = "CASE_11_CENTRAL_ORDERING"
	UseCaseTransparentIntermediary  UseCase = "CASE_12_TRANSPARENT_INTERMEDIARY"
	UseCaseSubcontractingDelegation UseCase = "CASE_13A_SUBCONTRACTING_DELEGATION"
	UseCaseSubcontractingDirect     UseCase = "CASE_13B_SUBCONTRACTING_DIRECT"
	UseCaseCoContractingB2B         UseCase = "CASE_14A_CO_CONTRACTING_B2B"
	UseCaseCoContractingB2G         UseCase = "CASE_14B_CO_CONTRACTING_B2G"
	UseCasePurchaseOnBehalf         UseCase = "CASE_15_PURCHASE_ON_BEHALF"
	UseCaseDisbursements            UseCase = "CASE_16_DISBURSEMENTS"
	UseCasePaymentIntermediary      UseCase = "CASE_17A_PAYMENT_INTERMEDIARY"
	UseCaseMandateIntermediary      UseCase = "CASE_17B_MANDATE_INTERMEDIARY"
	UseCaseDebitNote                UseCase = "CASE_18_DEBIT_NOTE"
	UseCaseMandateInvoicing         UseCase = "CASE_19A1_MANDATE_INVOICING"
	UseCaseMandatePlatform          UseCase = "CASE_19A2_MANDATE_PLATFORM"
	UseCaseSelfBilling              UseCase = "CASE_19B_SELF_BILLING"
	UseCaseDepositInvoice           UseCase = "CASE_20_DEPOSIT_INVOICE"
	UseCaseFinalInvoice             UseCase = "CASE_21_FINAL_INVOICE"
	UseCaseDiscountCashVAT          UseCase = "CASE_22A_DISCOUNT_CASH_VAT"
	UseCaseDiscountDebitVAT         UseCase = "CASE_22B_DISCOUNT_DEBIT_VAT"
	UseCaseSelfBillingIndividual    UseCase = "CASE_23_SELF_BILLING_INDIVIDUAL"
	UseCaseArrhes                   UseCase = "CASE_24_ARRHES"
	UseCaseGiftCardSingle           UseCase = "CASE_25A_GIFT_CARD_SINGLE"
	UseCaseGiftCardMulti            UseCase = "CASE_25B_GIFT_CARD_MULTI"
	UseCaseRetentionOfTitle         UseCase = "CASE_26_RETENTION_OF_TITLE"
	UseCaseToll                     UseCase = "CASE_27_TOLL"
	UseCaseRestaurantNote           UseCase = "CASE_28_RESTAURANT_NOTE"
	UseCaseSingleTaxableEntity      UseCase = "CASE_29_SINGLE_TAXABLE_ENTITY"
	UseCaseDuplicateCorrection      UseCase = "CASE_30_DUPLICATE_CORRECTION"
	UseCaseMixedInvoice             UseCase = "CASE_31_MIXED_INVOICE"
	UseCaseMonthlyPayment           UseCase = "CASE_32_MONTHLY_PAYMENT"
	UseCaseMarginVAT                UseCase = "CASE_33_MARGIN_VAT"
	UseCasePartialCollection        UseCase = "CASE_34_PARTIAL_COLLECTION"
	UseCaseAuthorNote               UseCase = "CASE_35_AUTHOR_NOTE"
	UseCaseProfessionalSecrecy      UseCase = "CASE_36_PROFESSIONAL_SECRECY"
	UseCaseJointVenture             UseCase = "CASE_37_JOINT_VENTURE"
	UseCaseSubLines                 UseCase = "CASE_38_SUB_LINES"
	UseCaseMultiSeller              UseCase = "CASE_39_MULTI_SELLER"
	UseCaseNetting                  UseCase = "CASE_40_NETTING"
	UseCaseBarter                   UseCase = "CASE_41_BARTER"
	UseCaseTaxRefund                UseCase = "CASE_42_TAX_REFUND"
	UseCaseUnknown                  UseCase = "UNKNOWN"
)

// DefaultUseCase is assigned to any record that arrives without a use-case tag.
const DefaultUseCase = UseCaseStandard

var allUseCases = []UseCase{
	UseCaseStandard,
	UseCaseMultiOrder,
	UseCasePaidByThirdPartyPre,
	UseCasePaidByThirdParty,
	UseCasePartialPaymentUnknown,
	UseCaseExpensesWithInvoice,
	UseCaseExpensesWithoutInvoice,
	UseCaseLodgedCard,
	UseCaseFactoringKnown,
	UseCaseDistributor,
	UseCaseFactoringUnknown,
	UseCaseCentralOrdering,
	UseCaseTransparentIntermediary,
	UseCaseSubcontractingDelegation,
	UseCaseSubcontractingDirect,
	UseCaseCoContractingB2B,
	UseCaseCoContractingB2G,
	UseCasePurchaseOnBehalf,
	UseCaseDisbursements,
	UseCasePaymentIntermediary,
	UseCaseMandateIntermediary,
	UseCaseDebitNote,
	UseCaseMandateInvoicing,
	UseCaseMandatePlatform,
	UseCaseSelfBilling,
	UseCaseDepositInvoice,
	UseCaseFinalInvoice,
	UseCaseDiscountCashVAT,
	UseCaseDiscountDebitVAT,
	UseCaseSelfBillingIndividual,
	UseCaseArrhes,
	UseCaseGiftCardSingle,
	UseCaseGiftCardMulti,
	UseCaseRetentionOfTitle,
	UseCaseToll,
	UseCaseRestaurantNote,
	UseCaseSingleTaxableEntity,
	UseCaseDuplicateCorrection,
	UseCaseMixedInvoice,
	UseCaseMonthlyPayment,
	UseCaseMarginVAT,
	UseCasePartialCollection,
	UseCaseAuthorNote,
	UseCaseProfessionalSecrecy,
	UseCaseJointVenture,
	UseCaseSubLines,
	UseCaseMultiSeller,
	UseCaseNetting,
	UseCaseBarter,
	UseCaseTaxRefund,
	UseCaseUnknown,
}

var useCaseLabels = map[UseCase]string{
	UseCaseStandard:                 "Standard B2B",
	UseCaseMultiOrder:               "1. Multi-order / multi-delivery",
	UseCasePaidByThirdPartyPre:      "2. Invoice already paid by a third party or the buyer",
	UseCasePaidByThirdParty:         "3. Invoice paid by a third party",
	UseCasePartialPaymentUnknown:    "4. Third-party payment partially known",
	UseCaseExpensesWithInvoice:      "5. Employee expenses with invoice",
	UseCaseExpensesWithoutInvoice:   "6. Employee expenses without invoice",
	UseCaseLodgedCard:               "7. Lodged card (purchasing card)",
	UseCaseFactoringKnown:           "8. Factoring / cash pooling (known third party)",
	UseCaseDistributor:              "9. Distributor / depositary",
	UseCaseFactoringUnknown:         "10. On-demand factoring (unknown third party)",
	UseCaseCentralOrdering:          "11. Head-office order / store delivery",
	UseCaseTransparentIntermediary:  "12. Transparent intermediary",
	UseCaseSubcontractingDelegation: "13a. Subcontracting, direct payment (delegation)",
	UseCaseSubcontractingDirect:     "13b. Subcontracting, direct payment (direct action)",
	UseCaseCoContractingB2B:         "14a. Co-contracting B2B",
	UseCaseCoContractingB2G:         "14b. Co-contracting B2G",
	UseCasePurchaseOnBehalf:         "15. Purchase on behalf (media, consulting)",
	UseCaseDisbursements:            "16. Disbursements",
	UseCasePaymentIntermediary:      "17a. Payment intermediary (marketplace)",
	UseCaseMandateIntermediary:      "17b. Payment intermediary with invoicing mandate",
	UseCaseDebitNote:                "18. Debit notes",
	UseCaseMandateInvoicing:         "19a1. Invoicing mandate",
	UseCaseMandatePlatform:          "19a2. Invoicing mandate (platform)",
	UseCaseSelfBilling:              "19b. Self-billing",
	UseCaseDepositInvoice:           "20. Deposit invoice",
	UseCaseFinalInvoice:             "21. Final invoice after deposit",
	UseCaseDiscountCashVAT:          "22a. Early-payment discount (VAT on receipts)",
	UseCaseDiscountDebitVAT:         "22b. Early-payment discount (VAT on debits)",
	UseCaseSelfBillingIndividual:    "23. Self-billing for an individual",
	UseCaseArrhes:                   "24. Earnest money (arrhes)",
	UseCaseGiftCardSingle:           "25a. Gift vouchers (single use)",
	UseCaseGiftCardMulti:            "25b. Gift vouchers (multiple use)",
	UseCaseRetentionOfTitle:         "26. Retention of title clause",
	UseCaseToll:                     "27. Toll tickets",
	UseCaseRestaurantNote:           "28. Restaurant bills",
	UseCaseSingleTaxableEntity:      "29. Single taxable entity",
	UseCaseDuplicateCorrection:      "30. Duplicate invoice (B2C to B2B correction)",
	UseCaseMixedInvoice:             "31. Mixed invoices",
	UseCaseMonthlyPayment:           "32. B2C monthly payments",
	UseCaseMarginVAT:                "33. Margin VAT scheme",
	UseCasePartialCollection:        "34. Partial collection",
	UseCaseAuthorNote:               "35. Author notes",
	UseCaseProfessionalSecrecy:      "36. Professional secrecy",
	UseCaseJointVenture:             "37. Joint ventures",
	UseCaseSubLines:                 "38. Invoice sub-lines",
	UseCaseMultiSeller:              "39. Multi-seller",
	UseCaseNetting:                  "40. Netting",
	UseCaseBarter:                   "41. Barter",
	UseCaseTaxRefund:                "42. Tax refund (detaxe)",
	UseCaseUnknown:                  "Undetermined",
}

// AllUseCases returns every known use case in declaration order.
func AllUseCases() []UseCase {
	out := make([]UseCase, len(allUseCases))
	copy(out, allUseCases)
	return out
}

func UseCasesAsStringSlice() []string {
	result := make([]string, len(allUseCases))
	for i, uc := range allUseCases {
		result[i] = string(uc)
	}
	return result
}

// Label returns the human-readable description, or the raw identifier for
// values outside the enumeration.
func (u UseCase) Label() string {
	if l, ok := useCaseLabels[u]; ok {
		return l
	}
	return string(u)
}

// Known reports whether u is part of the enumeration.
func (u UseCase) Known() bool {
	_, ok := useCaseLabels[u]
	return ok
}

// ParseUseCase normalizes user or model input to a UseCase. Blank input maps
// to DefaultUseCase; unrecognized input is returned upper-cased with ok=false.
func ParseUseCase(input string) (UseCase, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(input))
	if normalized == "" {
		return DefaultUseCase, true
	}
	uc := UseCase(normalized)
	return uc, uc.Known()
}
