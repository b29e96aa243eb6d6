// Package ubl renders invoice records as UBL 2.1 XML documents.
package ubl

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/einvoice/internal/entity"
)

// ErrNilRecord is returned when Serialize is called without a record.
var ErrNilRecord = errors.New("ubl: nil invoice record")

var hundred = decimal.NewFromInt(100)

// Generate serializes rec using today's date as the fallback issue date.
func Generate(rec *entity.InvoiceRecord) ([]byte, error) {
	return Serialize(rec, time.Now())
}

// Serialize maps rec to a standalone UBL invoice. now supplies the issue date
// when the record has none. Any non-nil record produces well-formed XML.
func Serialize(rec *entity.InvoiceRecord, now time.Time) ([]byte, error) {
	if rec == nil {
		return nil, ErrNilRecord
	}

	doc := build(rec, now)

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode invoice: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode invoice: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Totals are the monetary figures after defaulting.
type Totals struct {
	Net     decimal.Decimal
	Tax     decimal.Decimal
	Gross   decimal.Decimal
	Percent string
}

// ComputeTotals defaults net and tax to zero and gross to net+tax, and
// derives the single tax-category percent.
func ComputeTotals(rec *entity.InvoiceRecord) Totals {
	t := Totals{
		Net: fromPtr(rec.TotalNet),
		Tax: fromPtr(rec.TotalTax),
	}
	if rec.TotalAmount != nil {
		t.Gross = decimal.NewFromFloat(*rec.TotalAmount)
	} else {
		t.Gross = t.Net.Add(t.Tax)
	}
	if t.Net.IsPositive() {
		t.Percent = t.Tax.Div(t.Net).Mul(hundred).Round(0).String()
	} else {
		t.Percent = DefaultTaxPercent
	}
	return t
}

func build(rec *entity.InvoiceRecord, now time.Time) invoiceDoc {
	currency := strings.TrimSpace(rec.Currency)
	if currency == "" {
		currency = entity.DefaultCurrency
	}
	id := entity.StringValue(rec.InvoiceNumber)
	if strings.TrimSpace(id) == "" {
		id = "UNKNOWN"
	}
	issue := entity.StringValue(rec.InvoiceDate)
	if strings.TrimSpace(issue) == "" {
		issue = now.Format(time.DateOnly)
	}
	typeCode := TypeCodeInvoice
	if rec.IsCreditNote() {
		typeCode = TypeCodeCreditNote
	}

	tot := ComputeTotals(rec)
	money := func(d decimal.Decimal) amount {
		return amount{CurrencyID: currency, Value: d.StringFixed(2)}
	}

	doc := invoiceDoc{
		Xmlns:    NamespaceInvoice,
		XmlnsCAC: NamespaceCAC,
		XmlnsCBC: NamespaceCBC,

		UBLVersionID:         VersionID,
		CustomizationID:      CustomizationID,
		ID:                   id,
		IssueDate:            issue,
		InvoiceTypeCode:      typeCode,
		Note:                 entity.StringValue(rec.Note),
		DocumentCurrencyCode: currency,
		BuyerReference:       entity.StringValue(rec.BuyerReference),

		OrderReference:            optionalRef(rec.OrderNumber),
		DespatchDocumentReference: optionalRef(rec.DeliveryNoteReference),
		ContractDocumentReference: optionalRef(rec.ContractReference),

		AccountingSupplierParty: partyWrapper{Party: newParty(rec.SupplierName, rec.SupplierAddress, rec.SupplierVatID)},
		AccountingCustomerParty: partyWrapper{Party: newParty(rec.CustomerName, rec.CustomerAddress, rec.CustomerVatID)},

		TaxTotal: taxTotal{
			TaxAmount: money(tot.Tax),
			TaxSubtotal: taxSubtotal{
				TaxableAmount: money(tot.Net),
				TaxAmount:     money(tot.Tax),
				TaxCategory: taxCategory{
					ID:        TaxCategoryS,
					Percent:   tot.Percent,
					TaxScheme: taxScheme{ID: TaxSchemeVAT},
				},
			},
		},
		LegalMonetaryTotal: monetaryTotal{
			LineExtensionAmount: money(tot.Net),
			TaxExclusiveAmount:  money(tot.Net),
			TaxInclusiveAmount:  money(tot.Gross),
			PayableAmount:       money(tot.Gross),
		},

		LineComment: " single line covering the whole invoice; line items are not extracted ",
		InvoiceLine: invoiceLine{
			ID:                  "1",
			InvoicedQuantity:    quantity{UnitCode: "EA", Value: "1"},
			LineExtensionAmount: money(tot.Net),
			Item:                item{Name: LineItemName},
			Price:               price{PriceAmount: money(tot.Net)},
		},
	}

	if ref := optionalRef(rec.PrecedingInvoiceReference); ref != nil {
		doc.BillingReference = &billing{InvoiceDocumentReference: *ref}
	}
	if name := present(rec.PayeeName); name != "" {
		doc.PayeeParty = &payeeParty{PartyName: partyName{Name: name}}
	}
	if d := present(rec.DeliveryDate); d != "" {
		doc.Delivery = &delivery{ActualDeliveryDate: d}
	}
	doc.PaymentMeans = newPaymentMeans(rec)
	if terms := present(rec.PaymentTerms); terms != "" {
		doc.PaymentTerms = &paymentTerms{Note: terms}
	}
	return doc
}

func newParty(name, address, vatID *string) party {
	return party{
		PartyName:     partyName{Name: entity.StringValue(name)},
		PostalAddress: postalAddress{StreetName: entity.StringValue(address), Country: country{IdentificationCode: DefaultCountry}},
		PartyTaxScheme: partyTaxScheme{
			CompanyID: entity.StringValue(vatID),
			TaxScheme: taxScheme{ID: TaxSchemeVAT},
		},
	}
}

// newPaymentMeans is emitted only when a means code or payee account is known.
func newPaymentMeans(rec *entity.InvoiceRecord) *paymentMeans {
	code := present(rec.PaymentMeans)
	iban := present(rec.PayeeIBAN)
	if code == "" && iban == "" {
		return nil
	}
	if code == "" {
		code = "30" // credit transfer
	}
	pm := &paymentMeans{
		PaymentMeansCode: code,
		PaymentDueDate:   present(rec.PaymentDate),
		PaymentID:        present(rec.PaymentMeansID),
	}
	if iban != "" {
		pm.PayeeFinancialAccount = &financialAccount{ID: iban, Name: present(rec.PayeeName)}
		if bic := present(rec.PayeeBIC); bic != "" {
			pm.PayeeFinancialAccount.FinancialInstitutionBranch = &institution{ID: bic}
		}
	}
	return pm
}

func optionalRef(s *string) *reference {
	if v := present(s); v != "" {
		return &reference{ID: v}
	}
	return nil
}

func present(s *string) string {
	return strings.TrimSpace(entity.StringValue(s))
}

func fromPtr(f *float64) decimal.Decimal {
	if f == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*f)
}
