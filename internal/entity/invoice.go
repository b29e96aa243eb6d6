package entity

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/joseph-ayodele/einvoice/constants"
)

// InvoiceType distinguishes invoices from credit notes.
type InvoiceType string

const (
	InvoiceTypeInvoice    InvoiceType = "INVOICE"
	InvoiceTypeCreditNote InvoiceType = "CREDIT_NOTE"
	InvoiceTypeUnknown    InvoiceType = "UNKNOWN"
)

// DefaultCurrency applies when neither the model nor the reviewer supplied one.
const DefaultCurrency = "EUR"

// InvoiceRecord is the canonical extracted invoice. Every attribute except
// UseCase and Currency is independently nullable.
type InvoiceRecord struct {
	UseCase constants.UseCase `json:"useCase"`

	SupplierName    *string `json:"supplierName"`
	SupplierAddress *string `json:"supplierAddress"`
	SupplierVatID   *string `json:"supplierVatId"`

	CustomerName    *string `json:"customerName"`
	CustomerAddress *string `json:"customerAddress"`
	CustomerVatID   *string `json:"customerVatId"`

	InvoiceNumber             *string     `json:"invoiceNumber"`
	InvoiceDate               *string     `json:"invoiceDate"` // YYYY-MM-DD preferred
	InvoiceType               InvoiceType `json:"invoiceType,omitempty"`
	OrderNumber               *string     `json:"orderNumber"`
	DeliveryDate              *string     `json:"deliveryDate"`
	PrecedingInvoiceReference *string     `json:"precedingInvoiceReference"`

	Currency    string   `json:"currency"`
	TotalNet    *float64 `json:"totalNet"`
	TotalTax    *float64 `json:"totalTax"`
	TotalAmount *float64 `json:"totalAmount"`

	PaymentMeans   *string `json:"paymentMeans"`
	PaymentMeansID *string `json:"paymentMeansID"`
	PayeeIBAN      *string `json:"payeeIBAN"`
	PayeeBIC       *string `json:"payeeBIC"`
	PayeeName      *string `json:"payeeName"`
	PaymentTerms   *string `json:"paymentTerms"`
	PaymentDate    *string `json:"paymentDate"`

	BuyerReference        *string `json:"buyerReference"`
	ContractReference     *string `json:"contractReference"`
	DeliveryNoteReference *string `json:"deliveryNoteReference"`
	Note                  *string `json:"note"`
}

// ApplyDefaults fills the two attributes that always carry a value.
func (r *InvoiceRecord) ApplyDefaults() {
	if strings.TrimSpace(string(r.UseCase)) == "" {
		r.UseCase = constants.DefaultUseCase
	}
	if strings.TrimSpace(r.Currency) == "" {
		r.Currency = DefaultCurrency
	}
}

// IsCreditNote reports whether the record describes a credit note.
func (r *InvoiceRecord) IsCreditNote() bool {
	return strings.EqualFold(string(r.InvoiceType), string(InvoiceTypeCreditNote))
}

// AsMap returns the record keyed by its JSON field names, which are also the
// names used by the requirement tables.
func (r *InvoiceRecord) AsMap() (map[string]any, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return m, nil
}

// RecordFromMap decodes a validated candidate into a record and applies defaults.
func RecordFromMap(m map[string]any) (InvoiceRecord, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return InvoiceRecord{}, fmt.Errorf("encode candidate: %w", err)
	}
	var rec InvoiceRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return InvoiceRecord{}, fmt.Errorf("decode candidate: %w", err)
	}
	rec.ApplyDefaults()
	return rec, nil
}

// StringValue dereferences an optional string, returning "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
