package ubl

import "encoding/xml"

// Namespaces and fixed identifiers of the emitted document.
const (
	NamespaceInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NamespaceCAC     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NamespaceCBC     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"

	VersionID       = "2.1"
	CustomizationID = "urn:cen.eu:en16931:2017"

	TypeCodeInvoice    = "380"
	TypeCodeCreditNote = "381"

	DefaultCountry    = "FR"
	DefaultTaxPercent = "20"
	TaxSchemeVAT      = "VAT"
	TaxCategoryS      = "S"
	LineItemName      = "Services / Marchandises (Global)"
)

type invoiceDoc struct {
	XMLName  xml.Name `xml:"Invoice"`
	Xmlns    string   `xml:"xmlns,attr"`
	XmlnsCAC string   `xml:"xmlns:cac,attr"`
	XmlnsCBC string   `xml:"xmlns:cbc,attr"`

	UBLVersionID         string `xml:"cbc:UBLVersionID"`
	CustomizationID      string `xml:"cbc:CustomizationID"`
	ID                   string `xml:"cbc:ID"`
	IssueDate            string `xml:"cbc:IssueDate"`
	InvoiceTypeCode      string `xml:"cbc:InvoiceTypeCode"`
	Note                 string `xml:"cbc:Note,omitempty"`
	DocumentCurrencyCode string `xml:"cbc:DocumentCurrencyCode"`
	BuyerReference       string `xml:"cbc:BuyerReference,omitempty"`

	OrderReference            *reference `xml:"cac:OrderReference,omitempty"`
	BillingReference          *billing   `xml:"cac:BillingReference,omitempty"`
	DespatchDocumentReference *reference `xml:"cac:DespatchDocumentReference,omitempty"`
	ContractDocumentReference *reference `xml:"cac:ContractDocumentReference,omitempty"`

	AccountingSupplierParty partyWrapper `xml:"cac:AccountingSupplierParty"`
	AccountingCustomerParty partyWrapper `xml:"cac:AccountingCustomerParty"`
	PayeeParty              *payeeParty  `xml:"cac:PayeeParty,omitempty"`

	Delivery     *delivery     `xml:"cac:Delivery,omitempty"`
	PaymentMeans *paymentMeans `xml:"cac:PaymentMeans,omitempty"`
	PaymentTerms *paymentTerms `xml:"cac:PaymentTerms,omitempty"`

	TaxTotal           taxTotal      `xml:"cac:TaxTotal"`
	LegalMonetaryTotal monetaryTotal `xml:"cac:LegalMonetaryTotal"`

	LineComment string      `xml:",comment"`
	InvoiceLine invoiceLine `xml:"cac:InvoiceLine"`
}

type reference struct {
	ID string `xml:"cbc:ID"`
}

type billing struct {
	InvoiceDocumentReference reference `xml:"cac:InvoiceDocumentReference"`
}

type partyWrapper struct {
	Party party `xml:"cac:Party"`
}

type party struct {
	PartyName      partyName      `xml:"cac:PartyName"`
	PostalAddress  postalAddress  `xml:"cac:PostalAddress"`
	PartyTaxScheme partyTaxScheme `xml:"cac:PartyTaxScheme"`
}

type partyName struct {
	Name string `xml:"cbc:Name"`
}

type postalAddress struct {
	StreetName string  `xml:"cbc:StreetName"`
	Country    country `xml:"cac:Country"`
}

type country struct {
	IdentificationCode string `xml:"cbc:IdentificationCode"`
}

type partyTaxScheme struct {
	CompanyID string    `xml:"cbc:CompanyID"`
	TaxScheme taxScheme `xml:"cac:TaxScheme"`
}

type taxScheme struct {
	ID string `xml:"cbc:ID"`
}

type payeeParty struct {
	PartyName partyName `xml:"cac:PartyName"`
}

type delivery struct {
	ActualDeliveryDate string `xml:"cbc:ActualDeliveryDate"`
}

type paymentMeans struct {
	PaymentMeansCode      string            `xml:"cbc:PaymentMeansCode"`
	PaymentDueDate        string            `xml:"cbc:PaymentDueDate,omitempty"`
	PaymentID             string            `xml:"cbc:PaymentID,omitempty"`
	PayeeFinancialAccount *financialAccount `xml:"cac:PayeeFinancialAccount,omitempty"`
}

type financialAccount struct {
	ID                         string       `xml:"cbc:ID"`
	Name                       string       `xml:"cbc:Name,omitempty"`
	FinancialInstitutionBranch *institution `xml:"cac:FinancialInstitutionBranch,omitempty"`
}

type institution struct {
	ID string `xml:"cbc:ID"`
}

type paymentTerms struct {
	Note string `xml:"cbc:Note"`
}

type amount struct {
	CurrencyID string `xml:"currencyID,attr"`
	Value      string `xml:",chardata"`
}

type taxTotal struct {
	TaxAmount   amount      `xml:"cbc:TaxAmount"`
	TaxSubtotal taxSubtotal `xml:"cac:TaxSubtotal"`
}

type taxSubtotal struct {
	TaxableAmount amount      `xml:"cbc:TaxableAmount"`
	TaxAmount     amount      `xml:"cbc:TaxAmount"`
	TaxCategory   taxCategory `xml:"cac:TaxCategory"`
}

type taxCategory struct {
	ID        string    `xml:"cbc:ID"`
	Percent   string    `xml:"cbc:Percent"`
	TaxScheme taxScheme `xml:"cac:TaxScheme"`
}

type monetaryTotal struct {
	LineExtensionAmount amount `xml:"cbc:LineExtensionAmount"`
	TaxExclusiveAmount  amount `xml:"cbc:TaxExclusiveAmount"`
	TaxInclusiveAmount  amount `xml:"cbc:TaxInclusiveAmount"`
	PayableAmount       amount `xml:"cbc:PayableAmount"`
}

type quantity struct {
	UnitCode string `xml:"unitCode,attr"`
	Value    string `xml:",chardata"`
}

type invoiceLine struct {
	ID                  string   `xml:"cbc:ID"`
	InvoicedQuantity    quantity `xml:"cbc:InvoicedQuantity"`
	LineExtensionAmount amount   `xml:"cbc:LineExtensionAmount"`
	Item                item     `xml:"cac:Item"`
	Price               price    `xml:"cac:Price"`
}

type item struct {
	Name string `xml:"cbc:Name"`
}

type price struct {
	PriceAmount amount `xml:"cbc:PriceAmount"`
}
