package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/einvoice/constants"
)

// SchemaRequired lists the fields the record schema itself requires.
var SchemaRequired = []string{"supplierName", "invoiceNumber", "totalAmount"}

var stringFields = []string{
	"useCase",
	"supplierName", "supplierAddress", "supplierVatId",
	"customerName", "customerAddress", "customerVatId",
	"invoiceNumber", "invoiceDate", "invoiceType",
	"orderNumber", "deliveryDate", "precedingInvoiceReference",
	"currency",
	"paymentMeans", "paymentMeansID", "payeeIBAN", "payeeBIC", "payeeName",
	"paymentTerms", "paymentDate",
	"buyerReference", "contractReference", "deliveryNoteReference", "note",
}

var numberFields = []string{"totalNet", "totalTax", "totalAmount"}

// InvoiceTypes are the accepted invoiceType values.
var InvoiceTypes = []string{"INVOICE", "CREDIT_NOTE", "UNKNOWN"}

// CurrencyPattern is the ISO 4217 shape required of currency.
const CurrencyPattern = `^[A-Z]{3}$`

// InvoiceJSONSchema returns the record schema as a generic map. Required
// fields are typed strictly, everything else may also be null. Extra
// properties are allowed and ignored.
func InvoiceJSONSchema() map[string]any {
	required := make(map[string]bool, len(SchemaRequired))
	for _, f := range SchemaRequired {
		required[f] = true
	}

	props := make(map[string]any, len(stringFields)+len(numberFields))
	for _, f := range stringFields {
		props[f] = typedProp("string", required[f])
	}
	for _, f := range numberFields {
		props[f] = typedProp("number", required[f])
	}
	withEnum(props["useCase"], constants.UseCasesAsStringSlice())
	withEnum(props["invoiceType"], InvoiceTypes)
	props["currency"].(map[string]any)["pattern"] = CurrencyPattern

	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   append([]string(nil), SchemaRequired...),
	}
}

func typedProp(kind string, required bool) map[string]any {
	if required {
		return map[string]any{"type": kind}
	}
	return map[string]any{"type": []string{kind, "null"}}
}

// withEnum restricts a nullable string property to values. null stays valid.
func withEnum(prop any, values []string) {
	enum := make([]any, 0, len(values)+1)
	for _, v := range values {
		enum = append(enum, v)
	}
	enum = append(enum, nil)
	prop.(map[string]any)["enum"] = enum
}

// SchemaText is the compact JSON rendering of InvoiceJSONSchema used in prompts.
func SchemaText() string {
	b, _ := json.Marshal(InvoiceJSONSchema())
	return string(b)
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	schema, err := compile(schemaMap)
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

var (
	invoiceSchemaOnce sync.Once
	invoiceSchema     *jsonschema.Schema
	invoiceSchemaErr  error
)

// ValidateInvoice checks a decoded candidate against the record schema and
// returns one "location: message" entry per violation, sorted.
func ValidateInvoice(candidate map[string]any) ([]string, error) {
	invoiceSchemaOnce.Do(func() {
		invoiceSchema, invoiceSchemaErr = compile(InvoiceJSONSchema())
	})
	if invoiceSchemaErr != nil {
		return nil, invoiceSchemaErr
	}

	err := invoiceSchema.Validate(candidate)
	if err == nil {
		return nil, nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, err
	}
	var out []string
	collectLeaves(ve, &out)
	sort.Strings(out)
	return out, nil
}

func collectLeaves(ve *jsonschema.ValidationError, out *[]string) {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*out = append(*out, loc+": "+ve.Message)
		return
	}
	for _, c := range ve.Causes {
		collectLeaves(c, out)
	}
}

func compile(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}
