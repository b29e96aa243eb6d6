package llm

import (
	"encoding/json"
	"strings"

	"github.com/joseph-ayodele/einvoice/internal/common"
)

// PromptContext is the policy information embedded in every base prompt.
type PromptContext struct {
	Schema      string              // compact JSON schema; SchemaText() when empty
	BaseFields  []string            // mandatory for every use case
	SpecificMap map[string][]string // per use case extensions
	UseCases    []string            // valid useCase identifiers
}

func (p PromptContext) schema() string {
	if p.Schema != "" {
		return p.Schema
	}
	return SchemaText()
}

// Repair describes why the previous round was rejected.
type Repair struct {
	Kind       common.FailureKind
	Output     string   // verbatim completion, for UNPARSABLE
	Missing    []string // for POLICY_INCOMPLETE
	Violations []string // for SCHEMA_INVALID
}

// BuildBasePrompt composes the first-round prompt.
func BuildBasePrompt(p PromptContext, text string) string {
	var b strings.Builder
	b.WriteString("You are an assistant that extracts invoicing data from raw invoice text.")
	if len(p.BaseFields) > 0 {
		b.WriteString(" Mandatory fields: ")
		b.WriteString(strings.Join(p.BaseFields, ", "))
		b.WriteString(".")
	}
	if len(p.SpecificMap) > 0 {
		if js, err := json.Marshal(p.SpecificMap); err == nil {
			b.WriteString(" Specific mandatory fields per useCase: ")
			b.Write(js)
			b.WriteString(".")
		}
	}
	if len(p.UseCases) > 0 {
		b.WriteString(" Set useCase to one of: ")
		b.WriteString(strings.Join(p.UseCases, ", "))
		b.WriteString(". Use STANDARD when unsure.")
	}
	b.WriteString(" Use YYYY-MM-DD for dates, a 3-letter ISO 4217 currency code, and plain numbers for amounts.")
	b.WriteString(" Return ONLY valid JSON that matches this JSON Schema:\n")
	b.WriteString(p.schema())
	b.WriteString("\n\nHere is the invoice text:\n")
	b.WriteString(text)
	b.WriteString("\n\nReturn only JSON.")
	return b.String()
}

// BuildRepairPrompt composes a self-contained prompt asking the model to fix
// the defect described by r. Every variant repeats the schema and the text.
func BuildRepairPrompt(p PromptContext, r Repair, text string) string {
	var b strings.Builder
	switch r.Kind {
	case common.FailureUnparsable:
		b.WriteString("The previous output could not be parsed as JSON. Please return ONLY valid JSON that matches this schema:\n")
		b.WriteString(p.schema())
		b.WriteString("\n\nPrevious output:\n")
		b.WriteString(r.Output)
	case common.FailurePolicyIncomplete:
		b.WriteString("The JSON you returned is missing these required fields: ")
		b.WriteString(strings.Join(r.Missing, ", "))
		b.WriteString(". Please return ONLY valid JSON that includes them and matches this schema: ")
		b.WriteString(p.schema())
	case common.FailureSchemaInvalid:
		b.WriteString("The JSON you returned does not match the required schema. Errors: ")
		b.WriteString(strings.Join(r.Violations, "; "))
		b.WriteString(". Please return ONLY valid JSON matching this schema: ")
		b.WriteString(p.schema())
	default:
		return BuildBasePrompt(p, text)
	}
	b.WriteString("\n\nInvoice text:\n")
	b.WriteString(text)
	return b.String()
}
