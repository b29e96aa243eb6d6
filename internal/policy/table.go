package policy

import (
	"sort"

	"github.com/joseph-ayodele/einvoice/constants"
)

// Table combines the built-in resolver with optional external mandatory
// tables. External entries only ever add requirements.
type Table struct {
	ExternalBase     []string
	ExternalSpecific map[string][]string
}

// NewTable returns a table with no external entries.
func NewTable() *Table {
	return &Table{ExternalSpecific: map[string][]string{}}
}

// Effective returns the fields a candidate for useCase must carry before
// it is accepted.
func (t *Table) Effective(useCase constants.UseCase) []string {
	if t == nil {
		return Resolve(useCase)
	}
	return union(Resolve(useCase), t.ExternalBase, t.ExternalSpecific[string(useCase)])
}

// BaseList is the base mandatory list shown in prompts.
func (t *Table) BaseList() []string {
	if t == nil {
		return union(BaseFields)
	}
	return union(BaseFields, t.ExternalBase)
}

// SpecificMap returns the per-use-case extension lists, built-in merged with
// external, keyed by use-case identifier.
func (t *Table) SpecificMap() map[string][]string {
	out := make(map[string][]string, len(extensions))
	for uc, ext := range extensions {
		out[string(uc)] = union(ext)
	}
	if t == nil {
		return out
	}
	for uc, fields := range t.ExternalSpecific {
		out[uc] = union(out[uc], fields)
	}
	return out
}

// Divergence lists requirements that exist only in the external tables.
type Divergence struct {
	Base      []string
	ByUseCase map[string][]string
}

// Empty reports whether the external tables agree with the built-in table.
func (d Divergence) Empty() bool {
	return len(d.Base) == 0 && len(d.ByUseCase) == 0
}

// UseCases returns the diverging use cases in sorted order.
func (d Divergence) UseCases() []string {
	keys := make([]string, 0, len(d.ByUseCase))
	for k := range d.ByUseCase {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Divergence compares the external tables with the built-in one.
func (t *Table) Divergence() Divergence {
	d := Divergence{ByUseCase: map[string][]string{}}
	if t == nil {
		return d
	}
	d.Base = difference(t.ExternalBase, BaseFields)
	for uc, fields := range t.ExternalSpecific {
		extra := difference(fields, Resolve(constants.UseCase(uc)))
		if len(extra) > 0 {
			d.ByUseCase[uc] = extra
		}
	}
	return d
}

func difference(a, b []string) []string {
	in := make(map[string]struct{}, len(b))
	for _, f := range b {
		in[f] = struct{}{}
	}
	var out []string
	for _, f := range union(a) {
		if _, ok := in[f]; !ok {
			out = append(out, f)
		}
	}
	return out
}
