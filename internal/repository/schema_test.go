package repository

import (
	"testing"

	"entgo.io/ent/dialect/entsql"
	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/einvoice/db/ent/schema"
)

func TestSchemaMatchesQueries(t *testing.T) {
	var names []string
	for _, f := range (schema.ExtractionJob{}).Fields() {
		names = append(names, f.Descriptor().Name)
	}
	assert.Equal(t, jobColumns, names)

	var table string
	for _, a := range (schema.ExtractionJob{}).Annotations() {
		if ann, ok := a.(entsql.Annotation); ok {
			table = ann.Table
		}
	}
	assert.Equal(t, jobsTable, table)
	assert.Contains(t, createExtractionJobs, jobsTable)
}
