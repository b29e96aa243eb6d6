package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/joseph-ayodele/einvoice/constants"
)

// ExtractionJob is one extraction run. Timestamps are unix milliseconds so
// the same table works on SQLite and PostgreSQL.
type ExtractionJob struct{ ent.Schema }

func (ExtractionJob) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "extraction_jobs"},
	}
}

func (ExtractionJob) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").Immutable().NotEmpty(),
		field.String("source_name").Default(""),
		field.String("mime_type").Default(""),
		field.Enum("status").Values(
			string(constants.JobStatusRunning),
			string(constants.JobStatusSucceeded),
			string(constants.JobStatusFailed),
		),
		field.Int("attempts").Default(0).NonNegative(),
		field.String("failure_kind").Default(""),
		field.String("last_failure").Default(""),
		field.String("use_case").Default(""),
		field.String("record_json").Optional().Nillable().
			SchemaType(map[string]string{dialect.Postgres: "text"}),
		field.String("error_message").Default(""),
		field.Int64("started_at"),
		field.Int64("finished_at").Optional().Nillable(),
	}
}

func (ExtractionJob) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("started_at"),
	}
}
