// Package pipeline runs the extract, validate and repair loop over documents.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/einvoice/constants"
	"github.com/joseph-ayodele/einvoice/internal/common"
	"github.com/joseph-ayodele/einvoice/internal/entity"
	"github.com/joseph-ayodele/einvoice/internal/llm"
	"github.com/joseph-ayodele/einvoice/internal/policy"
)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func contextSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ControllerConfig bounds the repair loop.
type ControllerConfig struct {
	MaxRetries  int           // default 2, so at most 3 attempts
	BackoffBase time.Duration // delay after the k-th transport failure is k*BackoffBase
}

// Round is the loop-carried state of one extraction run.
type Round struct {
	Attempt  int // 1-based
	Prompt   string
	LastKind common.FailureKind
}

// Outcome is the verdict on one completion. Kind is empty when accepted.
type Outcome struct {
	Kind       common.FailureKind
	Record     *entity.InvoiceRecord
	UseCase    constants.UseCase
	Missing    []string
	Violations []string
	Output     string
	Err        error
}

// Accepted reports whether the round produced a usable record.
func (o Outcome) Accepted() bool { return o.Kind == "" && o.Record != nil }

// Result is a successful run.
type Result struct {
	Record   entity.InvoiceRecord
	Attempts int
}

// Controller turns document text into a schema-valid, policy-complete
// record within a fixed attempt budget.
type Controller struct {
	model   llm.Completer
	table   *policy.Table
	prompts llm.PromptContext
	cfg     ControllerConfig
	sleep   Sleeper
	logger  *slog.Logger
}

// ControllerOption customises a Controller.
type ControllerOption func(*Controller)

// WithSleeper replaces the backoff sleeper.
func WithSleeper(s Sleeper) ControllerOption {
	return func(c *Controller) { c.sleep = s }
}

// WithLogger sets the controller logger.
func WithLogger(l *slog.Logger) ControllerOption {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewController(model llm.Completer, table *policy.Table, cfg ControllerConfig, opts ...ControllerOption) *Controller {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = 500 * time.Millisecond
	}
	if table == nil {
		table = policy.NewTable()
	}
	c := &Controller{
		model: model,
		table: table,
		prompts: llm.PromptContext{
			Schema:      llm.SchemaText(),
			BaseFields:  table.BaseList(),
			SpecificMap: table.SpecificMap(),
			UseCases:    constants.UseCasesAsStringSlice(),
		},
		cfg:    cfg,
		sleep:  contextSleep,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MaxAttempts is the total attempt budget.
func (c *Controller) MaxAttempts() int { return c.cfg.MaxRetries + 1 }

// FirstRound returns the initial state for text.
func (c *Controller) FirstRound(text string) Round {
	return Round{Attempt: 1, Prompt: llm.BuildBasePrompt(c.prompts, text)}
}

// Step invokes the model once with r.Prompt and classifies the answer.
func (c *Controller) Step(ctx context.Context, r Round) Outcome {
	out, err := c.model.Complete(ctx, r.Prompt)
	if err != nil {
		return Outcome{Kind: common.FailureTransport, Err: err}
	}
	return c.Evaluate(out)
}

// Evaluate parses and validates one completion. It does not touch the model.
// Missing mandatory fields are reported in preference to schema violations.
func (c *Controller) Evaluate(completion string) Outcome {
	candidate, err := llm.ParseCompletion(completion)
	if err != nil {
		return Outcome{Kind: common.FailureUnparsable, Output: completion}
	}

	uc := normalizeCandidate(candidate)
	o := Outcome{UseCase: uc}

	o.Missing = policy.Missing(c.table.Effective(uc), candidate)
	violations, err := llm.ValidateInvoice(candidate)
	if err != nil {
		violations = append(violations, err.Error())
	}
	o.Violations = violations

	switch {
	case len(o.Missing) > 0:
		o.Kind = common.FailurePolicyIncomplete
		return o
	case len(o.Violations) > 0:
		o.Kind = common.FailureSchemaInvalid
		return o
	}

	rec, err := entity.RecordFromMap(candidate)
	if err != nil {
		o.Kind = common.FailureSchemaInvalid
		o.Violations = []string{err.Error()}
		return o
	}
	o.Record = &rec
	return o
}

// Next derives the following round. Transport failures repeat the prompt;
// content failures get a repair prompt built from o.
func (c *Controller) Next(r Round, o Outcome, text string) Round {
	next := Round{Attempt: r.Attempt + 1, Prompt: r.Prompt, LastKind: o.Kind}
	if o.Kind == common.FailureTransport {
		return next
	}
	next.Prompt = llm.BuildRepairPrompt(c.prompts, llm.Repair{
		Kind:       o.Kind,
		Output:     o.Output,
		Missing:    o.Missing,
		Violations: o.Violations,
	}, text)
	return next
}

// Run drives rounds until a record is accepted, the budget is spent, or ctx
// is cancelled between rounds.
func (c *Controller) Run(ctx context.Context, text string) (Result, error) {
	runID := common.RunIDFromContext(ctx)
	if runID == "" {
		runID = uuid.New().String()
		ctx = common.WithRunID(ctx, runID)
	}
	start := time.Now()
	maxAttempts := c.MaxAttempts()

	c.logger.Info("pipeline.run.start", "run_id", runID, "text_len", len(text), "max_attempts", maxAttempts)

	r := c.FirstRound(text)
	for {
		if err := ctx.Err(); err != nil {
			c.logger.Warn("pipeline.run.abandoned", "run_id", runID, "attempt", r.Attempt, "error", err)
			return Result{}, fmt.Errorf("extraction abandoned before attempt %d: %w", r.Attempt, err)
		}

		o := c.Step(ctx, r)
		if o.Accepted() {
			c.logger.Info("pipeline.run.accepted",
				"run_id", runID,
				"attempt", r.Attempt,
				"use_case", o.Record.UseCase,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return Result{Record: *o.Record, Attempts: r.Attempt}, nil
		}

		c.logRejected(runID, r, o)

		if r.Attempt >= maxAttempts {
			err := &common.ExtractionError{
				Kind:     common.FailureRetryExhausted,
				Last:     o.Kind,
				Attempts: r.Attempt,
				Detail:   detail(o),
				Missing:  o.Missing,
				Cause:    o.Err,
			}
			c.logger.Error("pipeline.run.exhausted",
				"run_id", runID,
				"attempts", r.Attempt,
				"last_kind", o.Kind,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return Result{}, err
		}

		if o.Kind == common.FailureTransport {
			delay := time.Duration(r.Attempt) * c.cfg.BackoffBase
			if err := c.sleep(ctx, delay); err != nil {
				c.logger.Warn("pipeline.run.abandoned", "run_id", runID, "attempt", r.Attempt, "error", err)
				return Result{}, fmt.Errorf("extraction abandoned during backoff: %w", err)
			}
		}
		r = c.Next(r, o, text)
	}
}

func (c *Controller) logRejected(runID string, r Round, o Outcome) {
	attrs := []any{"run_id", runID, "attempt", r.Attempt, "kind", o.Kind}
	switch o.Kind {
	case common.FailureTransport:
		attrs = append(attrs, "error", o.Err)
	case common.FailureUnparsable:
		attrs = append(attrs, "output", truncate(o.Output, 200))
	case common.FailurePolicyIncomplete:
		attrs = append(attrs, "use_case", o.UseCase, "missing", o.Missing)
	case common.FailureSchemaInvalid:
		attrs = append(attrs, "violations", o.Violations)
	}
	c.logger.Warn("pipeline.round.rejected", attrs...)
}

func detail(o Outcome) string {
	switch o.Kind {
	case common.FailurePolicyIncomplete:
		return "missing " + strings.Join(o.Missing, ", ")
	case common.FailureSchemaInvalid:
		return strings.Join(o.Violations, "; ")
	case common.FailureUnparsable:
		return "model output is not JSON"
	}
	return ""
}

// normalizeCandidate fills a missing or blank useCase, folds the enumerated
// string fields to their canonical upper-case form and returns the use case
// used for requirement lookup. Values outside the enumerations are left for
// schema validation to reject.
func normalizeCandidate(candidate map[string]any) constants.UseCase {
	for _, f := range []string{"currency", "invoiceType"} {
		if v, ok := candidate[f].(string); ok {
			if v = strings.ToUpper(strings.TrimSpace(v)); v == "" {
				candidate[f] = nil
			} else {
				candidate[f] = v
			}
		}
	}

	switch v := candidate["useCase"].(type) {
	case nil:
		candidate["useCase"] = string(constants.DefaultUseCase)
		return constants.DefaultUseCase
	case string:
		uc, _ := constants.ParseUseCase(v)
		candidate["useCase"] = string(uc)
		return uc
	}
	// wrong type; schema validation reports it
	return constants.DefaultUseCase
}
