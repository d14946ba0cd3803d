// Package pipeline implements the deterministic deed validation and
// normalization sequence: county resolution, date-order and amount checks,
// and tax computation. Extraction sits outside this package behind the
// Extractor interface and is never trusted for financial or legal logic.
package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/deed-cli/internal/model"
	"github.com/sells-group/deed-cli/internal/registry"
	"github.com/sells-group/deed-cli/internal/store"
)

// Extractor is the external text-extraction collaborator: it turns raw deed
// text into structured fields. Implementations must return
// *ExtractionFormatError for output that is not valid structured data.
type Extractor interface {
	Extract(ctx context.Context, rawText string) (model.DeedFields, error)
}

// Pipeline orchestrates one deed run: extract, resolve, validate, tax.
// The registry is read-only and may be shared across concurrent pipelines.
type Pipeline struct {
	store     store.Store
	extractor Extractor
	registry  *registry.Registry
	converter WrittenAmountConverter
}

// New creates a Pipeline. The store records run lifecycle best-effort; a
// store failure never changes a validation outcome.
func New(st store.Store, ex Extractor, reg *registry.Registry) *Pipeline {
	return &Pipeline{
		store:     st,
		extractor: ex,
		registry:  reg,
		converter: PhraseConverter{},
	}
}

// Run executes the full pipeline for a single raw deed. Processing is linear
// and fail-fast: the first failure terminates the run, is recorded on the
// run row, and surfaces to the caller. No retries, no partial success.
func (p *Pipeline) Run(ctx context.Context, rawText string) (*model.Result, error) {
	log := zap.L()
	log.Info("pipeline: starting deed run")

	run, err := p.store.CreateRun(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}

	setStatus := func(status model.RunStatus) {
		if statusErr := p.store.UpdateRunStatus(ctx, run.ID, status); statusErr != nil {
			log.Warn("pipeline: failed to update status", zap.Error(statusErr))
		}
	}
	fail := func(stageErr error) error {
		if failErr := p.store.FailRun(ctx, run.ID, stageErr.Error()); failErr != nil {
			log.Warn("pipeline: failed to record failure", zap.Error(failErr))
		}
		log.Error("pipeline: run failed", zap.String("run_id", run.ID), zap.Error(stageErr))
		return stageErr
	}

	setStatus(model.RunStatusExtracting)
	fields, err := p.extractor.Extract(ctx, rawText)
	if err != nil {
		return nil, fail(eris.Wrap(err, "pipeline: extract"))
	}
	if fieldsErr := p.store.UpdateRunFields(ctx, run.ID, fields); fieldsErr != nil {
		log.Warn("pipeline: failed to record fields", zap.Error(fieldsErr))
	}

	result, err := p.validate(fields, setStatus)
	if err != nil {
		return nil, fail(err)
	}

	if completeErr := p.store.CompleteRun(ctx, run.ID, result); completeErr != nil {
		log.Warn("pipeline: failed to record result", zap.Error(completeErr))
	}
	log.Info("pipeline: run complete",
		zap.String("run_id", run.ID),
		zap.String("doc_id", fields.DocID),
		zap.String("county", result.NormalizedCounty),
		zap.String("tax_due", result.TaxDue.String()),
	)
	return result, nil
}

// Validate runs the deterministic checks on already-extracted fields. It is
// a pure function of the fields and the registry: identical inputs yield
// identical results or identical failures.
func (p *Pipeline) Validate(fields model.DeedFields) (*model.Result, error) {
	return p.validate(fields, func(model.RunStatus) {})
}

func (p *Pipeline) validate(fields model.DeedFields, setStatus func(model.RunStatus)) (*model.Result, error) {
	setStatus(model.RunStatusResolving)
	county, err := ResolveCounty(fields.County, p.registry)
	if err != nil {
		return nil, err
	}

	setStatus(model.RunStatusValidating)
	if err := ValidateDateOrder(fields.DateSigned, fields.DateRecorded); err != nil {
		return nil, err
	}
	amount, err := Reconcile(fields.AmountNumeric, fields.AmountText, p.converter)
	if err != nil {
		return nil, err
	}

	setStatus(model.RunStatusComputingTax)
	rate, ok := p.registry.Rate(county)
	if !ok {
		// Cannot happen: ResolveCounty only returns registry names.
		return nil, eris.Errorf("pipeline: resolved county %q missing from registry", county)
	}

	return &model.Result{
		NormalizedCounty: county,
		TaxRate:          rate,
		Amount:           amount,
		TaxDue:           ComputeTax(amount, rate),
	}, nil
}
