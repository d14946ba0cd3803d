package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RunStatus represents the current state of a deed-processing run.
type RunStatus string

const (
	RunStatusQueued       RunStatus = "queued"
	RunStatusExtracting   RunStatus = "extracting"
	RunStatusResolving    RunStatus = "resolving_county"
	RunStatusValidating   RunStatus = "validating"
	RunStatusComputingTax RunStatus = "computing_tax"
	RunStatusComplete     RunStatus = "complete"
	RunStatusFailed       RunStatus = "failed"
)

// DeedFields is the structured record produced by the extraction
// collaborator. Every field is an opaque string at this boundary; the
// validation pipeline is what gives them semantic meaning. Created once per
// run and never mutated.
type DeedFields struct {
	DocID         string `json:"doc_id"`
	County        string `json:"county"`
	State         string `json:"state"`
	DateSigned    string `json:"date_signed"`
	DateRecorded  string `json:"date_recorded"`
	Grantor       string `json:"grantor"`
	Grantee       string `json:"grantee"`
	AmountNumeric string `json:"amount_numeric"`
	AmountText    string `json:"amount_text"`
	APN           string `json:"apn"`
	Status        string `json:"status"`
}

// Result is the successful outcome of a validation run. NormalizedCounty is
// always a name present verbatim in the registry, and TaxDue is always
// computed from the numeric amount field, never the written one.
type Result struct {
	NormalizedCounty string          `json:"normalized_county"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	Amount           decimal.Decimal `json:"amount"`
	TaxDue           decimal.Decimal `json:"tax_due"`
}

// Run represents a single deed-processing invocation, as persisted by the
// store. The core pipeline itself holds no state between runs.
type Run struct {
	ID        string      `json:"id"`
	DocID     string      `json:"doc_id"`
	Status    RunStatus   `json:"status"`
	Fields    *DeedFields `json:"fields,omitempty"`
	Result    *Result     `json:"result,omitempty"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
