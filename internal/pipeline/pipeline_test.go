package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/deed-cli/internal/model"
	"github.com/sells-group/deed-cli/internal/store"
)

type mockStore struct {
	createErr error

	statuses   []model.RunStatus
	fields     *model.DeedFields
	result     *model.Result
	failureMsg string
}

var _ store.Store = (*mockStore)(nil)

func (m *mockStore) CreateRun(ctx context.Context) (*model.Run, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &model.Run{ID: "run-1", Status: model.RunStatusQueued}, nil
}

func (m *mockStore) UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error {
	m.statuses = append(m.statuses, status)
	return nil
}

func (m *mockStore) UpdateRunFields(ctx context.Context, runID string, fields model.DeedFields) error {
	m.fields = &fields
	return nil
}

func (m *mockStore) CompleteRun(ctx context.Context, runID string, result *model.Result) error {
	m.result = result
	return nil
}

func (m *mockStore) FailRun(ctx context.Context, runID string, reason string) error {
	m.failureMsg = reason
	return nil
}

func (m *mockStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	return nil, errors.New("not implemented")
}

func (m *mockStore) ListRuns(ctx context.Context, filter store.RunFilter) ([]model.Run, error) {
	return nil, nil
}

func (m *mockStore) Migrate(ctx context.Context) error { return nil }
func (m *mockStore) Close() error                      { return nil }

type mockExtractor struct {
	fields model.DeedFields
	err    error
}

var _ Extractor = (*mockExtractor)(nil)

func (m *mockExtractor) Extract(ctx context.Context, rawText string) (model.DeedFields, error) {
	return m.fields, m.err
}

func validFields() model.DeedFields {
	return model.DeedFields{
		DocID:         "DEED-TRUST-0042",
		County:        "S. Clara",
		State:         "CA",
		DateSigned:    "2024-01-10",
		DateRecorded:  "2024-01-15",
		Grantor:       "Evergreen Holdings LLC",
		Grantee:       "Maple Street Partners LP",
		AmountNumeric: "$1,200,000.00",
		AmountText:    "One Million Two Hundred Thousand Dollars",
		APN:           "123-45-678",
		Status:        "pending",
	}
}

func TestPipelineRun_Success(t *testing.T) {
	st := &mockStore{}
	p := New(st, &mockExtractor{fields: validFields()}, testRegistry(t))

	result, err := p.Run(context.Background(), "raw deed text")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "Santa Clara", result.NormalizedCounty)
	assert.True(t, result.TaxRate.Equal(decimal.RequireFromString("0.011")))
	assert.True(t, result.Amount.Equal(decimal.NewFromInt(1_200_000)))
	assert.True(t, result.TaxDue.Equal(decimal.NewFromInt(13_200)))

	assert.Equal(t, []model.RunStatus{
		model.RunStatusExtracting,
		model.RunStatusResolving,
		model.RunStatusValidating,
		model.RunStatusComputingTax,
	}, st.statuses)
	require.NotNil(t, st.fields)
	assert.Equal(t, "DEED-TRUST-0042", st.fields.DocID)
	require.NotNil(t, st.result, "successful run is persisted")
	assert.Empty(t, st.failureMsg)
}

func TestPipelineRun_ExtractionFailure(t *testing.T) {
	st := &mockStore{}
	extractErr := &ExtractionFormatError{Raw: "not json", Err: errors.New("invalid character")}
	p := New(st, &mockExtractor{err: extractErr}, testRegistry(t))

	_, err := p.Run(context.Background(), "raw deed text")
	require.Error(t, err)

	var formatErr *ExtractionFormatError
	assert.True(t, errors.As(err, &formatErr), "typed error survives wrapping")
	assert.NotEmpty(t, st.failureMsg, "failure is recorded on the run")
	assert.Nil(t, st.result)
}

func TestPipelineRun_FailFast(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.DeedFields)
		check  func(t *testing.T, err error)
	}{
		{
			name:   "unknown county stops before date checks",
			mutate: func(f *model.DeedFields) { f.County = "Atlantis"; f.DateSigned = "garbage" },
			check: func(t *testing.T, err error) {
				var noMatch *NoMatchError
				assert.True(t, errors.As(err, &noMatch))
			},
		},
		{
			name: "date order stops before amount checks",
			mutate: func(f *model.DeedFields) {
				f.DateSigned = "2024-01-15"
				f.DateRecorded = "2024-01-10"
				f.AmountNumeric = "N/A"
			},
			check: func(t *testing.T, err error) {
				var order *DateOrderError
				assert.True(t, errors.As(err, &order))
			},
		},
		{
			name:   "money mismatch",
			mutate: func(f *model.DeedFields) { f.AmountNumeric = "$1,250,000.00" },
			check: func(t *testing.T, err error) {
				var mismatch *MoneyMismatchError
				require.True(t, errors.As(err, &mismatch))
				assert.True(t, mismatch.Numeric.Equal(decimal.NewFromInt(1_250_000)))
				assert.True(t, mismatch.Text.Equal(decimal.NewFromInt(1_200_000)))
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := &mockStore{}
			fields := validFields()
			tc.mutate(&fields)
			p := New(st, &mockExtractor{fields: fields}, testRegistry(t))

			_, err := p.Run(context.Background(), "raw deed text")
			require.Error(t, err)
			tc.check(t, err)
			assert.NotEmpty(t, st.failureMsg)
			assert.Nil(t, st.result)
		})
	}
}

func TestPipelineRun_CreateRunFailure(t *testing.T) {
	st := &mockStore{createErr: eris.New("db down")}
	p := New(st, &mockExtractor{fields: validFields()}, testRegistry(t))

	_, err := p.Run(context.Background(), "raw deed text")
	require.Error(t, err)
	assert.Empty(t, st.statuses, "no processing happens without a run row")
}

func TestPipelineValidate_Idempotent(t *testing.T) {
	p := New(&mockStore{}, &mockExtractor{}, testRegistry(t))
	fields := validFields()

	first, err := p.Validate(fields)
	require.NoError(t, err)
	second, err := p.Validate(fields)
	require.NoError(t, err)

	assert.Equal(t, first.NormalizedCounty, second.NormalizedCounty)
	assert.True(t, first.TaxRate.Equal(second.TaxRate))
	assert.True(t, first.Amount.Equal(second.Amount))
	assert.True(t, first.TaxDue.Equal(second.TaxDue))
}

func TestPipelineValidate_IdempotentFailure(t *testing.T) {
	p := New(&mockStore{}, &mockExtractor{}, testRegistry(t))
	fields := validFields()
	fields.DateSigned = "2024-01-15"
	fields.DateRecorded = "2024-01-10"

	_, firstErr := p.Validate(fields)
	_, secondErr := p.Validate(fields)
	require.Error(t, firstErr)
	require.Error(t, secondErr)
	assert.Equal(t, firstErr.Error(), secondErr.Error())
}
