package main

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/deed-cli/internal/config"
	"github.com/sells-group/deed-cli/internal/model"
	"github.com/sells-group/deed-cli/internal/pipeline"
	anthropicpkg "github.com/sells-group/deed-cli/pkg/anthropic"
)

type stubExtractor struct {
	fields model.DeedFields
	err    error
}

var _ pipeline.Extractor = (*stubExtractor)(nil)

func (s *stubExtractor) Extract(ctx context.Context, rawText string) (model.DeedFields, error) {
	return s.fields, s.err
}

func TestRecordingExtractor(t *testing.T) {
	fields := model.DeedFields{DocID: "DEED-1", County: "Alameda"}
	rec := &recordingExtractor{inner: &stubExtractor{fields: fields}}

	got, err := rec.Extract(context.Background(), "deed text")
	require.NoError(t, err)
	assert.Equal(t, fields, got)
	assert.Equal(t, fields, rec.LastFields())
}

func TestRecordingExtractor_FailureKeepsLastFields(t *testing.T) {
	rec := &recordingExtractor{inner: &stubExtractor{err: eris.New("api down")}}

	_, err := rec.Extract(context.Background(), "deed text")
	require.Error(t, err)
	assert.Equal(t, model.DeedFields{}, rec.LastFields())
}

// countingClient tallies CreateMessage calls so tests can verify that every
// extractor in a batch routes through the same client instance.
type countingClient struct {
	mu    sync.Mutex
	calls int
}

var _ anthropicpkg.Client = (*countingClient)(nil)

func (c *countingClient) CreateMessage(ctx context.Context, req anthropicpkg.MessageRequest) (*anthropicpkg.MessageResponse, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return &anthropicpkg.MessageResponse{
		Content: []anthropicpkg.ContentBlock{{Type: "text", Text: `{
			"doc_id": "DEED-1", "county": "Alameda", "state": "CA",
			"date_signed": "2024-01-10", "date_recorded": "2024-01-15",
			"grantor": "A", "grantee": "B", "amount_numeric": "$500,000.00",
			"amount_text": "Five Hundred Thousand Dollars", "apn": "", "status": ""
		}`}},
	}, nil
}

func TestNewExtractor_SharesClient(t *testing.T) {
	cfg = &config.Config{}
	cfg.Anthropic.Model = "claude-haiku-4-5-20251001"
	cfg.Anthropic.MaxTokens = 1024
	t.Cleanup(func() { cfg = nil })

	// The client owns the rate limiter, so concurrent extractors must all
	// wrap the same instance for the configured cap to apply.
	client := &countingClient{}
	first := newExtractor(client)
	second := newExtractor(client)

	_, err := first.Extract(context.Background(), "deed one")
	require.NoError(t, err)
	_, err = second.Extract(context.Background(), "deed two")
	require.NoError(t, err)

	assert.Equal(t, 2, client.calls, "both extractors issue requests through the shared client")
}

func TestReadDeedText_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deed.txt")
	require.NoError(t, os.WriteFile(path, []byte("THIS DEED OF TRUST"), 0o644))

	text, err := readDeedText(path)
	require.NoError(t, err)
	assert.Equal(t, "THIS DEED OF TRUST", text)
}

func TestReadDeedText_MissingFile(t *testing.T) {
	_, err := readDeedText(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}

func TestCollectDeedFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt", "notes.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))

	files, err := collectDeedFiles([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.txt"),
	}, files, "only .txt files are picked up; other entries and subdirectories are skipped")

	explicit := []string{"one.txt", "two.txt"}
	files, err = collectDeedFiles(explicit)
	require.NoError(t, err)
	assert.Equal(t, explicit, files, "explicit file lists pass through untouched")
}
