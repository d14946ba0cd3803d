// Package extract turns raw deed text into structured fields using Claude.
// The model is used ONLY for extraction; nothing it returns is trusted until
// the validation pipeline has checked it.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/deed-cli/internal/model"
	"github.com/sells-group/deed-cli/internal/pipeline"
	"github.com/sells-group/deed-cli/pkg/anthropic"
)

const systemText = "You are a document-processing assistant that converts real-estate deed records into structured JSON. You extract text verbatim; you never validate, correct, or compute values."

const extractionPrompt = `Extract the following fields from the deed text.
Return a single JSON object only — no prose, no code fences.

Fields (every value must be a string; use "" for anything absent):
- doc_id
- county
- state
- date_signed
- date_recorded
- grantor
- grantee
- amount_numeric
- amount_text
- apn
- status

Text:
%s`

// deedFieldKeys is the exact shape the extractor must return. Missing keys
// or non-string values are rejected, never defaulted.
var deedFieldKeys = []string{
	"doc_id", "county", "state", "date_signed", "date_recorded",
	"grantor", "grantee", "amount_numeric", "amount_text", "apn", "status",
}

// ClaudeExtractor implements pipeline.Extractor over the Anthropic API.
type ClaudeExtractor struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

var _ pipeline.Extractor = (*ClaudeExtractor)(nil)

// NewClaudeExtractor creates an extractor using the given model.
func NewClaudeExtractor(client anthropic.Client, modelID string, maxTokens int64) *ClaudeExtractor {
	return &ClaudeExtractor{client: client, model: modelID, maxTokens: maxTokens}
}

// Extract sends the raw deed text to the model and decodes its output into
// DeedFields. Output that is not a JSON object of the expected shape fails
// with pipeline.ExtractionFormatError.
func (e *ClaudeExtractor) Extract(ctx context.Context, rawText string) (model.DeedFields, error) {
	temp := 0.0
	resp, err := e.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       e.model,
		MaxTokens:   e.maxTokens,
		System:      []anthropic.SystemBlock{{Text: systemText}},
		Messages:    []anthropic.Message{{Role: "user", Content: fmt.Sprintf(extractionPrompt, rawText)}},
		Temperature: &temp,
	})
	if err != nil {
		return model.DeedFields{}, eris.Wrap(err, "extract: create message")
	}
	resp.Usage.LogCost(e.model, "extract")

	fields, err := Decode(resp.Text())
	if err != nil {
		return model.DeedFields{}, err
	}

	zap.L().Info("extract: fields extracted",
		zap.String("doc_id", fields.DocID),
		zap.String("county", fields.County),
	)
	return fields, nil
}

// Decode parses raw extractor output into DeedFields. The payload is treated
// as untyped JSON and converted explicitly: it must be a JSON object carrying
// every expected key with a string value. Anything else fails with
// ExtractionFormatError rather than being accessed optimistically.
func Decode(raw string) (model.DeedFields, error) {
	cleaned := cleanJSON(raw)

	var rawMap map[string]any
	if err := json.Unmarshal([]byte(cleaned), &rawMap); err != nil {
		return model.DeedFields{}, &pipeline.ExtractionFormatError{Raw: raw, Err: err}
	}

	values := make(map[string]string, len(deedFieldKeys))
	for _, key := range deedFieldKeys {
		v, ok := rawMap[key]
		if !ok {
			return model.DeedFields{}, &pipeline.ExtractionFormatError{
				Raw: raw,
				Err: eris.Errorf("missing field %q", key),
			}
		}
		s, ok := v.(string)
		if !ok {
			return model.DeedFields{}, &pipeline.ExtractionFormatError{
				Raw: raw,
				Err: eris.Errorf("field %q is %T, want string", key, v),
			}
		}
		values[key] = strings.TrimSpace(s)
	}

	return model.DeedFields{
		DocID:         values["doc_id"],
		County:        values["county"],
		State:         values["state"],
		DateSigned:    values["date_signed"],
		DateRecorded:  values["date_recorded"],
		Grantor:       values["grantor"],
		Grantee:       values["grantee"],
		AmountNumeric: values["amount_numeric"],
		AmountText:    values["amount_text"],
		APN:           values["apn"],
		Status:        values["status"],
	}, nil
}

// cleanJSON strips markdown code fences and any prose around the first
// top-level JSON object.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
