package tablesplit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrResponseInvalid is returned when a classifier response holds no usable region list
var ErrResponseInvalid = errors.New("classifier response invalid")

// Classifier turns a table prompt into region metadata text.
// Implementations return the raw response unmodified; ParseRegions decodes it.
type Classifier interface {
	Classify(ctx context.Context, prompt string) (string, error)
}

// ClassifierFunc adapts a function to the Classifier interface
type ClassifierFunc func(ctx context.Context, prompt string) (string, error)

// Classify calls f
func (f ClassifierFunc) Classify(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// StaticClassifier always answers with the same response
type StaticClassifier struct {
	Response string
}

// NewStaticClassifier creates a classifier answering with the JSON of metas
func NewStaticClassifier(metas []RegionMeta) (*StaticClassifier, error) {
	data, err := json.Marshal(metas)
	if err != nil {
		return nil, fmt.Errorf("failed to encode regions: %w", err)
	}
	return &StaticClassifier{Response: string(data)}, nil
}

// Classify returns the fixed response
func (c *StaticClassifier) Classify(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return c.Response, nil
}

// SequenceClassifier answers with its responses in order and repeats the last one
// once they run out. It records every prompt it receives.
type SequenceClassifier struct {
	Responses []string

	mu      sync.Mutex
	prompts []string
}

// Classify returns the next response
func (c *SequenceClassifier) Classify(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.Responses) == 0 {
		return "", &ClassifierError{Attempt: len(c.prompts) + 1, Cause: errors.New("no responses configured")}
	}
	idx := len(c.prompts)
	if idx >= len(c.Responses) {
		idx = len(c.Responses) - 1
	}
	c.prompts = append(c.prompts, prompt)
	return c.Responses[idx], nil
}

// Prompts returns the prompts received so far
func (c *SequenceClassifier) Prompts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.prompts...)
}

// ParseRegions decodes the region list from a classifier response.
// Markdown code fences and text around the JSON array are ignored.
func ParseRegions(text string) ([]RegionMeta, error) {
	body := stripCodeFence(strings.TrimSpace(text))

	start := strings.Index(body, "[")
	end := strings.LastIndex(body, "]")
	if start < 0 || end < start {
		return nil, fmt.Errorf("no JSON array found: %w", ErrResponseInvalid)
	}

	var metas []RegionMeta
	if err := json.Unmarshal([]byte(body[start:end+1]), &metas); err != nil {
		return nil, fmt.Errorf("decode regions: %v: %w", err, ErrResponseInvalid)
	}
	return metas, nil
}

// stripCodeFence returns the content of the first ``` fenced block, or s when there is none
func stripCodeFence(s string) string {
	open := strings.Index(s, "```")
	if open < 0 {
		return s
	}
	rest := s[open+3:]
	// Skip the language tag line
	if nl := strings.Index(rest, "\n"); nl >= 0 {
		rest = rest[nl+1:]
	}
	if end := strings.Index(rest, "```"); end >= 0 {
		return rest[:end]
	}
	return rest
}
