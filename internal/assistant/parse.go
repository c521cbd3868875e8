package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/dochazka/internal/entry"
)

// Candidate is an entry as the model proposed it. Every field may be
// missing or malformed and must be normalized before use.
type Candidate struct {
	Date        *string  `json:"date,omitempty"`
	Project     *string  `json:"project,omitempty"`
	Description *string  `json:"description,omitempty"`
	Hours       *float64 `json:"hours,omitempty"`
	Type        *string  `json:"type,omitempty"`
}

type JobRef struct {
	Code string
	Name string
}

func typeLabels() []string {
	types := entry.Types()

	labels := make([]string, len(types))
	for i, t := range types {
		labels[i] = t.Label()
	}

	return labels
}

func candidateSchema() map[string]any {
	return map[string]any{
		"type": "ARRAY",
		"items": map[string]any{
			"type": "OBJECT",
			"properties": map[string]any{
				"date": map[string]any{
					"type":        "STRING",
					"description": "Date as YYYY-MM-DD. Resolve relative dates against the reference date.",
				},
				"project": map[string]any{
					"type":        "STRING",
					"description": "Project name from the job list. Empty unless the type is regular work or overtime.",
				},
				"description": map[string]any{"type": "STRING", "description": "Short task description."},
				"hours":       map[string]any{"type": "NUMBER", "description": "Hours worked."},
				"type": map[string]any{
					"type":        "STRING",
					"enum":        typeLabels(),
					"description": "Work type.",
				},
			},
			"required": []string{"date", "hours", "type"},
		},
	}
}

// ParseEntries turns a free text work report into candidate entries.
func (c *Client) ParseEntries(ctx context.Context, text string, referenceDate time.Time, jobs []JobRef) ([]Candidate, error) {
	refs := make([]string, len(jobs))
	for i, j := range jobs {
		refs[i] = fmt.Sprintf("%s (%s)", j.Name, j.Code)
	}

	prompt := fmt.Sprintf(parsePrompt,
		referenceDate.Format(time.DateOnly),
		strings.Join(refs, ", "),
		entry.TypeRegular.Label(),
		entry.TypeRegular.Label(), entry.TypeOvertime.Label(),
		text,
	)

	req := generateRequest{
		Contents:          userText(prompt),
		SystemInstruction: &content{Parts: []part{{Text: "Odpovídej výhradně platným JSON polem."}}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   candidateSchema(),
		},
	}

	raw, err := c.generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("parsing entries: %w", err)
	}

	if raw == "" {
		return nil, nil
	}

	var out []Candidate
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decoding parsed entries: %w", err)
	}

	return out, nil
}

type analyzedEntry struct {
	Date    string  `json:"date"`
	Project string  `json:"project,omitempty"`
	Hours   float64 `json:"hours"`
	Type    string  `json:"type"`
}

// Analyze writes a short manager-facing summary of the entries.
func (c *Client) Analyze(ctx context.Context, entries []*entry.Entry) (string, error) {
	slim := make([]analyzedEntry, len(entries))
	for i, e := range entries {
		slim[i] = analyzedEntry{
			Date:    e.Date.Format(time.DateOnly),
			Project: e.Project,
			Hours:   e.Hours,
			Type:    e.Type.Label(),
		}
	}

	data, err := json.Marshal(slim)
	if err != nil {
		return "", fmt.Errorf("encoding entries: %w", err)
	}

	text, err := c.generate(ctx, generateRequest{Contents: userText(fmt.Sprintf(analyzePrompt, data))})
	if err != nil {
		return "", fmt.Errorf("analyzing entries: %w", err)
	}

	return text, nil
}
