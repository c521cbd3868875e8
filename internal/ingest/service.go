// Package ingest turns weakly typed input (AI output, calendar events) into
// entry parameters and persists them after the user accepts the preview.
package ingest

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dochazka/internal/assistant"
	"github.com/MrJamesThe3rd/dochazka/internal/calendar"
	"github.com/MrJamesThe3rd/dochazka/internal/entry"
	"github.com/MrJamesThe3rd/dochazka/internal/job"
)

const (
	DefaultDescription = "Work"
	DefaultProject     = "General"
)

type Parser interface {
	ParseEntries(ctx context.Context, text string, referenceDate time.Time, jobs []assistant.JobRef) ([]assistant.Candidate, error)
}

type Catalog interface {
	List(ctx context.Context, activeOnly bool) ([]*job.Job, error)
	ProjectName(ctx context.Context, raw, fallback string) (string, error)
}

type Creator interface {
	CreateBatch(ctx context.Context, params []entry.CreateParams) ([]*entry.Entry, error)
}

// Reject is a candidate that could not be turned into an entry.
type Reject struct {
	Index  int                 `json:"index"`
	Reason string              `json:"reason"`
	Input  assistant.Candidate `json:"input"`
}

type Preview struct {
	Entries []entry.CreateParams
	Rejects []Reject
}

type Service struct {
	parser  Parser
	catalog Catalog
	creator Creator
}

func NewService(parser Parser, catalog Catalog, creator Creator) *Service {
	return &Service{parser: parser, catalog: catalog, creator: creator}
}

// Parse asks the assistant for candidates and normalizes them.
func (s *Service) Parse(ctx context.Context, employeeID uuid.UUID, text string, ref time.Time) (*Preview, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return &Preview{}, nil
	}

	jobs, err := s.catalog.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}

	refs := make([]assistant.JobRef, len(jobs))
	for i, j := range jobs {
		refs[i] = assistant.JobRef{Code: j.Code, Name: j.Name}
	}

	candidates, err := s.parser.ParseEntries(ctx, text, ref, refs)
	if err != nil {
		return nil, err
	}

	return s.Normalize(ctx, employeeID, candidates, ref)
}

// Normalize applies defaults to each candidate and validates the result.
// Invalid candidates end up in Rejects and never fail the whole batch.
func (s *Service) Normalize(ctx context.Context, employeeID uuid.UUID, candidates []assistant.Candidate, ref time.Time) (*Preview, error) {
	out := &Preview{}

	for i, c := range candidates {
		p, reason, err := s.normalize(ctx, employeeID, c, ref)
		if err != nil {
			return nil, err
		}

		if reason != "" {
			out.Rejects = append(out.Rejects, Reject{Index: i, Reason: reason, Input: c})
			continue
		}

		out.Entries = append(out.Entries, p)
	}

	return out, nil
}

func (s *Service) normalize(ctx context.Context, employeeID uuid.UUID, c assistant.Candidate, ref time.Time) (entry.CreateParams, string, error) {
	p := entry.CreateParams{
		EmployeeID:  employeeID,
		Date:        calendar.Truncate(ref),
		Type:        entry.TypeRegular,
		Description: DefaultDescription,
	}

	if c.Date != nil && strings.TrimSpace(*c.Date) != "" {
		d, err := calendar.ParseDate(strings.TrimSpace(*c.Date))
		if err != nil {
			return p, fmt.Sprintf("unparseable date %q", *c.Date), nil
		}

		p.Date = d
	}

	if c.Type != nil && strings.TrimSpace(*c.Type) != "" {
		t, err := entry.ParseWorkType(*c.Type)
		if err != nil {
			return p, err.Error(), nil
		}

		p.Type = t
	}

	if c.Hours == nil {
		return p, "hours are missing", nil
	}

	if math.IsNaN(*c.Hours) {
		return p, "hours are not a number", nil
	}

	p.Hours = *c.Hours

	if c.Description != nil && strings.TrimSpace(*c.Description) != "" {
		p.Description = *c.Description
	}

	if p.Type.RequiresProject() {
		raw := ""
		if c.Project != nil {
			raw = *c.Project
		}

		name, err := s.catalog.ProjectName(ctx, raw, DefaultProject)
		if err != nil {
			return p, "", fmt.Errorf("resolving project: %w", err)
		}

		p.Project = name
	}

	p = p.Normalize()

	if err := p.Validate(); err != nil {
		return p, err.Error(), nil
	}

	return p, "", nil
}

// Accept persists a previously reviewed preview in one batch.
func (s *Service) Accept(ctx context.Context, params []entry.CreateParams) ([]*entry.Entry, error) {
	entries, err := s.creator.CreateBatch(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("accepting entries: %w", err)
	}

	return entries, nil
}
