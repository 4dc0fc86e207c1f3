package service

import (
	"strings"
	"testing"

	"scholar-lens/internal/domain"
	apperrors "scholar-lens/pkg/errors"
)

func TestProfileService_DraftOutreachEmail(t *testing.T) {
	svc := NewProfileService(NewMockResearchBackend(), nil, NewMockLogger())

	draft, err := svc.DraftOutreachEmail(domain.Paper{
		Title:   "Graph Attention Networks",
		Authors: []string{"Petar Veličković", "Guillem Cucurull"},
		Venue:   "ICLR",
		Year:    2018,
	}, domain.EmailSender{Name: "Ada Lovelace", Affiliation: "Analytical Society"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if draft.Subject != "Research Collaboration Inquiry - Graph Attention Networks" {
		t.Fatalf("unexpected subject %q", draft.Subject)
	}
	for _, want := range []string{
		"Dear Petar and colleagues,\n",
		"My name is Ada Lovelace, and I am a researcher at Analytical Society.",
		`your paper "Graph Attention Networks" published in ICLR 2018, and`,
		"Best regards,\nAda Lovelace\nAnalytical Society\n",
	} {
		if !strings.Contains(draft.Body, want) {
			t.Fatalf("expected body to contain %q, got:\n%s", want, draft.Body)
		}
	}
}

func TestProfileService_DraftOutreachEmailDefaults(t *testing.T) {
	svc := NewProfileService(NewMockResearchBackend(), nil, NewMockLogger())

	draft, err := svc.DraftOutreachEmail(domain.Paper{Title: "Untitled Work"}, domain.EmailSender{Name: "  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"Dear colleagues,\n",
		"My name is [Your Name], and I am a researcher at [Your Institution].",
		`your paper "Untitled Work", and`,
		"Best regards,\n[Your Name]\n[Your Institution]\n",
	} {
		if !strings.Contains(draft.Body, want) {
			t.Fatalf("expected body to contain %q, got:\n%s", want, draft.Body)
		}
	}

	draft, err = svc.DraftOutreachEmail(domain.Paper{Title: "T", Authors: []string{"   "}, Year: 2020}, domain.EmailSender{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(draft.Body, "Dear colleagues,") || !strings.Contains(draft.Body, `"T" published in 2020,`) {
		t.Fatalf("unexpected body:\n%s", draft.Body)
	}
}

func TestProfileService_DraftOutreachEmailRequiresTitle(t *testing.T) {
	svc := NewProfileService(NewMockResearchBackend(), nil, NewMockLogger())

	if _, err := svc.DraftOutreachEmail(domain.Paper{Authors: []string{"Ada"}}, domain.EmailSender{}); !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
