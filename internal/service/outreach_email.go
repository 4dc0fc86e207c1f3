package service

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"scholar-lens/internal/domain"
	apperrors "scholar-lens/pkg/errors"
)

const (
	defaultSenderName        = "[Your Name]"
	defaultSenderAffiliation = "[Your Institution]"
)

var outreachSubjectTmpl = template.Must(template.New("subject").Parse(
	`Research Collaboration Inquiry - {{.Title}}`))

var outreachBodyTmpl = template.Must(template.New("body").Parse(`Dear {{with .FirstName}}{{.}} and colleagues{{else}}colleagues{{end}},

I hope this email finds you well. My name is {{.Name}}, and I am a researcher at {{.Affiliation}}. I recently came across your paper "{{.Title}}"{{with .Published}} published in {{.}}{{end}}, and I found it highly relevant to my current research interests.

Your work on this topic has provided valuable insights that align closely with my research direction. I am particularly interested in exploring potential collaboration opportunities or discussing your findings in more detail.

Would you be available for a brief conversation to discuss your research and explore potential synergies? I would be happy to share more about my work and how it might complement your research.

Thank you for your time and consideration. I look forward to hearing from you.

Best regards,
{{.Name}}
{{.Affiliation}}
`))

type outreachData struct {
	Title       string
	FirstName   string
	Published   string
	Name        string
	Affiliation string
}

// DraftOutreachEmail writes a collaboration email to the authors of paper.
// The greeting uses the first word of the first author's name and falls back
// to "colleagues" when the paper lists no authors.
func (s *profileService) DraftOutreachEmail(paper domain.Paper, sender domain.EmailSender) (*domain.EmailDraft, error) {
	title := strings.TrimSpace(paper.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("paper title is required")
	}

	data := outreachData{
		Title:       title,
		Name:        orDefault(sender.Name, defaultSenderName),
		Affiliation: orDefault(sender.Affiliation, defaultSenderAffiliation),
	}
	if len(paper.Authors) > 0 {
		if fields := strings.Fields(paper.Authors[0]); len(fields) > 0 {
			data.FirstName = fields[0]
		}
	}
	var published []string
	if venue := strings.TrimSpace(paper.Venue); venue != "" {
		published = append(published, venue)
	}
	if paper.Year > 0 {
		published = append(published, strconv.Itoa(paper.Year))
	}
	data.Published = strings.Join(published, " ")

	var subject, body bytes.Buffer
	if err := outreachSubjectTmpl.Execute(&subject, data); err != nil {
		return nil, fmt.Errorf("render email subject: %w", err)
	}
	if err := outreachBodyTmpl.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("render email body: %w", err)
	}
	return &domain.EmailDraft{Subject: subject.String(), Body: body.String()}, nil
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}
