package backend

import (
	"encoding/json"
	"fmt"
	"strings"

	"scholar-lens/internal/domain"
)

// PayloadError reports a backend response that does not match the expected
// shape. Fields are never defaulted silently.
type PayloadError struct {
	Endpoint string
	Field    string
	Reason   string
}

func (e *PayloadError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed payload from %s: %s", e.Endpoint, e.Reason)
	}
	return fmt.Sprintf("malformed payload from %s: %s %s", e.Endpoint, e.Field, e.Reason)
}

type profilePayload struct {
	ID             *string  `json:"id"`
	Name           *string  `json:"name"`
	Affiliation    *string  `json:"affiliation"`
	ResearchAreas  []string `json:"researchAreas"`
	ResearchTopics []string `json:"researchTopics"`
	Summary        *string  `json:"summary"`
	URL            *string  `json:"url"`
}

type paperPayload struct {
	ID              *string  `json:"id"`
	Title           *string  `json:"title"`
	Authors         []string `json:"authors"`
	Venue           *string  `json:"venue"`
	Year            *int     `json:"year"`
	Keywords        []string `json:"keywords"`
	Abstract        *string  `json:"abstract"`
	RelevanceScore  *float64 `json:"relevanceScore"`
	RelevanceReason *string  `json:"relevanceReason"`
	Link            *string  `json:"link"`
}

type analyzeResponse struct {
	Profile   *profilePayload `json:"profile"`
	ProfileID *string         `json:"profile_id"`
}

type profileResponse struct {
	Profile *profilePayload `json:"profile"`
}

type recommendationsResponse struct {
	Recommendations *[]paperPayload `json:"recommendations"`
}

func decodeAnalyze(endpoint string, body []byte) (*domain.ResearchProfile, error) {
	var resp analyzeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &PayloadError{Endpoint: endpoint, Reason: err.Error()}
	}
	if resp.Profile == nil {
		return nil, &PayloadError{Endpoint: endpoint, Field: "profile", Reason: "is missing"}
	}
	if resp.ProfileID != nil && resp.Profile.ID == nil {
		resp.Profile.ID = resp.ProfileID
	}
	return resp.Profile.toDomain(endpoint)
}

func decodeProfile(endpoint string, body []byte) (*domain.ResearchProfile, error) {
	var resp profileResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &PayloadError{Endpoint: endpoint, Reason: err.Error()}
	}
	if resp.Profile == nil {
		return nil, &PayloadError{Endpoint: endpoint, Field: "profile", Reason: "is missing"}
	}
	return resp.Profile.toDomain(endpoint)
}

func decodeRecommendations(endpoint string, body []byte) ([]domain.Paper, error) {
	var resp recommendationsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &PayloadError{Endpoint: endpoint, Reason: err.Error()}
	}
	if resp.Recommendations == nil {
		return nil, &PayloadError{Endpoint: endpoint, Field: "recommendations", Reason: "is missing"}
	}

	papers := make([]domain.Paper, 0, len(*resp.Recommendations))
	for i, p := range *resp.Recommendations {
		paper, err := p.toDomain(endpoint, i)
		if err != nil {
			return nil, err
		}
		papers = append(papers, paper)
	}
	return papers, nil
}

func (p *profilePayload) toDomain(endpoint string) (*domain.ResearchProfile, error) {
	if p.ID == nil || strings.TrimSpace(*p.ID) == "" {
		return nil, &PayloadError{Endpoint: endpoint, Field: "profile.id", Reason: "is missing"}
	}
	if p.Name == nil || strings.TrimSpace(*p.Name) == "" {
		return nil, &PayloadError{Endpoint: endpoint, Field: "profile.name", Reason: "is missing"}
	}

	return &domain.ResearchProfile{
		ID:             *p.ID,
		Name:           strings.TrimSpace(*p.Name),
		Affiliation:    deref(p.Affiliation),
		ResearchAreas:  nonNil(p.ResearchAreas),
		ResearchTopics: nonNil(p.ResearchTopics),
		Summary:        deref(p.Summary),
		SourceURL:      deref(p.URL),
	}, nil
}

func (p paperPayload) toDomain(endpoint string, i int) (domain.Paper, error) {
	field := func(name string) string { return fmt.Sprintf("recommendations[%d].%s", i, name) }

	if p.ID == nil || *p.ID == "" {
		return domain.Paper{}, &PayloadError{Endpoint: endpoint, Field: field("id"), Reason: "is missing"}
	}
	if p.Title == nil || strings.TrimSpace(*p.Title) == "" {
		return domain.Paper{}, &PayloadError{Endpoint: endpoint, Field: field("title"), Reason: "is missing"}
	}
	if p.RelevanceScore == nil {
		return domain.Paper{}, &PayloadError{Endpoint: endpoint, Field: field("relevanceScore"), Reason: "is missing"}
	}
	if *p.RelevanceScore < 0 || *p.RelevanceScore > 1 {
		return domain.Paper{}, &PayloadError{
			Endpoint: endpoint,
			Field:    field("relevanceScore"),
			Reason:   fmt.Sprintf("%v is outside [0, 1]", *p.RelevanceScore),
		}
	}

	paper := domain.Paper{
		ID:              *p.ID,
		Title:           strings.TrimSpace(*p.Title),
		Authors:         nonNil(p.Authors),
		Venue:           deref(p.Venue),
		Keywords:        nonNil(p.Keywords),
		Abstract:        deref(p.Abstract),
		RelevanceScore:  *p.RelevanceScore,
		RelevanceReason: deref(p.RelevanceReason),
		Link:            deref(p.Link),
	}
	if p.Year != nil {
		paper.Year = *p.Year
	}
	return paper, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
