package domain

import (
	"context"
	"time"
)

// ProfileType identifies where a researcher profile URL points to.
type ProfileType string

const (
	ProfileTypeGoogleScholar   ProfileType = "google_scholar"
	ProfileTypeORCID           ProfileType = "orcid"
	ProfileTypeSemanticScholar ProfileType = "semantic_scholar"
	ProfileTypeOther           ProfileType = "other"
)

// ResearchProfile is the extracted profile returned by the research backend.
type ResearchProfile struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Affiliation    string   `json:"affiliation,omitempty"`
	ResearchAreas  []string `json:"research_areas"`
	ResearchTopics []string `json:"research_topics"`
	Summary        string   `json:"summary,omitempty"`
	SourceURL      string   `json:"source_url,omitempty"`
}

// Paper is a recommended paper with its relevance score in [0, 1].
type Paper struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Authors         []string `json:"authors"`
	Venue           string   `json:"venue,omitempty"`
	Year            int      `json:"year,omitempty"`
	Keywords        []string `json:"keywords"`
	Abstract        string   `json:"abstract,omitempty"`
	RelevanceScore  float64  `json:"relevance_score"`
	RelevanceReason string   `json:"relevance_reason,omitempty"`
	Link            string   `json:"link,omitempty"`
}

// SavedProfile is a profile the user pinned to their dashboard, together with
// the paper list they curate for it.
type SavedProfile struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	ProfileID      string    `json:"profile_id"`
	Name           string    `json:"name"`
	Affiliation    string    `json:"affiliation,omitempty"`
	ResearchAreas  []string  `json:"research_areas"`
	ResearchTopics []string  `json:"research_topics"`
	Papers         []Paper   `json:"papers"`
	SourceURL      string    `json:"source_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// SavedProfileUpdate carries the dashboard fields a user may edit. Nil fields
// are left unchanged.
type SavedProfileUpdate struct {
	Name           *string   `json:"name,omitempty"`
	Affiliation    *string   `json:"affiliation,omitempty"`
	ResearchAreas  *[]string `json:"research_areas,omitempty"`
	ResearchTopics *[]string `json:"research_topics,omitempty"`
}

// NewPaper is a paper the user adds to a saved profile by hand. Blank fields
// get placeholder values when the paper is stored.
type NewPaper struct {
	Title    string   `json:"title"`
	Authors  []string `json:"authors"`
	Venue    string   `json:"venue"`
	Year     int      `json:"year"`
	Keywords []string `json:"keywords"`
	Abstract string   `json:"abstract"`
	Link     string   `json:"link"`
}

// EmailSender identifies who an outreach email is from.
type EmailSender struct {
	Name        string `json:"name"`
	Affiliation string `json:"affiliation"`
}

// EmailDraft is a plain-text collaboration email about one paper.
type EmailDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// RecommendationQuery narrows a recommendation search.
type RecommendationQuery struct {
	Query        string
	TopK         int
	MinRelevance float64
	Keyword      string
}

// ResearchBackend is the external service that scrapes profiles and scores papers.
type ResearchBackend interface {
	AnalyzeProfile(ctx context.Context, url string, profileType ProfileType, token string) (*ResearchProfile, error)
	GetProfile(ctx context.Context, profileID string, token string) (*ResearchProfile, error)
	SearchRecommendations(ctx context.Context, query string, topK int, token string) ([]Paper, error)
}

// SavedProfileRepository defines persistence operations for dashboard profiles.
type SavedProfileRepository interface {
	Create(profile *SavedProfile, token string) (*SavedProfile, error)
	ListByUser(userID string, token string) ([]*SavedProfile, error)
	Get(userID string, savedID string, token string) (*SavedProfile, error)
	Update(profile *SavedProfile, token string) (*SavedProfile, error)
	Delete(userID string, savedID string, token string) error
}

// ProfileService defines the use-case operations for profiles and recommendations.
type ProfileService interface {
	Analyze(ctx context.Context, url string, profileType ProfileType, token string) (*ResearchProfile, error)
	GetProfile(ctx context.Context, profileID string, token string) (*ResearchProfile, error)
	Recommendations(ctx context.Context, q RecommendationQuery, token string) ([]Paper, error)
	SaveProfile(userID string, profile *ResearchProfile, token string) (*SavedProfile, error)
	ListSaved(userID string, token string) ([]*SavedProfile, error)
	UpdateSaved(userID string, savedID string, update SavedProfileUpdate, token string) (*SavedProfile, error)
	AddPaper(userID string, savedID string, paper NewPaper, token string) (*SavedProfile, error)
	RemovePaper(userID string, savedID string, paperID string, token string) (*SavedProfile, error)
	DeleteSaved(userID string, savedID string, token string) error
	DraftOutreachEmail(paper Paper, sender EmailSender) (*EmailDraft, error)
}
