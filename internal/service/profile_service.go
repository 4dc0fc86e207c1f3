package service

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/hay-kot/criterio"

	"scholar-lens/internal/domain"
	apperrors "scholar-lens/pkg/errors"
)

const (
	defaultTopK = 10
	maxTopK     = 50

	maxSavedPapers   = 200
	maxTitleLength   = 500
	maxAbstractChars = 20_000
	maxListEntries   = 100
	maxEntryLength   = 200

	// userPaperRelevance is the score given to papers the user adds by hand.
	userPaperRelevance = 0.8
)

type profileService struct {
	backend domain.ResearchBackend
	repo    domain.SavedProfileRepository
	logger  domain.Logger
	now     func() time.Time
	newID   func() string
}

// NewProfileService wires the research backend and the dashboard repository.
// repo may be nil when neither Supabase nor SQLITE_PATH is configured; saving
// is then unavailable.
func NewProfileService(backend domain.ResearchBackend, repo domain.SavedProfileRepository, logger domain.Logger) domain.ProfileService {
	return &profileService{
		backend: backend,
		repo:    repo,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func (s *profileService) Analyze(ctx context.Context, url string, profileType domain.ProfileType, token string) (*domain.ResearchProfile, error) {
	if strings.TrimSpace(url) == "" {
		return nil, apperrors.NewValidationError("url is required")
	}
	profile, err := s.backend.AnalyzeProfile(ctx, url, profileType, token)
	if err != nil {
		return nil, fmt.Errorf("analyze profile: %w", err)
	}
	s.logger.Info("Profile analyzed", "profile_id", profile.ID, "profile_type", string(profileType))
	return profile, nil
}

func (s *profileService) GetProfile(ctx context.Context, profileID string, token string) (*domain.ResearchProfile, error) {
	if profileID == "" {
		return nil, apperrors.NewValidationError("profile id is required")
	}
	profile, err := s.backend.GetProfile(ctx, profileID, token)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// Recommendations returns the backend's papers for q, filtered by minimum
// relevance and keyword, most relevant first.
func (s *profileService) Recommendations(ctx context.Context, q domain.RecommendationQuery, token string) ([]domain.Paper, error) {
	if strings.TrimSpace(q.Query) == "" {
		return nil, apperrors.NewValidationError("query is required")
	}
	if q.MinRelevance < 0 || q.MinRelevance > 1 {
		return nil, apperrors.NewValidationError("min_relevance must be between 0 and 1")
	}
	topK := q.TopK
	if topK <= 0 {
		topK = defaultTopK
	}
	topK = min(topK, maxTopK)

	papers, err := s.backend.SearchRecommendations(ctx, q.Query, topK, token)
	if err != nil {
		return nil, fmt.Errorf("search recommendations: %w", err)
	}

	keyword := strings.ToLower(strings.TrimSpace(q.Keyword))
	out := make([]domain.Paper, 0, len(papers))
	for _, p := range papers {
		if p.RelevanceScore < q.MinRelevance {
			continue
		}
		if keyword != "" && !hasKeyword(p, keyword) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RelevanceScore > out[j].RelevanceScore
	})
	if len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}

func (s *profileService) SaveProfile(userID string, profile *domain.ResearchProfile, token string) (*domain.SavedProfile, error) {
	if s.repo == nil {
		return nil, apperrors.NewUnavailableError("saved profiles are not available")
	}
	if profile == nil || profile.ID == "" {
		return nil, apperrors.NewValidationError("profile id is required")
	}
	if strings.TrimSpace(profile.Name) == "" {
		return nil, apperrors.NewValidationError("profile name is required")
	}

	saved, err := s.repo.Create(&domain.SavedProfile{
		UserID:         userID,
		ProfileID:      profile.ID,
		Name:           profile.Name,
		Affiliation:    profile.Affiliation,
		ResearchAreas:  cleanList(profile.ResearchAreas),
		ResearchTopics: cleanList(profile.ResearchTopics),
		Papers:         []domain.Paper{},
		SourceURL:      profile.SourceURL,
	}, token)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Profile saved", "user_id", userID, "profile_id", profile.ID, "saved_id", saved.ID)
	return saved, nil
}

func (s *profileService) ListSaved(userID string, token string) ([]*domain.SavedProfile, error) {
	if s.repo == nil {
		return []*domain.SavedProfile{}, nil
	}
	return s.repo.ListByUser(userID, token)
}

func (s *profileService) DeleteSaved(userID string, savedID string, token string) error {
	if s.repo == nil {
		return apperrors.NewUnavailableError("saved profiles are not available")
	}
	if savedID == "" {
		return apperrors.NewValidationError("saved profile id is required")
	}
	return s.repo.Delete(userID, savedID, token)
}

// UpdateSaved applies the non-nil fields of update to a saved profile.
func (s *profileService) UpdateSaved(userID string, savedID string, update domain.SavedProfileUpdate, token string) (*domain.SavedProfile, error) {
	if s.repo == nil {
		return nil, apperrors.NewUnavailableError("saved profiles are not available")
	}
	if savedID == "" {
		return nil, apperrors.NewValidationError("saved profile id is required")
	}
	if err := validateProfileUpdate(update); err != nil {
		return nil, err
	}

	saved, err := s.repo.Get(userID, savedID, token)
	if err != nil {
		return nil, err
	}
	if update.Name != nil {
		saved.Name = strings.TrimSpace(*update.Name)
	}
	if update.Affiliation != nil {
		saved.Affiliation = strings.TrimSpace(*update.Affiliation)
	}
	if update.ResearchAreas != nil {
		saved.ResearchAreas = cleanList(*update.ResearchAreas)
	}
	if update.ResearchTopics != nil {
		saved.ResearchTopics = cleanList(*update.ResearchTopics)
	}

	updated, err := s.repo.Update(saved, token)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Saved profile updated", "user_id", userID, "saved_id", savedID)
	return updated, nil
}

// AddPaper appends a hand-entered paper to a saved profile's list.
func (s *profileService) AddPaper(userID string, savedID string, paper domain.NewPaper, token string) (*domain.SavedProfile, error) {
	if s.repo == nil {
		return nil, apperrors.NewUnavailableError("saved profiles are not available")
	}
	if savedID == "" {
		return nil, apperrors.NewValidationError("saved profile id is required")
	}
	if err := s.validateNewPaper(paper); err != nil {
		return nil, err
	}

	saved, err := s.repo.Get(userID, savedID, token)
	if err != nil {
		return nil, err
	}
	if len(saved.Papers) >= maxSavedPapers {
		return nil, apperrors.NewValidationError(fmt.Sprintf("a saved profile holds at most %d papers", maxSavedPapers))
	}

	added := s.userPaper(paper)
	saved.Papers = append(saved.Papers, added)
	updated, err := s.repo.Update(saved, token)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Paper added to saved profile", "user_id", userID, "saved_id", savedID, "paper_id", added.ID)
	return updated, nil
}

// RemovePaper drops one paper from a saved profile's list.
func (s *profileService) RemovePaper(userID string, savedID string, paperID string, token string) (*domain.SavedProfile, error) {
	if s.repo == nil {
		return nil, apperrors.NewUnavailableError("saved profiles are not available")
	}
	if savedID == "" || paperID == "" {
		return nil, apperrors.NewValidationError("saved profile id and paper id are required")
	}

	saved, err := s.repo.Get(userID, savedID, token)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(saved.Papers, func(p domain.Paper) bool { return p.ID == paperID })
	if i < 0 {
		return nil, apperrors.NewNotFoundError("Paper not found")
	}
	saved.Papers = slices.Delete(saved.Papers, i, i+1)

	updated, err := s.repo.Update(saved, token)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Paper removed from saved profile", "user_id", userID, "saved_id", savedID, "paper_id", paperID)
	return updated, nil
}

// userPaper fills the blanks of a hand-entered paper with placeholders.
func (s *profileService) userPaper(in domain.NewPaper) domain.Paper {
	p := domain.Paper{
		ID:              s.newID(),
		Title:           strings.TrimSpace(in.Title),
		Authors:         cleanList(in.Authors),
		Venue:           strings.TrimSpace(in.Venue),
		Year:            in.Year,
		Keywords:        cleanList(in.Keywords),
		Abstract:        strings.TrimSpace(in.Abstract),
		RelevanceScore:  userPaperRelevance,
		RelevanceReason: "User-added paper",
		Link:            strings.TrimSpace(in.Link),
	}
	if p.Title == "" {
		p.Title = "Untitled Paper"
	}
	if len(p.Authors) == 0 {
		p.Authors = []string{"Unknown Author"}
	}
	if p.Venue == "" {
		p.Venue = "Unknown Venue"
	}
	if p.Year == 0 {
		p.Year = s.now().Year()
	}
	if p.Abstract == "" {
		p.Abstract = "No abstract provided."
	}
	return p
}

func (s *profileService) validateNewPaper(p domain.NewPaper) error {
	var errs criterio.FieldErrorsBuilder
	if utf8.RuneCountInString(p.Title) > maxTitleLength {
		errs = errs.Append("title", fmt.Errorf("must be at most %d characters", maxTitleLength))
	}
	if err := validateList(p.Authors); err != nil {
		errs = errs.Append("authors", err)
	}
	if err := validateList(p.Keywords); err != nil {
		errs = errs.Append("keywords", err)
	}
	if utf8.RuneCountInString(p.Venue) > maxTitleLength {
		errs = errs.Append("venue", fmt.Errorf("must be at most %d characters", maxTitleLength))
	}
	if p.Year != 0 && (p.Year < 1000 || p.Year > s.now().Year()+1) {
		errs = errs.Append("year", fmt.Errorf("must be between 1000 and %d", s.now().Year()+1))
	}
	if utf8.RuneCountInString(p.Abstract) > maxAbstractChars {
		errs = errs.Append("abstract", fmt.Errorf("must be at most %d characters", maxAbstractChars))
	}
	if link := strings.TrimSpace(p.Link); link != "" {
		if u, err := url.Parse(link); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = errs.Append("link", fmt.Errorf("must be an absolute http(s) URL"))
		}
	}
	return errs.ToError()
}

func validateProfileUpdate(u domain.SavedProfileUpdate) error {
	var errs criterio.FieldErrorsBuilder
	if u.Name == nil && u.Affiliation == nil && u.ResearchAreas == nil && u.ResearchTopics == nil {
		errs = errs.Append("update", fmt.Errorf("has no fields"))
	}
	if u.Name != nil {
		switch name := strings.TrimSpace(*u.Name); {
		case name == "":
			errs = errs.Append("name", fmt.Errorf("must not be blank"))
		case utf8.RuneCountInString(name) > maxEntryLength:
			errs = errs.Append("name", fmt.Errorf("must be at most %d characters", maxEntryLength))
		}
	}
	if u.Affiliation != nil && utf8.RuneCountInString(*u.Affiliation) > maxTitleLength {
		errs = errs.Append("affiliation", fmt.Errorf("must be at most %d characters", maxTitleLength))
	}
	if u.ResearchAreas != nil {
		if err := validateList(*u.ResearchAreas); err != nil {
			errs = errs.Append("research_areas", err)
		}
	}
	if u.ResearchTopics != nil {
		if err := validateList(*u.ResearchTopics); err != nil {
			errs = errs.Append("research_topics", err)
		}
	}
	return errs.ToError()
}

func validateList(items []string) error {
	if len(items) > maxListEntries {
		return fmt.Errorf("must have at most %d entries", maxListEntries)
	}
	for _, item := range items {
		if utf8.RuneCountInString(item) > maxEntryLength {
			return fmt.Errorf("entries must be at most %d characters", maxEntryLength)
		}
	}
	return nil
}

// cleanList trims entries and drops blank ones. The result is never nil.
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func hasKeyword(p domain.Paper, keyword string) bool {
	for _, k := range p.Keywords {
		if strings.Contains(strings.ToLower(k), keyword) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(p.Title), keyword)
}
