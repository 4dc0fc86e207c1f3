package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/supabase-community/supabase-go"

	"scholar-lens/internal/domain"
)

type MockLogger struct {
	messages []string
}

func NewMockLogger() *MockLogger {
	return &MockLogger{
		messages: []string{},
	}
}

func (m *MockLogger) Info(msg string, args ...interface{}) {
	m.messages = append(m.messages, "INFO: "+msg)
}

func (m *MockLogger) Error(msg string, err error, args ...interface{}) {
	m.messages = append(m.messages, "ERROR: "+msg+" - "+err.Error())
}

func (m *MockLogger) Debug(msg string, args ...interface{}) {
	m.messages = append(m.messages, "DEBUG: "+msg)
}

func (m *MockLogger) Warn(msg string, args ...interface{}) {
	m.messages = append(m.messages, "WARN: "+msg)
}

// MockSupabaseClient for testing
type MockSupabaseClient struct {
	users map[string]*domain.SupabaseUser
	calls int
}

func NewMockSupabaseClient() *MockSupabaseClient {
	return &MockSupabaseClient{
		users: map[string]*domain.SupabaseUser{
			"valid-token": {ID: "user-123", Email: "test@example.com"},
		},
	}
}

func (m *MockSupabaseClient) Initialize() error {
	return nil
}

func (m *MockSupabaseClient) ValidateToken(token string) (*domain.SupabaseUser, error) {
	m.calls++
	if user, ok := m.users[token]; ok {
		return user, nil
	}
	if token == "invalid-token" {
		return nil, errors.New("invalid token")
	}
	return nil, errors.New("token validation failed")
}

func (m *MockSupabaseClient) DB() *supabase.Client {
	return nil
}

func (m *MockSupabaseClient) GetClientWithToken(token string) (*supabase.Client, error) {
	return nil, nil
}

type MockResearchBackend struct {
	profiles  map[string]*domain.ResearchProfile
	papers    []domain.Paper
	lastTopK  int
	lastToken string
	err       error
}

func NewMockResearchBackend() *MockResearchBackend {
	return &MockResearchBackend{
		profiles: make(map[string]*domain.ResearchProfile),
	}
}

func (m *MockResearchBackend) AnalyzeProfile(ctx context.Context, url string, profileType domain.ProfileType, token string) (*domain.ResearchProfile, error) {
	m.lastToken = token
	if m.err != nil {
		return nil, m.err
	}
	p := &domain.ResearchProfile{ID: "p-" + string(profileType), Name: "Ada Lovelace", SourceURL: url}
	m.profiles[p.ID] = p
	return p, nil
}

func (m *MockResearchBackend) GetProfile(ctx context.Context, profileID string, token string) (*domain.ResearchProfile, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.profiles[profileID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return p, nil
}

func (m *MockResearchBackend) SearchRecommendations(ctx context.Context, query string, topK int, token string) ([]domain.Paper, error) {
	m.lastTopK = topK
	if m.err != nil {
		return nil, m.err
	}
	return m.papers, nil
}

type MockSavedProfileRepository struct {
	saved map[string]*domain.SavedProfile
	seq   int
}

func NewMockSavedProfileRepository() *MockSavedProfileRepository {
	return &MockSavedProfileRepository{saved: make(map[string]*domain.SavedProfile)}
}

func (m *MockSavedProfileRepository) Create(profile *domain.SavedProfile, token string) (*domain.SavedProfile, error) {
	m.seq++
	cp := *profile
	cp.ID = fmt.Sprintf("saved-%d", m.seq)
	cp.CreatedAt = time.Date(2024, 1, 1, 0, 0, m.seq, 0, time.UTC)
	m.saved[cp.ID] = &cp
	return &cp, nil
}

func (m *MockSavedProfileRepository) ListByUser(userID string, token string) ([]*domain.SavedProfile, error) {
	var out []*domain.SavedProfile
	for _, p := range m.saved {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MockSavedProfileRepository) Delete(userID string, savedID string, token string) error {
	p, ok := m.saved[savedID]
	if !ok || p.UserID != userID {
		return domain.ErrProfileNotFound
	}
	delete(m.saved, savedID)
	return nil
}

func (m *MockSavedProfileRepository) Get(userID string, savedID string, token string) (*domain.SavedProfile, error) {
	p, ok := m.saved[savedID]
	if !ok || p.UserID != userID {
		return nil, domain.ErrProfileNotFound
	}
	cp := *p
	cp.Papers = append([]domain.Paper(nil), p.Papers...)
	return &cp, nil
}

func (m *MockSavedProfileRepository) Update(profile *domain.SavedProfile, token string) (*domain.SavedProfile, error) {
	p, ok := m.saved[profile.ID]
	if !ok || p.UserID != profile.UserID {
		return nil, domain.ErrProfileNotFound
	}
	cp := *p
	cp.Name = profile.Name
	cp.Affiliation = profile.Affiliation
	cp.ResearchAreas = profile.ResearchAreas
	cp.ResearchTopics = profile.ResearchTopics
	cp.Papers = append([]domain.Paper(nil), profile.Papers...)
	m.saved[cp.ID] = &cp
	return &cp, nil
}
