package repository

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"scholar-lens/internal/domain"

	"github.com/supabase-community/postgrest-go"
)

const savedProfilesTable = "saved_profiles"

// SavedProfileRepository implements domain.SavedProfileRepository using Supabase.
type SavedProfileRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

func NewSavedProfileRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) domain.SavedProfileRepository {
	return &SavedProfileRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

func (r *SavedProfileRepository) Create(profile *domain.SavedProfile, token string) (*domain.SavedProfile, error) {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	row := editableColumns(profile)
	row["user_id"] = profile.UserID
	row["profile_id"] = profile.ProfileID
	row["source_url"] = profile.SourceURL

	// Request "representation" so PostgREST returns the inserted row.
	data, _, err := client.From(savedProfilesTable).
		Insert(row, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("failed to save profile: empty response")
	}

	return mapToSavedProfile(rows[0]), nil
}

func (r *SavedProfileRepository) ListByUser(userID string, token string) ([]*domain.SavedProfile, error) {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From(savedProfilesTable).
		Select("*", "", false).
		Eq("user_id", userID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list saved profiles: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	out := make([]*domain.SavedProfile, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapToSavedProfile(row))
	}
	return out, nil
}

func (r *SavedProfileRepository) Get(userID string, savedID string, token string) (*domain.SavedProfile, error) {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From(savedProfilesTable).
		Select("*", "", false).
		Eq("id", savedID).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get saved profile: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrProfileNotFound
	}
	return mapToSavedProfile(rows[0]), nil
}

// Update overwrites the editable columns of a saved profile owned by
// profile.UserID.
func (r *SavedProfileRepository) Update(profile *domain.SavedProfile, token string) (*domain.SavedProfile, error) {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From(savedProfilesTable).
		Update(editableColumns(profile), "representation", "").
		Eq("id", profile.ID).
		Eq("user_id", profile.UserID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to update saved profile: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrProfileNotFound
	}
	return mapToSavedProfile(rows[0]), nil
}

func (r *SavedProfileRepository) Delete(userID string, savedID string, token string) error {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From(savedProfilesTable).
		Delete("representation", "").
		Eq("id", savedID).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete saved profile: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err == nil && len(rows) == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func mapToSavedProfile(data map[string]interface{}) *domain.SavedProfile {
	p := &domain.SavedProfile{
		ID:             getString(data, "id"),
		UserID:         getString(data, "user_id"),
		ProfileID:      getString(data, "profile_id"),
		Name:           getString(data, "name"),
		Affiliation:    getString(data, "affiliation"),
		SourceURL:      getString(data, "source_url"),
		ResearchAreas:  getStringSlice(data, "research_areas"),
		ResearchTopics: getStringSlice(data, "research_topics"),
		Papers:         getPapers(data, "papers"),
	}

	if createdAt := getString(data, "created_at"); createdAt != "" {
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			p.CreatedAt = t
		}
	}

	return p
}

// editableColumns returns the columns a user may change after saving.
func editableColumns(profile *domain.SavedProfile) map[string]interface{} {
	papers := make([]domain.Paper, len(profile.Papers))
	for i, p := range profile.Papers {
		p.Title = sanitizeText(p.Title)
		p.Abstract = sanitizeText(p.Abstract)
		papers[i] = p
	}
	return map[string]interface{}{
		"name":            sanitizeText(profile.Name),
		"affiliation":     sanitizeText(profile.Affiliation),
		"research_areas":  nonNil(profile.ResearchAreas),
		"research_topics": nonNil(profile.ResearchTopics),
		"papers":          papers,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func getString(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func getStringSlice(data map[string]interface{}, key string) []string {
	out := []string{}
	raw, ok := data[key].([]interface{})
	if !ok {
		return out
	}
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// getPapers decodes a jsonb paper array. Malformed entries yield an empty list.
func getPapers(data map[string]interface{}, key string) []domain.Paper {
	out := []domain.Paper{}
	raw, ok := data[key]
	if !ok || raw == nil {
		return out
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return out
	}
	if err := json.Unmarshal(buf, &out); err != nil || out == nil {
		return []domain.Paper{}
	}
	return out
}

var reControl = regexp.MustCompile(`[\x00]`)

// sanitizeText removes characters that PostgreSQL rejects in text fields (notably NUL bytes).
func sanitizeText(s string) string {
	if s == "" {
		return s
	}
	s = reControl.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "\\u0000", "")
	return s
}
