package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"scholar-lens/internal/domain"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema/saved_profiles.sql
var savedProfilesSchema string

const sqliteBusyTimeout = 5000 // milliseconds

// SQLiteSavedProfileRepository keeps dashboard profiles in a local SQLite file.
// It backs the dashboard when Supabase is not configured; tokens are ignored.
type SQLiteSavedProfileRepository struct {
	conn   *sql.DB
	logger domain.Logger
	now    func() time.Time
}

// OpenSQLiteSavedProfileRepository opens (creating if needed) the database at
// path and applies the schema.
func OpenSQLiteSavedProfileRepository(path string, logger domain.Logger) (*SQLiteSavedProfileRepository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)", path, sqliteBusyTimeout)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer keeps SQLite from returning SQLITE_BUSY under load
	conn.SetMaxOpenConns(1)

	ctx := context.Background()
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := conn.ExecContext(ctx, savedProfilesSchema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite saved profile store opened", "path", path)
	return &SQLiteSavedProfileRepository{
		conn:   conn,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Close closes the database connection.
func (r *SQLiteSavedProfileRepository) Close() error {
	return r.conn.Close()
}

const savedProfileColumns = `id, user_id, profile_id, name, affiliation, research_areas, research_topics, papers, source_url, created_at`

func (r *SQLiteSavedProfileRepository) Create(profile *domain.SavedProfile, _ string) (*domain.SavedProfile, error) {
	saved := &domain.SavedProfile{
		ID:             uuid.NewString(),
		UserID:         profile.UserID,
		ProfileID:      profile.ProfileID,
		Name:           sanitizeText(profile.Name),
		Affiliation:    sanitizeText(profile.Affiliation),
		ResearchAreas:  nonNil(profile.ResearchAreas),
		ResearchTopics: nonNil(profile.ResearchTopics),
		Papers:         profile.Papers,
		SourceURL:      profile.SourceURL,
		CreatedAt:      r.now().UTC(),
	}
	if saved.Papers == nil {
		saved.Papers = []domain.Paper{}
	}
	areas, topics, papers, err := encodeEditable(saved)
	if err != nil {
		return nil, err
	}

	_, err = r.conn.Exec(
		`INSERT INTO saved_profiles (`+savedProfileColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		saved.ID, saved.UserID, saved.ProfileID, saved.Name, saved.Affiliation,
		areas, topics, papers, saved.SourceURL, saved.CreatedAt.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return saved, nil
}

func (r *SQLiteSavedProfileRepository) ListByUser(userID string, _ string) ([]*domain.SavedProfile, error) {
	rows, err := r.conn.Query(
		`SELECT `+savedProfileColumns+`
		 FROM saved_profiles WHERE user_id = ? ORDER BY created_at DESC, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*domain.SavedProfile
	for rows.Next() {
		p, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list saved profiles: %w", err)
	}
	return profiles, nil
}

func (r *SQLiteSavedProfileRepository) Get(userID string, savedID string, _ string) (*domain.SavedProfile, error) {
	row := r.conn.QueryRow(
		`SELECT `+savedProfileColumns+` FROM saved_profiles WHERE id = ? AND user_id = ?`,
		savedID, userID,
	)
	p, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	return p, err
}

// Update overwrites the editable columns of a saved profile owned by
// profile.UserID.
func (r *SQLiteSavedProfileRepository) Update(profile *domain.SavedProfile, token string) (*domain.SavedProfile, error) {
	areas, topics, papers, err := encodeEditable(profile)
	if err != nil {
		return nil, err
	}

	res, err := r.conn.Exec(
		`UPDATE saved_profiles
		 SET name = ?, affiliation = ?, research_areas = ?, research_topics = ?, papers = ?
		 WHERE id = ? AND user_id = ?`,
		sanitizeText(profile.Name), sanitizeText(profile.Affiliation), areas, topics, papers,
		profile.ID, profile.UserID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update saved profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update saved profile: %w", err)
	}
	if n == 0 {
		return nil, domain.ErrProfileNotFound
	}
	return r.Get(profile.UserID, profile.ID, token)
}

func (r *SQLiteSavedProfileRepository) Delete(userID string, savedID string, _ string) error {
	res, err := r.conn.Exec(`DELETE FROM saved_profiles WHERE id = ? AND user_id = ?`, savedID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete saved profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete saved profile: %w", err)
	}
	if n == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteSavedProfileRepository) scan(row rowScanner) (*domain.SavedProfile, error) {
	var (
		p                     domain.SavedProfile
		areas, topics, papers string
		createdAt             int64
	)
	err := row.Scan(&p.ID, &p.UserID, &p.ProfileID, &p.Name, &p.Affiliation,
		&areas, &topics, &papers, &p.SourceURL, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan saved profile: %w", err)
	}

	if err := json.Unmarshal([]byte(areas), &p.ResearchAreas); err != nil || p.ResearchAreas == nil {
		r.warnMalformed(p.ID, "research_areas", err)
		p.ResearchAreas = []string{}
	}
	if err := json.Unmarshal([]byte(topics), &p.ResearchTopics); err != nil || p.ResearchTopics == nil {
		r.warnMalformed(p.ID, "research_topics", err)
		p.ResearchTopics = []string{}
	}
	if err := json.Unmarshal([]byte(papers), &p.Papers); err != nil || p.Papers == nil {
		r.warnMalformed(p.ID, "papers", err)
		p.Papers = []domain.Paper{}
	}
	p.CreatedAt = time.Unix(0, createdAt).UTC()
	return &p, nil
}

func (r *SQLiteSavedProfileRepository) warnMalformed(id, column string, err error) {
	if err == nil {
		return
	}
	r.logger.Warn("Malformed column in saved profile", "id", id, "column", column, "error", err.Error())
}

func encodeEditable(p *domain.SavedProfile) (areas, topics, papers string, err error) {
	a, err := json.Marshal(nonNil(p.ResearchAreas))
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode research areas: %w", err)
	}
	t, err := json.Marshal(nonNil(p.ResearchTopics))
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode research topics: %w", err)
	}
	ps := p.Papers
	if ps == nil {
		ps = []domain.Paper{}
	}
	b, err := json.Marshal(ps)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode papers: %w", err)
	}
	return string(a), string(t), string(b), nil
}
