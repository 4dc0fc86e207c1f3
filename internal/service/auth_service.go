package service

import (
	"fmt"
	"sync"
	"time"

	"scholar-lens/internal/domain"
)

const tokenCacheTTL = 30 * time.Second

type tokenCacheEntry struct {
	user      *domain.SupabaseUser
	expiresAt time.Time
}

type authService struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
	now            func() time.Time

	tokenCacheMu sync.RWMutex
	tokenCache   map[string]tokenCacheEntry
}

func NewAuthService(
	supabaseClient domain.SupabaseClient,
	logger domain.Logger,
) *authService {
	return &authService{
		supabaseClient: supabaseClient,
		logger:         logger,
		now:            time.Now,
		tokenCache:     make(map[string]tokenCacheEntry),
	}
}

// ValidateToken validates a token with Supabase. Successful lookups are cached
// briefly so a burst of selection events does not hit GoTrue every time.
func (s *authService) ValidateToken(token string) (*domain.SupabaseUser, error) {
	now := s.now()
	s.tokenCacheMu.RLock()
	entry, ok := s.tokenCache[token]
	s.tokenCacheMu.RUnlock()
	if ok && now.Before(entry.expiresAt) {
		return entry.user, nil
	}

	user, err := s.supabaseClient.ValidateToken(token)
	if err != nil {
		s.logger.Error("Failed to validate token with Supabase", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	s.tokenCacheMu.Lock()
	for k, e := range s.tokenCache {
		if !now.Before(e.expiresAt) {
			delete(s.tokenCache, k)
		}
	}
	s.tokenCache[token] = tokenCacheEntry{user: user, expiresAt: now.Add(tokenCacheTTL)}
	s.tokenCacheMu.Unlock()

	return user, nil
}
