// Package registry looks up the authoritative handler and dog names for a
// registration number.
package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/uptrace/bun"

	"github.com/padraicbc/trialapi/models"
)

type fetchFunc func(ctx context.Context, regNumber string) (*models.RegistryEntry, error)

// Service reads the registry table and memoizes results, misses included.
type Service struct {
	fetch fetchFunc
	cache *cache.Cache
}

// New returns a Service backed by the registry table. ttl <= 0 uses ten minutes.
func New(db *bun.DB, ttl time.Duration) *Service {
	return newService(func(ctx context.Context, regNumber string) (*models.RegistryEntry, error) {
		entry := &models.RegistryEntry{}
		err := db.NewSelect().Model(entry).
			Where("registration_number = ?", regNumber).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil
			}
			return nil, err
		}
		return entry, nil
	}, ttl)
}

func newService(fetch fetchFunc, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Service{fetch: fetch, cache: cache.New(ttl, 2*ttl)}
}

// Lookup returns the registry record for regNumber, or nil when the number
// is not registered.
func (s *Service) Lookup(ctx context.Context, regNumber string) (*models.RegistryEntry, error) {
	key := strings.TrimSpace(regNumber)
	if key == "" {
		return nil, nil
	}
	if v, found := s.cache.Get(key); found {
		entry, _ := v.(*models.RegistryEntry)
		return entry, nil
	}

	entry, err := s.fetch(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("registry lookup %s: %w", key, err)
	}
	s.cache.SetDefault(key, entry)
	return entry, nil
}

// Forget drops every cached lookup. The importer calls it before each run
// so registrations added since the last run are seen.
func (s *Service) Forget() {
	s.cache.Flush()
}
