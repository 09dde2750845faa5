package registry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraicbc/trialapi/models"
)

func TestLookupCachesHitsAndMisses(t *testing.T) {
	calls := map[string]int{}
	s := newService(func(_ context.Context, reg string) (*models.RegistryEntry, error) {
		calls[reg]++
		if reg == "12-3456-01" {
			return &models.RegistryEntry{RegistrationNumber: reg, HandlerName: "Ann Lee", DogCallName: "Rex"}, nil
		}
		return nil, nil
	}, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		e, err := s.Lookup(ctx, " 12-3456-01 ")
		require.NoError(t, err)
		require.NotNil(t, e)
		assert.Equal(t, "Rex", e.DogCallName)

		miss, err := s.Lookup(ctx, "99-0000-00")
		require.NoError(t, err)
		assert.Nil(t, miss)
	}
	assert.Equal(t, 1, calls["12-3456-01"])
	assert.Equal(t, 1, calls["99-0000-00"])

	s.Forget()
	_, err := s.Lookup(ctx, "12-3456-01")
	require.NoError(t, err)
	assert.Equal(t, 2, calls["12-3456-01"])
}

func TestLookupBlankAndErrors(t *testing.T) {
	s := newService(func(context.Context, string) (*models.RegistryEntry, error) {
		return nil, errors.New("connection refused")
	}, 0)

	e, err := s.Lookup(context.Background(), "  ")
	assert.NoError(t, err)
	assert.Nil(t, e)

	_, err = s.Lookup(context.Background(), "ab-1")
	assert.ErrorContains(t, err, "ab-1")
}
