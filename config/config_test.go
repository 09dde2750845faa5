package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresDSN(t *testing.T) {
	c := &Config{DBUser: "u", DBPass: "p", DBHost: "h", DBPort: "5432", DBName: "trials", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/trials?sslmode=disable", c.PostgresDSN())

	c.DatabaseURL = "postgres://elsewhere/db"
	assert.Equal(t, "postgres://elsewhere/db", c.PostgresDSN())
}

func TestIsAdmin(t *testing.T) {
	c := &Config{AdminUsers: splitTrimmed(" Admin , secretary ,,")}
	assert.True(t, c.IsAdmin("admin"))
	assert.True(t, c.IsAdmin("  SECRETARY "))
	assert.False(t, c.IsAdmin("judge"))
	assert.False(t, c.IsAdmin(""))
}

func TestLocation(t *testing.T) {
	c := &Config{Timezone: "Local"}
	loc, err := c.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	c.Timezone = "UTC"
	loc, err = c.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	c.Timezone = "Not/AZone"
	_, err = c.Location()
	assert.Error(t, err)
}

func TestUploadLimitAndRequireDB(t *testing.T) {
	c := &Config{}
	assert.Equal(t, int64(20<<20), c.UploadLimit())
	c.UploadMaxMB = 5
	assert.Equal(t, int64(5<<20), c.UploadLimit())

	assert.Error(t, c.RequireDB())
	c.DBPass = "secret"
	assert.NoError(t, c.RequireDB())
}
