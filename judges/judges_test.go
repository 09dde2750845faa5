package judges

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoster() *Roster {
	return NewRoster([]string{
		"Jane Doe",
		"John Smith",
		"Mary O'Neil",
		"Sam Smith",
		"Anne-Marie Clarke",
	})
}

func TestClean(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"jane doe", "Jane Doe"},
		{"  JANE \tDOE \n", "Jane Doe"},
		{"6/6/2024\nJane Doe", "Jane Doe"},
		{"-- 12 / Jane   Doe", "Jane Doe"},
		{"", UnknownJudge},
		{" 06/06 - ", UnknownJudge},
		{" ", UnknownJudge},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.raw))
		})
	}
}

func TestMatch(t *testing.T) {
	r := testRoster()
	tests := []struct {
		name    string
		raw     string
		want    string
		matched bool
	}{
		{"exact", "John Smith", "John Smith", true},
		{"exact case-insensitive", "mary o'neil", "Mary O'Neil", true},
		{"initial and last name", "J. Smith", "John Smith", true},
		{"initial picks matching first name", "S Smith", "Sam Smith", true},
		{"last name only uses roster order", "Smith", "John Smith", true},
		{"last name with unknown first", "Bob Doe", "Jane Doe", true},
		{"date noise", "2024-06-06 Jane Doe", "Jane Doe", true},
		{"hyphenated first name", "A. Clarke", "Anne-Marie Clarke", true},
		{"unmatched is cleaned", "  peter PARKER ", "Peter Parker", false},
		{"empty", "   ", UnknownJudge, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Match(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.matched, ok)
		})
	}
}

func TestMatchDeterministicAndIdempotent(t *testing.T) {
	r := testRoster()
	for _, raw := range []string{"J. Smith", "smith", "unknown person", "", "Jane Doe"} {
		first, _ := r.Match(raw)
		second, _ := r.Match(raw)
		assert.Equal(t, first, second)
		again, _ := r.Match(first)
		assert.Equal(t, first, again)
	}
	for _, name := range r.Names() {
		got, ok := r.Match(name)
		assert.True(t, ok)
		assert.Equal(t, name, got)
	}
}

func TestNewRosterDropsBlanksAndDuplicates(t *testing.T) {
	r := NewRoster([]string{"John Smith", " ", "john  smith", "Jane Doe"})
	assert.Equal(t, []string{"John Smith", "Jane Doe"}, r.Names())
}

func TestLoadDefault(t *testing.T) {
	r, err := LoadDefault()
	require.NoError(t, err)
	assert.Greater(t, r.Len(), 10)

	got, ok := r.Match("J. Smith")
	assert.True(t, ok)
	assert.Equal(t, "John Smith", got)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 2\njudges:\n  - Alex Stone\n  - Bea Stone\n"), 0o600))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alex Stone", "Bea Stone"}, r.Names())

	require.NoError(t, os.WriteFile(path, []byte("judges: []\n"), 0o600))
	_, err = LoadFile(path)
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
