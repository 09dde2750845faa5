// Package judges canonicalizes judge names read from trial workbooks
// against the official roster.
package judges

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// UnknownJudge is returned for cells that hold no name at all.
const UnknownJudge = "Unknown Judge"

//go:embed roster.yaml
var defaultRoster []byte

var (
	// A date fragment sometimes leaks into the start of the judge cell.
	leadingNoise = regexp.MustCompile(`^[\n\s/\d-]+`)
	whitespace   = regexp.MustCompile(`[\s\x{00A0}]+`)
)

type rosterFile struct {
	Version int      `yaml:"version"`
	Judges  []string `yaml:"judges"`
}

type judge struct {
	full  string
	first string
	last  string
}

// Roster is an ordered list of official judge names. It is immutable after
// construction and safe for concurrent use.
type Roster struct {
	judges []judge
}

// NewRoster builds a roster from names in priority order. Blank and
// duplicate names are dropped.
func NewRoster(names []string) *Roster {
	r := &Roster{judges: make([]judge, 0, len(names))}
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		full := strings.Join(strings.Fields(n), " ")
		if full == "" {
			continue
		}
		key := strings.ToLower(full)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		tokens := strings.Fields(full)
		r.judges = append(r.judges, judge{
			full:  full,
			first: tokens[0],
			last:  tokens[len(tokens)-1],
		})
	}
	return r
}

// LoadDefault returns the roster bundled with the binary.
func LoadDefault() (*Roster, error) {
	return parse(defaultRoster)
}

// LoadFile reads a roster YAML file with a top-level "judges" list.
func LoadFile(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read judge roster: %w", err)
	}
	return parse(data)
}

// Load uses path when set and falls back to the bundled roster.
func Load(path string) (*Roster, error) {
	if path == "" {
		return LoadDefault()
	}
	return LoadFile(path)
}

func parse(data []byte) (*Roster, error) {
	var f rosterFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse judge roster: %w", err)
	}
	r := NewRoster(f.Judges)
	if r.Len() == 0 {
		return nil, fmt.Errorf("judge roster is empty")
	}
	return r, nil
}

// Len returns the number of judges on the roster.
func (r *Roster) Len() int { return len(r.judges) }

// Names returns the roster in priority order.
func (r *Roster) Names() []string {
	out := make([]string, len(r.judges))
	for i, j := range r.judges {
		out[i] = j.full
	}
	return out
}

// Clean strips leading date noise, collapses whitespace (including
// non-breaking spaces) and title-cases each word.
func Clean(raw string) string {
	s := leadingNoise.ReplaceAllString(raw, "")
	s = strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
	if s == "" {
		return UnknownJudge
	}
	words := strings.Split(strings.ToLower(s), " ")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// Match returns the roster name for raw and whether one was found. Rules in
// order: exact name; initial plus last name; last name alone. Ties go to the
// earlier roster entry. Unmatched input comes back in its cleaned form.
func (r *Roster) Match(raw string) (string, bool) {
	name := Clean(raw)
	if name == UnknownJudge {
		return name, false
	}

	for _, j := range r.judges {
		if strings.EqualFold(j.full, name) {
			return j.full, true
		}
	}

	tokens := strings.Fields(strings.ReplaceAll(name, ".", ""))
	if len(tokens) == 0 {
		return name, false
	}
	first, last := tokens[0], tokens[len(tokens)-1]

	if len(tokens) > 1 && utf8.RuneCountInString(first) == 1 {
		initial := strings.ToLower(first)
		for _, j := range r.judges {
			if strings.EqualFold(j.last, last) && strings.HasPrefix(strings.ToLower(j.first), initial) {
				return j.full, true
			}
		}
	}

	for _, j := range r.judges {
		if strings.EqualFold(j.last, last) {
			return j.full, true
		}
	}
	return name, false
}
