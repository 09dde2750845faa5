// Package scoring classifies the text of a judged score cell.
package scoring

import "strings"

// Result is the closed set of judged outcomes stored in scores.pass_fail.
type Result string

const (
	Pass Result = "Pass"
	Fail Result = "Fail"
	NQ   Result = "NQ"
	ABS  Result = "ABS"
)

// Outcome says whether a cell produced a score row.
type Outcome int

const (
	// Scored means Result is valid and a score row should be written.
	Scored Outcome = iota
	// NoScore is a blank, dash or n/a cell. Nothing is written for it.
	NoScore
	// Unrecognized text is skipped and reported to the operator.
	Unrecognized
)

func (o Outcome) String() string {
	switch o {
	case Scored:
		return "scored"
	case NoScore:
		return "no score"
	default:
		return "unrecognized"
	}
}

// Interpret maps raw cell text to a result. The Result is empty unless the
// outcome is Scored.
func Interpret(raw string) (Result, Outcome) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "", "-", "n/a":
		return "", NoScore
	case "pass", "p":
		return Pass, Scored
	case "fail", "f":
		return Fail, Scored
	}
	switch {
	case strings.Contains(s, "nq"):
		return NQ, Scored
	case strings.Contains(s, "abs"):
		return ABS, Scored
	}
	return "", Unrecognized
}
