package workbook

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// "June 6 -- June 8, 2024", "June 6 - 8, 2024", "Jun 30 to Jul 2 2024"
	dateRangePattern = regexp.MustCompile(
		`(?i)\b([a-z]{3,9})\.?\s+(\d{1,2})(?:st|nd|rd|th)?\s*(?:--|-|–|—|to)\s*(?:([a-z]{3,9})\.?\s+)?(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`)
	singleDatePattern = regexp.MustCompile(
		`(?i)\b([a-z]{3,9})\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`)
)

// ParseDateRange finds the trial dates embedded in a trial name. Both ends
// are local noon. A lone "Month Day, Year" yields a one-day range.
func ParseDateRange(trialName string, loc *time.Location) (start, end time.Time, ok bool) {
	if loc == nil {
		loc = time.Local
	}
	if m := dateRangePattern.FindStringSubmatch(trialName); m != nil {
		startMonth, ok1 := parseMonth(m[1])
		endMonth := startMonth
		ok2 := true
		if m[3] != "" {
			endMonth, ok2 = parseMonth(m[3])
		}
		startDay, _ := strconv.Atoi(m[2])
		endDay, _ := strconv.Atoi(m[4])
		year, _ := strconv.Atoi(m[5])
		if ok1 && ok2 && validDay(startDay) && validDay(endDay) {
			startYear := year
			if endMonth < startMonth {
				startYear--
			}
			start = time.Date(startYear, startMonth, startDay, 12, 0, 0, 0, loc)
			end = time.Date(year, endMonth, endDay, 12, 0, 0, 0, loc)
			// time.Date normalizes Feb 30 into March.
			if start.Day() == startDay && end.Day() == endDay {
				return start, end, true
			}
			return time.Time{}, time.Time{}, false
		}
	}
	if m := singleDatePattern.FindStringSubmatch(trialName); m != nil {
		month, okMonth := parseMonth(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if okMonth && validDay(day) {
			d := time.Date(year, month, day, 12, 0, 0, 0, loc)
			if d.Day() == day {
				return d, d, true
			}
		}
	}
	return time.Time{}, time.Time{}, false
}

func parseMonth(s string) (time.Month, bool) {
	s = strings.ToLower(s)
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		if s == name || (len(s) >= 3 && strings.HasPrefix(name, s)) {
			return m, true
		}
	}
	return 0, false
}

func validDay(d int) bool { return d >= 1 && d <= 31 }
