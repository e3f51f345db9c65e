// Package run holds the per-invocation identity shared by every backup
// captured during one orchestrated run.
package run

import (
	"fmt"
	"regexp"
	"time"
)

// TimestampLayout is the fixed-width calendar format used for run
// identifiers and backup directory names: YYYYMMDD_HHMMSS, local time.
const TimestampLayout = "20060102_150405"

// timestampPattern guards the parse: exactly 8 digits, underscore, 6 digits.
// Anything else falls back to filesystem metadata at the call site.
var timestampPattern = regexp.MustCompile(`^\d{8}_\d{6}$`)

// Timestamp identifies one orchestrated run. Opaque to everything except
// its directory-name rendering and the retention sweep's age parse.
type Timestamp string

// NewTimestamp captures the current local time as a run identifier.
func NewTimestamp(now time.Time) Timestamp {
	return Timestamp(now.Local().Format(TimestampLayout))
}

// ParseTimestamp validates s against the strict run-timestamp format and
// returns the local-time instant it encodes. Local time mirrors how the
// identifiers are generated.
func ParseTimestamp(s string) (time.Time, error) {
	if !timestampPattern.MatchString(s) {
		return time.Time{}, fmt.Errorf("malformed run timestamp %q", s)
	}
	t, err := time.ParseInLocation(TimestampLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing run timestamp %q: %w", s, err)
	}
	return t, nil
}

func (t Timestamp) String() string { return string(t) }

// Valid reports whether the identifier matches the strict format.
func (t Timestamp) Valid() bool {
	_, err := ParseTimestamp(string(t))
	return err == nil
}
