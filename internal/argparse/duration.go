// File: internal/argparse/duration.go
package argparse

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidDuration = errors.New("invalid duration")

var durationUnits = map[byte]time.Duration{
	's': time.Second,
	'm': time.Minute,
	'h': time.Hour,
	'd': 24 * time.Hour,
}

// ParseDuration accepts the duration forms understood across the CLI:
// a bare number of seconds ("90"), unit sequences ("1h30m", "2d", "1.5h")
// and ISO 8601 durations ("PT1H", "P1DT12H")
func ParseDuration(value string) (time.Duration, error) {
	s := strings.ToLower(strings.TrimSpace(value))
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidDuration)
	}

	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("%w: %q is negative", ErrInvalidDuration, value)
	}
	if isNumeric(s) {
		secs, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, value)
		}
		d, ok := scaleDuration(secs, time.Second)
		if !ok {
			return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidDuration, value)
		}
		return d, nil
	}

	if strings.HasPrefix(s, "p") {
		return parseISODuration(s[1:], value)
	}
	return parseUnitSequence(s, value)
}

func isNumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '.' && (s[i] < '0' || s[i] > '9') {
			return false
		}
	}
	return true
}

func parseUnitSequence(s, original string) (time.Duration, error) {
	var total time.Duration
	for len(s) > 0 {
		i := 0
		for i < len(s) && (s[i] == '.' || (s[i] >= '0' && s[i] <= '9')) {
			i++
		}
		if i == 0 || i == len(s) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, original)
		}
		n, err := strconv.ParseFloat(s[:i], 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, original)
		}
		unit, ok := durationUnits[s[i]]
		if !ok {
			return 0, fmt.Errorf("%w: unknown unit %q in %q", ErrInvalidDuration, s[i], original)
		}
		d, ok := scaleDuration(n, unit)
		if !ok {
			return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidDuration, original)
		}
		if total, ok = addDuration(total, d); !ok {
			return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidDuration, original)
		}
		s = s[i+1:]
	}
	return total, nil
}

func parseISODuration(s, original string) (time.Duration, error) {
	datePart, timePart, hasTime := strings.Cut(s, "t")
	if datePart == "" && (!hasTime || timePart == "") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, original)
	}

	var total time.Duration
	if datePart != "" {
		// Only days are fixed length, years and months are rejected
		if !strings.HasSuffix(datePart, "d") {
			return 0, fmt.Errorf("%w: only day components are supported before T in %q", ErrInvalidDuration, original)
		}
		d, err := parseUnitSequence(datePart, original)
		if err != nil {
			return 0, err
		}
		total += d
	}
	if hasTime {
		if strings.Contains(timePart, "d") {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, original)
		}
		d, err := parseUnitSequence(timePart, original)
		if err != nil {
			return 0, err
		}
		var ok bool
		if total, ok = addDuration(total, d); !ok {
			return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidDuration, original)
		}
	}
	return total, nil
}

// Returns n units, or false when the result does not fit in a time.Duration
func scaleDuration(n float64, unit time.Duration) (time.Duration, bool) {
	f := n * float64(unit)
	if math.IsNaN(f) || f < 0 || f >= math.MaxInt64 {
		return 0, false
	}
	return time.Duration(f), true
}

func addDuration(a, b time.Duration) (time.Duration, bool) {
	if b > math.MaxInt64-a {
		return 0, false
	}
	return a + b, true
}

// durationValue implements pflag.Value for gcloud style durations
type durationValue struct {
	d   *time.Duration
	raw string
}

func newDurationValue(def string, p *time.Duration) (*durationValue, error) {
	v := &durationValue{d: p}
	if def != "" {
		if err := v.Set(def); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func (v *durationValue) Set(s string) error {
	d, err := ParseDuration(s)
	if err != nil {
		return err
	}
	*v.d = d
	v.raw = s
	return nil
}

func (v *durationValue) String() string {
	return v.raw
}

func (v *durationValue) Type() string {
	return "duration"
}
