package prettylog

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"gitlab.com/tozd/go/errors"
)

// translateEpochMillis formats an epoch-milliseconds number with a
// dateformat-style pattern. localTime selects the system zone, otherwise UTC.
// The error return is the caller's cue to fall back to the raw token.
func translateEpochMillis(num json.Number, pattern string, localTime bool) (string, error) {
	ms, err := parseEpoch(num)
	if err != nil {
		return "", err
	}
	t := time.UnixMilli(ms)
	if localTime {
		t = t.Local()
	} else {
		t = t.UTC()
	}
	return formatPattern(t, pattern), nil
}

func parseEpoch(num json.Number) (int64, error) {
	if ms, err := num.Int64(); err == nil {
		return ms, nil
	}
	f, err := num.Float64()
	if err != nil {
		return 0, errors.Wrap(err, "time value is not numeric")
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > float64(math.MaxInt64) {
		return 0, errors.Errorf("time value out of range: %s", num.String())
	}
	return int64(f), nil
}

// formatPattern expands dateformat-style tokens against t. Tokens are matched
// longest first; single-quoted runs are copied literally; anything else passes
// through unchanged, so a pattern can never fail, only look odd.
func formatPattern(t time.Time, pattern string) string {
	var sb strings.Builder
	for i := 0; i < len(pattern); {
		if pattern[i] == '\'' {
			end := strings.IndexByte(pattern[i+1:], '\'')
			if end < 0 {
				sb.WriteString(pattern[i+1:])
				break
			}
			sb.WriteString(pattern[i+1 : i+1+end])
			i += end + 2
			continue
		}
		tok, n := matchToken(pattern[i:])
		if n == 0 {
			sb.WriteByte(pattern[i])
			i++
			continue
		}
		sb.WriteString(expandToken(t, tok))
		i += n
	}
	return sb.String()
}

var patternTokens = []string{
	"yyyy", "yy",
	"mm", "m",
	"dd", "d",
	"HH", "H",
	"hh", "h",
	"MM", "M",
	"ss", "s",
	"l", "L",
	"o",
	"TT", "tt", "T", "t",
}

func matchToken(s string) (string, int) {
	for _, tok := range patternTokens {
		if strings.HasPrefix(s, tok) {
			return tok, len(tok)
		}
	}
	return "", 0
}

func expandToken(t time.Time, tok string) string {
	switch tok {
	case "yyyy":
		return fmt.Sprintf("%04d", t.Year())
	case "yy":
		return fmt.Sprintf("%02d", t.Year()%100)
	case "mm":
		return fmt.Sprintf("%02d", int(t.Month()))
	case "m":
		return fmt.Sprintf("%d", int(t.Month()))
	case "dd":
		return fmt.Sprintf("%02d", t.Day())
	case "d":
		return fmt.Sprintf("%d", t.Day())
	case "HH":
		return fmt.Sprintf("%02d", t.Hour())
	case "H":
		return fmt.Sprintf("%d", t.Hour())
	case "hh":
		return fmt.Sprintf("%02d", hour12(t))
	case "h":
		return fmt.Sprintf("%d", hour12(t))
	case "MM":
		return fmt.Sprintf("%02d", t.Minute())
	case "M":
		return fmt.Sprintf("%d", t.Minute())
	case "ss":
		return fmt.Sprintf("%02d", t.Second())
	case "s":
		return fmt.Sprintf("%d", t.Second())
	case "l":
		return fmt.Sprintf("%03d", t.Nanosecond()/int(time.Millisecond))
	case "L":
		return fmt.Sprintf("%02d", t.Nanosecond()/int(10*time.Millisecond))
	case "o":
		return zoneOffset(t)
	case "TT":
		return meridiem(t, "AM", "PM")
	case "tt":
		return meridiem(t, "am", "pm")
	case "T":
		return meridiem(t, "A", "P")
	case "t":
		return meridiem(t, "a", "p")
	}
	return tok
}

func hour12(t time.Time) int {
	h := t.Hour() % 12
	if h == 0 {
		h = 12
	}
	return h
}

func meridiem(t time.Time, am, pm string) string {
	if t.Hour() < 12 {
		return am
	}
	return pm
}

// zoneOffset renders the UTC offset as +hhmm / -hhmm.
func zoneOffset(t time.Time) string {
	_, offset := t.Zone()
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	return fmt.Sprintf("%s%02d%02d", sign, offset/3600, (offset%3600)/60)
}
