package prettylog

import (
	"encoding/json"
	"math"
	"strings"
)

// Default option values, applied by New for zero-valued Config fields.
const (
	DefaultDateFormat = "yyyy-mm-dd HH:MM:ss.l o"
	DefaultMessageKey = "msg"
)

// DefaultErrorLikeObjectKeys returns the default set of keys whose values are
// rendered as nested error objects.
func DefaultErrorLikeObjectKeys() []string {
	return []string{"err", "error"}
}

// schemaVersion is the wire marker a line must carry to be recognized.
const schemaVersion = 1

// standardKeys are the record fields the header already surfaces; the body
// renderer skips them. The message key is excluded separately, per config.
var standardKeys = []string{"pid", "hostname", "name", "level", "time", "v"}

// indentUnit is one step of body indentation.
const indentUnit = "    "

// Config holds the per-formatter options. The zero value is usable; empty
// fields fall back to the documented defaults.
type Config struct {
	// Colorize wraps severity labels in ANSI styles.
	Colorize bool
	// CRLF terminates output lines with \r\n instead of \n.
	CRLF bool
	// DateFormat is the dateformat-style pattern used when TranslateTime is on.
	DateFormat string
	// ErrorLikeObjectKeys lists keys whose values render as nested error
	// objects with stack re-expansion.
	ErrorLikeObjectKeys []string
	// ErrorProps is a comma-separated list of extra properties to print for
	// error records, or "*" for all non-standard properties.
	ErrorProps string
	// LevelFirst puts the severity label before the timestamp.
	LevelFirst bool
	// LocalTime formats translated timestamps in the system zone instead of UTC.
	LocalTime bool
	// MessageKey names the field holding the human message.
	MessageKey string
	// TranslateTime reformats the numeric timestamp with DateFormat.
	TranslateTime bool
}

// Prettifier turns newline-delimited JSON log records into human-readable
// text. It is immutable after construction and safe for concurrent use.
type Prettifier struct {
	cfg          Config
	eol          string
	errorProps   []string
	styles       map[int]styleFunc
	defaultStyle styleFunc
}

// New builds a Prettifier bound to cfg.
func New(cfg Config) *Prettifier {
	if cfg.DateFormat == "" {
		cfg.DateFormat = DefaultDateFormat
	}
	if cfg.MessageKey == "" {
		cfg.MessageKey = DefaultMessageKey
	}
	if cfg.ErrorLikeObjectKeys == nil {
		cfg.ErrorLikeObjectKeys = DefaultErrorLikeObjectKeys()
	}
	p := &Prettifier{cfg: cfg, eol: "\n"}
	if cfg.CRLF {
		p.eol = "\r\n"
	}
	if cfg.ErrorProps != "" {
		p.errorProps = strings.Split(cfg.ErrorProps, ",")
	}
	p.styles, p.defaultStyle = newLevelStyles(cfg.Colorize)
	return p
}

// NewFormatFunc returns the per-line formatting function bound to cfg, for
// callers that want a plain func instead of the Prettifier type.
func NewFormatFunc(cfg Config) func(string) string {
	return New(cfg).Format
}

// Format renders one input line. Lines that are not structured log records
// pass through unchanged, plus the configured terminator. Format never fails:
// every possible input maps to exactly one output chunk.
func (p *Prettifier) Format(line string) string {
	rec, ok := p.recognize(line)
	if !ok {
		return line + p.eol
	}
	var sb strings.Builder
	p.writeHeader(&sb, rec)
	p.writeBody(&sb, rec)
	return sb.String()
}

// recognize parses line and checks the schema marker. Anything that is not a
// JSON object with numeric v == 1 is foreign input.
func (p *Prettifier) recognize(line string) (Value, bool) {
	v, err := parseValue(line)
	if err != nil || v.Kind != KindObject {
		return Value{}, false
	}
	ver, ok := v.Get("v")
	if !ok || ver.Kind != KindNumber {
		return Value{}, false
	}
	f, err := ver.Num.Float64()
	if err != nil || f != schemaVersion {
		return Value{}, false
	}
	return v, true
}

func (p *Prettifier) writeHeader(sb *strings.Builder, rec Value) {
	timeToken := "[" + p.timestampText(rec) + "]"
	levelToken := p.levelToken(rec)

	if p.cfg.LevelFirst {
		sb.WriteString(levelToken)
		sb.WriteByte(' ')
		sb.WriteString(timeToken)
	} else {
		sb.WriteString(timeToken)
		sb.WriteByte(' ')
		sb.WriteString(levelToken)
	}

	name, _ := rec.Get("name")
	pid, _ := rec.Get("pid")
	hostname, _ := rec.Get("hostname")
	if name.Truthy() || pid.Truthy() || hostname.Truthy() {
		sb.WriteString(" (")
		if name.Truthy() {
			sb.WriteString(name.scalarText())
		}
		if name.Truthy() && pid.Truthy() {
			sb.WriteByte('/')
			sb.WriteString(pid.scalarText())
		} else if pid.Truthy() {
			sb.WriteString(pid.scalarText())
		}
		if hostname.Truthy() {
			sb.WriteString(" on ")
			sb.WriteString(hostname.scalarText())
		}
		sb.WriteByte(')')
	}

	sb.WriteString(": ")
	if msg, ok := rec.Get(p.cfg.MessageKey); ok && msg.Truthy() {
		sb.WriteString(msg.scalarText())
	}
	sb.WriteString(p.eol)
}

// timestampText renders the time field, translated when configured. Any
// translation failure degrades to the raw token, never to an error.
func (p *Prettifier) timestampText(rec Value) string {
	t, ok := rec.Get("time")
	if !ok {
		return ""
	}
	if p.cfg.TranslateTime && t.Kind == KindNumber {
		if formatted, err := translateEpochMillis(t.Num, p.cfg.DateFormat, p.cfg.LocalTime); err == nil {
			return formatted
		}
	}
	return t.scalarText()
}

func (p *Prettifier) levelToken(rec Value) string {
	level, ok := rec.Get("level")
	if ok && level.Kind == KindNumber {
		if code, ok := levelCode(level.Num); ok {
			if label, known := levelLabels[code]; known {
				return p.styles[code](label)
			}
		}
	}
	return p.defaultStyle(defaultLevelLabel)
}

// levelCode extracts an integral level code; 30 and 30.0 are the same level.
func levelCode(n json.Number) (int, bool) {
	if i, err := n.Int64(); err == nil {
		return int(i), true
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func isStandardKey(key string) bool {
	for _, k := range standardKeys {
		if k == key {
			return true
		}
	}
	return false
}
