package prettylog

import (
	"encoding/json"
	"regexp"
	"strings"
)

const (
	errorTypeSentinel = "Error"
	typeKey           = "type"
	stackKey          = "stack"
	wildcardProps     = "*"
)

// reStackLine matches a serialized `"stack": "..."` member so the escaped
// newlines inside it can be re-expanded into a readable block.
var reStackLine = regexp.MustCompile(`^(\s*"stack":)\s*(".*"),?$`)

var reLineBreak = regexp.MustCompile(`\r?\n`)

func (p *Prettifier) writeBody(sb *strings.Builder, rec Value) {
	if t, ok := rec.Get(typeKey); ok && t.Kind == KindString && t.Str == errorTypeSentinel {
		p.writeErrorBody(sb, rec)
		return
	}
	p.flatten(sb, rec, p.cfg.MessageKey, true, 1)
}

// writeErrorBody renders the stack block followed by the configured extra
// properties.
func (p *Prettifier) writeErrorBody(sb *strings.Builder, rec Value) {
	if stack, ok := rec.Get(stackKey); ok && stack.Kind == KindString {
		lines := reLineBreak.Split(stack.Str, -1)
		for i := 1; i < len(lines); i++ {
			lines[i] = indentUnit + lines[i]
		}
		sb.WriteString(strings.Join(lines, p.eol))
		sb.WriteString(p.eol)
	}

	for _, key := range p.selectErrorProps(rec) {
		v, ok := rec.Get(key)
		if !ok {
			continue
		}
		switch {
		case p.isErrorLikeKey(key):
			p.writeErrorLike(sb, key, v, 1)
		case v.Kind == KindObject:
			sb.WriteString(indentUnit)
			sb.WriteString(key)
			sb.WriteString(": {")
			sb.WriteString(p.eol)
			p.flatten(sb, v, "", false, 2)
			sb.WriteString(indentUnit)
			sb.WriteString("}")
			sb.WriteString(p.eol)
		case v.Kind == KindArray:
			p.writeKeyValue(sb, key, v, 1)
		default:
			sb.WriteString(indentUnit)
			sb.WriteString(key)
			sb.WriteString(": ")
			sb.WriteString(v.scalarText())
			sb.WriteString(p.eol)
		}
	}
}

// selectErrorProps resolves the errorProps option against the record: nothing
// when unset, every non-excluded key for the wildcard, otherwise the listed
// keys minus the excluded ones. Order follows the record for the wildcard and
// the option for an explicit list.
func (p *Prettifier) selectErrorProps(rec Value) []string {
	if len(p.errorProps) == 0 {
		return nil
	}
	excluded := func(key string) bool {
		return isStandardKey(key) || key == p.cfg.MessageKey || key == typeKey || key == stackKey
	}
	var props []string
	if len(p.errorProps) == 1 && p.errorProps[0] == wildcardProps {
		for _, m := range rec.Obj {
			if !excluded(m.Key) {
				props = append(props, m.Key)
			}
		}
		return props
	}
	for _, key := range p.errorProps {
		if !excluded(key) {
			props = append(props, key)
		}
	}
	return props
}

// flatten renders every member of obj as indented `key: value` lines.
// excludedMessageKey and, when excludeStandard is set, the standard keys are
// skipped; error-like keys take the stack re-expanding path regardless.
func (p *Prettifier) flatten(sb *strings.Builder, obj Value, excludedMessageKey string, excludeStandard bool, depth int) {
	for _, m := range obj.Obj {
		if p.isErrorLikeKey(m.Key) {
			p.writeErrorLike(sb, m.Key, m.Value, depth)
			continue
		}
		if m.Key == excludedMessageKey && excludedMessageKey != "" {
			continue
		}
		if excludeStandard && isStandardKey(m.Key) {
			continue
		}
		p.writeKeyValue(sb, m.Key, m.Value, depth)
	}
}

// writeKeyValue renders one generic `key: value` line. Continuation lines of
// the serialized value keep their JSON indentation plus the current depth.
func (p *Prettifier) writeKeyValue(sb *strings.Builder, key string, v Value, depth int) {
	prefix := strings.Repeat(indentUnit, depth)
	lines := strings.Split(v.encodeIndent(0), "\n")
	sb.WriteString(prefix)
	sb.WriteString(key)
	sb.WriteString(": ")
	sb.WriteString(lines[0])
	for _, line := range lines[1:] {
		sb.WriteString(p.eol)
		sb.WriteString(prefix)
		sb.WriteString(line)
	}
	sb.WriteString(p.eol)
}

// writeErrorLike serializes v as indented JSON under `key: `, then re-expands
// any `"stack": "..."` line into a real multi-line block aligned with the
// member it came from.
func (p *Prettifier) writeErrorLike(sb *strings.Builder, key string, v Value, depth int) {
	prefix := strings.Repeat(indentUnit, depth)
	lines := strings.Split(v.encodeIndent(0), "\n")
	lines[0] = prefix + key + ": " + lines[0]
	for i := 1; i < len(lines); i++ {
		lines[i] = prefix + lines[i]
	}
	for i, line := range lines {
		m := reStackLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		var stack string
		if err := json.Unmarshal([]byte(m[2]), &stack); err != nil {
			continue
		}
		pad := strings.Repeat(" ", leadingSpaces(line)+len(indentUnit))
		lines[i] = m[1] + p.eol + pad + strings.ReplaceAll(stack, "\n", p.eol+pad)
	}
	sb.WriteString(strings.Join(lines, p.eol))
	sb.WriteString(p.eol)
}

func (p *Prettifier) isErrorLikeKey(key string) bool {
	for _, k := range p.cfg.ErrorLikeObjectKeys {
		if k == key {
			return true
		}
	}
	return false
}

func leadingSpaces(s string) int {
	n := 0
	for n < len(s) && (s[n] == ' ' || s[n] == '\t') {
		n++
	}
	return n
}
