package debug

import (
	"strings"
	"unicode/utf8"
)

// DefaultArgLength is the character limit applied to string arguments.
const DefaultArgLength = 16

var argEscaper = strings.NewReplacer(
	"\t", `\t`,
	"\r", `\r`,
	"\n", `\n`,
	"'", `\'`,
)

// Renderer turns argument values into short previews.
type Renderer struct {
	// MaxLen limits string arguments, in characters. Control characters
	// count like any other.
	// Zero or negative means DefaultArgLength.
	MaxLen int
}

func (r Renderer) maxLen() int {
	if r.MaxLen <= 0 {
		return DefaultArgLength
	}
	return r.MaxLen
}

// Render returns the preview of v. Every Kind has an output; KindOther
// renders as the empty string.
func (r Renderer) Render(v Value) string {
	var sb strings.Builder
	r.write(&sb, v)
	return sb.String()
}

func (r Renderer) write(sb *strings.Builder, v Value) {
	switch v.kind {
	case KindObject:
		sb.WriteString("&")
		sb.WriteString(v.text)
		sb.WriteString("#")
		sb.WriteString(v.id)
		sb.WriteString("#")
	case KindResource:
		sb.WriteString("#[")
		sb.WriteString(v.text)
		sb.WriteString("]")
	case KindSequence:
		sb.WriteString("array(")
		for i, item := range v.items {
			if i > 0 {
				sb.WriteString(", ")
			}
			r.write(sb, item)
		}
		sb.WriteString(")")
	case KindMapping:
		withKeys := !v.isList()
		sb.WriteString("array(")
		for i, e := range v.entries {
			if i > 0 {
				sb.WriteString(", ")
			}
			if withKeys {
				r.write(sb, e.Key)
				sb.WriteString(" => ")
			}
			r.write(sb, e.Value)
		}
		sb.WriteString(")")
	case KindNull:
		sb.WriteString("NULL")
	case KindNumber, KindBool:
		sb.WriteString(v.text)
	case KindString:
		sb.WriteString("'")
		sb.WriteString(argEscaper.Replace(r.truncate(v.text)))
		sb.WriteString("'")
	case KindOther:
	}
}

// truncate cuts s to maxLen runes. The text itself is never rewritten.
func (r Renderer) truncate(s string) string {
	limit := r.maxLen()
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i] + "..."
		}
		n++
	}
	return s
}
