package generator

import (
	"regexp"
	"strings"
)

// PrefixLines prepends prefix to the first line of text and to every line
// that follows an embedded newline. Empty lines after the first, including
// the one implied by a trailing newline, are left unprefixed.
func PrefixLines(text, prefix string) string {
	var sb strings.Builder
	sb.Grow(len(text) + len(prefix)*(strings.Count(text, "\n")+1))
	sb.WriteString(prefix)
	for i := 0; i < len(text); i++ {
		sb.WriteByte(text[i])
		if text[i] == '\n' && i+1 < len(text) && text[i+1] != '\n' {
			sb.WriteString(prefix)
		}
	}
	return sb.String()
}

var (
	leadingBlankLines  = regexp.MustCompile(`^\s*\n`)
	trailingBlankLines = regexp.MustCompile(`\n\s+$`)
	trailingSpaces     = regexp.MustCompile(`[ \t]+\n`)
)

// normalize cleans up the assembled program text.
func normalize(code string) string {
	if strings.TrimSpace(code) == "" {
		return ""
	}
	code = leadingBlankLines.ReplaceAllString(code, "")
	code = trailingBlankLines.ReplaceAllString(code, "\n")
	if !strings.HasSuffix(code, "\n") {
		code += "\n"
	}
	return trailingSpaces.ReplaceAllString(code, "\n")
}
