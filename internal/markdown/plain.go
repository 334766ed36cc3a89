// Package markdown flattens the Markdown that assistant replies often carry
// into text that reads well in a terminal.
package markdown

import (
	"regexp"
	"strings"
)

var (
	codeFence    = regexp.MustCompile("(?m)^```[^\n]*\n?")
	inlineCode   = regexp.MustCompile("`([^`]+)`")
	images       = regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`)
	links        = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headings     = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	strong       = regexp.MustCompile(`(\*\*|__)(\S(?:.*?\S)?)(\*\*|__)`)
	emphasis     = regexp.MustCompile(`(^|[^\w*])[*_](\S(?:[^*_\n]*\S)?)[*_]([^\w*]|$)`)
	blockquote   = regexp.MustCompile(`(?m)^>\s?`)
	rule         = regexp.MustCompile(`(?m)^\s*[-*_]{3,}\s*$`)
	bullet       = regexp.MustCompile(`(?m)^(\s*)[-*+]\s+`)
	multiNewline = regexp.MustCompile(`\n{3,}`)
)

// Plain removes Markdown syntax from s. Bullets become "• ", links keep
// their text, and code keeps its content without the fences. Numbered lists
// are left as they are.
func Plain(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = codeFence.ReplaceAllString(s, "")
	s = inlineCode.ReplaceAllString(s, "$1")
	s = images.ReplaceAllString(s, "$1")
	s = links.ReplaceAllString(s, "$1")
	s = headings.ReplaceAllString(s, "")
	s = rule.ReplaceAllString(s, "")
	s = bullet.ReplaceAllString(s, "$1• ")
	s = strong.ReplaceAllString(s, "$2")
	s = emphasis.ReplaceAllString(s, "$1$2$3")
	s = blockquote.ReplaceAllString(s, "")
	s = multiNewline.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
