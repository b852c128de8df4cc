package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// <Name attr="v" other={'v'} flag /> ; may span lines.
	reComponent = regexp.MustCompile(`<([A-Z][A-Za-z0-9]*)((?:\s+[A-Za-z_][-A-Za-z0-9_]*(?:\s*=\s*(?:"[^"]*"|'[^']*'|\{[^}]*\}))?)*)\s*/>`)
	reAttr      = regexp.MustCompile(`([A-Za-z_][-A-Za-z0-9_]*)(?:\s*=\s*(?:"([^"]*)"|'([^']*)'|\{([^}]*)\}))?`)

	// import X from './x' / import { a, b } from "y" / import './side-effect'
	reImport = regexp.MustCompile(`^import\s+(?:[\w$*{}\s,]+?\s+from\s+)?['"][^'"]+['"]\s*;?\s*$`)
	// export const / function / default / { ... } / * from
	reExport = regexp.MustCompile(`^export\s+(?:(?:const|let|var|function|class|async)\s|default\s|\{|\*)`)
)

// expand strips MDX import/export statements and replaces registered
// component tags with HTML. Fenced code blocks and inline code spans are
// left untouched.
func (c *Compiler) expand(src []byte, ctx Context) []byte {
	lines := strings.Split(string(src), "\n")
	var out strings.Builder
	var prose strings.Builder
	fence := ""
	// ESM statements only start a block, never continue a paragraph.
	blockStart := true
	esmDepth := 0

	flushProse := func() {
		if prose.Len() == 0 {
			return
		}
		out.WriteString(c.expandComponents(prose.String(), ctx))
		prose.Reset()
	}

	for _, raw := range lines {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)
		if fence != "" {
			out.WriteString(line)
			out.WriteString("\n")
			if strings.HasPrefix(trimmed, fence) {
				fence = ""
				blockStart = true
			}
			continue
		}
		if esmDepth > 0 {
			esmDepth += braceDelta(line)
			continue
		}
		if marker := fenceMarker(trimmed); marker != "" {
			flushProse()
			fence = marker
			out.WriteString(line)
			out.WriteString("\n")
			continue
		}
		if blockStart && isESMLine(line) {
			if strings.HasPrefix(line, "export") {
				esmDepth = max(braceDelta(line), 0)
			}
			continue
		}
		prose.WriteString(line)
		prose.WriteString("\n")
		blockStart = trimmed == ""
	}
	flushProse()
	return []byte(strings.TrimSuffix(out.String(), "\n"))
}

func fenceMarker(trimmed string) string {
	switch {
	case strings.HasPrefix(trimmed, "```"):
		return "```"
	case strings.HasPrefix(trimmed, "~~~"):
		return "~~~"
	}
	return ""
}

// isESMLine reports whether line is a top-level MDX import or export
// statement rather than prose that happens to start with those words.
func isESMLine(line string) bool {
	return reImport.MatchString(line) || reExport.MatchString(line)
}

func braceDelta(line string) int {
	return strings.Count(line, "{") - strings.Count(line, "}")
}

// expandComponents replaces component tags in text, copying inline code
// spans through verbatim.
func (c *Compiler) expandComponents(text string, ctx Context) string {
	var out strings.Builder
	for text != "" {
		i := strings.IndexByte(text, '`')
		if i < 0 {
			out.WriteString(c.replaceComponents(text, ctx))
			break
		}
		out.WriteString(c.replaceComponents(text[:i], ctx))
		text = text[i:]
		n := backtickRun(text)
		end := closingBackticks(text[n:], n)
		if end < 0 {
			// Unmatched run; the backticks are literal.
			out.WriteString(text[:n])
			text = text[n:]
			continue
		}
		span := n + end + n
		out.WriteString(text[:span])
		text = text[span:]
	}
	return out.String()
}

func (c *Compiler) replaceComponents(text string, ctx Context) string {
	return reComponent.ReplaceAllStringFunc(text, func(m string) string {
		match := reComponent.FindStringSubmatch(m)
		fn, ok := c.components[match[1]]
		if !ok {
			return ""
		}
		// Surrounding blank lines make goldmark treat the output as an HTML block.
		return "\n\n" + fn(parseAttrs(match[2]), ctx) + "\n\n"
	})
}

func backtickRun(s string) int {
	n := 0
	for n < len(s) && s[n] == '`' {
		n++
	}
	return n
}

// closingBackticks returns the offset in s of a backtick run exactly n long,
// or -1. Code spans end at a blank line.
func closingBackticks(s string, n int) int {
	if p := strings.Index(s, "\n\n"); p >= 0 {
		s = s[:p]
	}
	for j := 0; j < len(s); {
		k := strings.IndexByte(s[j:], '`')
		if k < 0 {
			return -1
		}
		k += j
		m := backtickRun(s[k:])
		if m == n {
			return k
		}
		j = k + m
	}
	return -1
}

func parseAttrs(s string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range reAttr.FindAllStringSubmatch(s, -1) {
		name := m[1]
		switch {
		case m[2] != "" || strings.Contains(m[0], `""`):
			attrs[name] = m[2]
		case m[3] != "" || strings.Contains(m[0], `''`):
			attrs[name] = m[3]
		case m[4] != "":
			if v, ok := jsxLiteral(m[4]); ok {
				attrs[name] = v
			}
		case !strings.Contains(m[0], "="):
			attrs[name] = "true"
		}
	}
	return attrs
}

// jsxLiteral evaluates the only expressions worth supporting in content
// files: quoted strings and plain numbers.
func jsxLiteral(expr string) (string, bool) {
	expr = strings.TrimSpace(expr)
	if len(expr) >= 2 {
		q := expr[0]
		if (q == '"' || q == '\'' || q == '`') && expr[len(expr)-1] == q {
			return expr[1 : len(expr)-1], true
		}
	}
	if _, err := strconv.ParseFloat(expr, 64); err == nil {
		return expr, true
	}
	return "", false
}
