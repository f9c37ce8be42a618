package capability

import (
	"strings"
)

// ParseReply interprets the model's raw text reply. Replies that use
// neither prefix are rejected as malformed rather than guessed at.
func ParseReply(text string) (*Response, error) {
	trimmed := strings.TrimSpace(text)

	switch {
	case strings.HasPrefix(trimmed, PrefixResolved):
		body := trimCode(text[strings.Index(text, PrefixResolved)+len(PrefixResolved):])
		return &Response{Resolvable: true, ResolvedText: body}, nil

	case strings.HasPrefix(trimmed, PrefixCannotResolve):
		explanation := strings.TrimSpace(trimmed[len(PrefixCannotResolve):])
		return &Response{Resolvable: false, Explanation: explanation}, nil

	case trimmed == "":
		return nil, &Error{Class: ClassMalformed, Message: "empty reply"}

	default:
		return nil, &Error{
			Class:   ClassMalformed,
			Message: "reply starts with neither " + PrefixResolved + " nor " + PrefixCannotResolve,
		}
	}
}

// trimCode drops blank lines before the code and trailing whitespace after
// it, keeping the indentation of the first line. A single Markdown fence
// wrapping the whole body is removed.
func trimCode(body string) string {
	// Code on the prefix line itself carries the separating space.
	if first := strings.TrimLeft(body, " \t"); !strings.HasPrefix(first, "\n") && !strings.HasPrefix(first, "\r\n") {
		body = first
	}
	body = strings.TrimRight(body, " \t\r\n")
	for {
		i := strings.IndexByte(body, '\n')
		if i < 0 {
			if strings.TrimSpace(body) == "" {
				return ""
			}
			break
		}
		if strings.TrimSpace(body[:i]) != "" {
			break
		}
		body = body[i+1:]
	}
	return stripFence(body)
}

func stripFence(body string) string {
	if !strings.HasPrefix(strings.TrimLeft(body, " \t"), "```") {
		return body
	}
	lines := strings.Split(body, "\n")
	if len(lines) < 2 || strings.TrimSpace(strings.TrimRight(lines[len(lines)-1], "\r")) != "```" {
		return body
	}
	inner := strings.Join(lines[1:len(lines)-1], "\n")
	return strings.TrimRight(inner, " \t\r\n")
}
