package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fencePattern = regexp.MustCompile("```(?:json|JSON)?\\s*([\\s\\S]*?)```")

// StripCodeFence returns the contents of the first fenced code block in
// raw, trimmed. Text without a fence is only trimmed.
func StripCodeFence(raw string) string {
	if m := fencePattern.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(raw)
}

// Sanitize isolates a JSON object from model output that may carry code
// fences or commentary. It returns the span from the first '{' to the
// last '}' when that span is valid JSON, and raw unchanged otherwise so
// the caller's parse fails on the original text.
func Sanitize(raw string) string {
	s := StripCodeFence(raw)
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end < start {
		return raw
	}
	candidate := s[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return raw
	}
	return candidate
}

// SchemaValidator validates a parsed struct after JSON extraction.
// Returns nil if valid, or a descriptive error if invalid.
type SchemaValidator[T any] func(T) error

// ExtractJSON decodes a JSON object of type T from raw model output.
// Sanitize runs first; when its result is not valid JSON the first
// balanced object is repaired by repairJSON before decoding. A non-nil
// validator checks the decoded value.
func ExtractJSON[T any](raw string, validator SchemaValidator[T]) (T, error) {
	var zero T

	jsonStr := Sanitize(raw)
	if !isJSONObject(jsonStr) {
		jsonStr = extractJSONBlock(StripCodeFence(raw))
		if jsonStr == "" {
			return zero, fmt.Errorf("%w: no JSON object found in response", ErrInvalidOutput)
		}
		jsonStr = repairJSON(jsonStr)
	}

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}

	if validator != nil {
		if err := validator(result); err != nil {
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}

	return result, nil
}

// isJSONObject reports whether s is valid JSON whose top-level value is
// an object. Bare null, arrays and scalars are not.
func isJSONObject(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "{") && json.Valid([]byte(s))
}

// stringState tracks whether a byte scan is inside a JSON string.
type stringState struct {
	in, escaped bool
}

// step consumes c and reports whether it belongs to a string literal,
// quotes included.
func (st *stringState) step(c byte) bool {
	switch {
	case st.escaped:
		st.escaped = false
		return true
	case st.in && c == '\\':
		st.escaped = true
		return true
	case c == '"':
		st.in = !st.in
		return true
	}
	return st.in
}

// extractJSONBlock returns the first balanced {...} block in s, or "".
func extractJSONBlock(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}
	var st stringState
	depth := 0
	for i := start; i < len(s); i++ {
		c := s[i]
		if st.step(c) {
			continue
		}
		switch c {
		case '{':
			depth++
		case '}':
			if depth--; depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// repairJSON fixes the non-JSON habits models show outside string
// literals: // and /* */ comments, numbers written as ".5" or "-.5", and
// trailing commas before a closing bracket.
func repairJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	var st stringState

	for i := 0; i < len(s); i++ {
		c := s[i]
		if st.step(c) {
			b.WriteByte(c)
			continue
		}

		switch {
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			for i+1 < len(s) && s[i+1] != '\n' {
				i++
			}
			continue
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			end := strings.Index(s[i+2:], "*/")
			if end == -1 {
				return b.String()
			}
			i += end + 3
			continue
		case c == ',' && closesAfter(s, i+1):
			continue
		case c == '.' && i+1 < len(s) && isDigit(s[i+1]) && isNumericBoundary(lastNonSpace(b.String())):
			b.WriteByte('0')
		}
		b.WriteByte(c)
	}
	return b.String()
}

// closesAfter reports whether the next non-space byte from i closes an
// object or array.
func closesAfter(s string, i int) bool {
	for ; i < len(s); i++ {
		switch s[i] {
		case ' ', '\n', '\r', '\t':
			continue
		case '}', ']':
			return true
		default:
			return false
		}
	}
	return false
}

func lastNonSpace(s string) byte {
	t := strings.TrimRight(s, " \n\r\t")
	if t == "" {
		return 0
	}
	return t[len(t)-1]
}

func isNumericBoundary(c byte) bool {
	switch c {
	case 0, ':', ',', '[', '{', '-':
		return true
	}
	return false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
