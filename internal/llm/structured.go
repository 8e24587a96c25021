package llm

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// SchemaValidator checks a decoded value beyond what struct tags express.
type SchemaValidator[T any] func(T) error

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// ExtractJSON decodes the first JSON object or array in raw model output
// into T. Markdown fences, chatter around the payload, comments and
// leading-dot decimals are tolerated. Struct values are checked against
// their `validate` tags, then against check when it is non-nil.
func ExtractJSON[T any](raw string, check SchemaValidator[T]) (T, error) {
	var zero T

	open := byte('{')
	if isKind(zero, reflect.Slice) {
		open = '['
	}
	payload := firstJSONValue(stripCodeFences(raw), open)
	if payload == "" {
		return zero, fmt.Errorf("%w: no JSON found in response", ErrInvalidOutput)
	}
	payload = cleanJSON(payload)

	var out T
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}

	if isKind(out, reflect.Struct) {
		if err := structValidator.Struct(out); err != nil {
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}
	if check != nil {
		if err := check(out); err != nil {
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}
	return out, nil
}

func isKind(v any, k reflect.Kind) bool {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t != nil && t.Kind() == k
}

// stripCodeFences drops ``` fence lines and keeps everything else.
func stripCodeFences(s string) string {
	var kept []string
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// scanJSON walks s and calls visit for every byte, reporting whether the
// byte sits inside a string literal (quotes and escapes included).
// visit returns how many extra bytes to skip, or -1 to stop.
func scanJSON(s string, visit func(i int, inString bool) int) {
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		quoted := inString
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
			quoted = true
		}
		skip := visit(i, quoted)
		if skip < 0 {
			return
		}
		i += skip
	}
}

// firstJSONValue returns the first balanced block opened by open.
func firstJSONValue(s string, open byte) string {
	start := strings.IndexByte(s, open)
	if start == -1 {
		return ""
	}
	closing := byte('}')
	if open == '[' {
		closing = ']'
	}

	end, depth := -1, 0
	scanJSON(s[start:], func(i int, inString bool) int {
		if inString {
			return 0
		}
		switch s[start+i] {
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				end = start + i + 1
				return -1
			}
		}
		return 0
	})
	if end == -1 {
		return ""
	}
	return s[start:end]
}

// cleanJSON removes // and /* */ comments and rewrites ".5" as "0.5",
// leaving string literals untouched.
func cleanJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	scanJSON(s, func(i int, inString bool) int {
		c := s[i]
		if inString {
			b.WriteByte(c)
			return 0
		}
		if c == '/' && i+1 < len(s) {
			switch s[i+1] {
			case '/':
				if nl := strings.IndexByte(s[i:], '\n'); nl >= 0 {
					return nl - 1
				}
				return len(s)
			case '*':
				if end := strings.Index(s[i+2:], "*/"); end >= 0 {
					return end + 3
				}
				return len(s)
			}
		}
		if c == '.' && i+1 < len(s) && isDigit(s[i+1]) && startsNumber(prevNonSpace(s, i-1)) {
			b.WriteByte('0')
		}
		b.WriteByte(c)
		return 0
	})
	return b.String()
}

func prevNonSpace(s string, i int) byte {
	for ; i >= 0; i-- {
		switch s[i] {
		case ' ', '\n', '\r', '\t':
			continue
		}
		return s[i]
	}
	return 0
}

func startsNumber(c byte) bool {
	return strings.IndexByte("\x00:,[{-", c) >= 0
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
