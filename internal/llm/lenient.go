package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RecoverJSONObject returns the JSON object carried in model output,
// tolerating the usual noise around the body. Strict parse first; if the
// content as a whole is not valid JSON, recover the first brace-delimited
// object substring (markdown fences, leading prose) and verify it parses.
// Both failing is a hard error for the caller to degrade on.
func RecoverJSONObject(content string) ([]byte, error) {
	content = strings.TrimSpace(content)
	if json.Valid([]byte(content)) && strings.HasPrefix(content, "{") {
		return []byte(content), nil
	}
	obj, ok := firstJSONObject(content)
	if !ok {
		return nil, fmt.Errorf("no JSON object found in model output")
	}
	if !json.Valid([]byte(obj)) {
		return nil, fmt.Errorf("recovered substring is not valid JSON")
	}
	return []byte(obj), nil
}

// DecodeLenient recovers the JSON object in content and unmarshals it into v.
func DecodeLenient(content string, v any) error {
	obj, err := RecoverJSONObject(content)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(obj, v); err != nil {
		return fmt.Errorf("decode recovered object: %w", err)
	}
	return nil
}

// firstJSONObject returns the substring from the first '{' to its matching
// closing brace, skipping braces inside string literals.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
