package util

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// 模型回复开头可能带有 <think>...</think>
var thinkTagPattern = regexp.MustCompile(`(?s)^\s*<think>.*?</think>\s*`)

var errNoJSON = errors.New("no valid JSON object found in response")

// ExtractJSONObject 从模型回复中取出第一个完整的 JSON 对象，容忍思考标签和 Markdown 代码块
func ExtractJSONObject(response string) (string, error) {
	cleaned := thinkTagPattern.ReplaceAllString(response, "")

	if obj, ok := balancedObject(cleaned); ok && json.Valid([]byte(obj)) {
		return obj, nil
	}

	trimmed := strings.TrimSpace(cleaned)
	if strings.HasPrefix(trimmed, "{") && json.Valid([]byte(trimmed)) {
		return trimmed, nil
	}
	return "", errNoJSON
}

func balancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch c {
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
