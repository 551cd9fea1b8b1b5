package onboarding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var agePattern = regexp.MustCompile(`\d{1,3}`)

// ExtractAnswer maps a raw answer payload to a typed value for the target
// field, or nil when nothing usable can be parsed. The payload may carry the
// field under its own name or free text under "response"; the field-named
// key wins. Malformed input yields nil, never an error.
func ExtractAnswer(field string, answer map[string]any) any {
	switch field {
	case "age":
		// First 1-3 digit run wins, even if a later run would be a
		// better guess ("room 12, I am 34" parses as 12).
		m := agePattern.FindString(answerText(field, answer))
		if m == "" {
			return nil
		}
		age, err := strconv.Atoi(m)
		if err != nil {
			return nil
		}
		return age
	case "biological_sex":
		val := strings.ToLower(answerText(field, answer))
		// "female" contains "male", so the more specific match must be
		// tested first.
		switch {
		case strings.Contains(val, "female"):
			return "female"
		case strings.Contains(val, "male"):
			return "male"
		case strings.Contains(val, "other"):
			return "other"
		}
		return nil
	default:
		v, ok := answer[field]
		if !ok {
			return nil
		}
		return v
	}
}

func answerText(field string, answer map[string]any) string {
	if v, ok := answer[field]; ok {
		return toText(v)
	}
	if v, ok := answer["response"]; ok {
		return toText(v)
	}
	return ""
}

func toText(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
