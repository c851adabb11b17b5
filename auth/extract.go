package auth

import (
	"strconv"
)

// TokenRule reads a token from a decoded response body. It returns "" when
// the shape does not match.
type TokenRule func(data map[string]interface{}) string

// TokenRules are tried in order by ExtractToken; the first non-empty result
// wins.
var TokenRules = []TokenRule{
	field("token"),
	field("accessToken"),
	nested("data", "token"),
	nested("data", "accessToken"),
}

// ExtractToken returns the auth token of a decoded response body, or "" if
// none of TokenRules match. Strings and other non-object bodies yield "".
func ExtractToken(data interface{}) string {
	obj, ok := data.(map[string]interface{})
	if !ok {
		return ""
	}
	for _, rule := range TokenRules {
		if token := rule(obj); token != "" {
			return token
		}
	}
	return ""
}

func field(key string) TokenRule {
	return func(data map[string]interface{}) string {
		return tokenString(data[key])
	}
}

func nested(outer, key string) TokenRule {
	return func(data map[string]interface{}) string {
		inner, ok := data[outer].(map[string]interface{})
		if !ok {
			return ""
		}
		return tokenString(inner[key])
	}
}

// tokenString keeps only truthy scalars.
func tokenString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == 0 {
			return ""
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "true"
		}
	}
	return ""
}
