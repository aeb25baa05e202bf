package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Key/value pairs run through a redaction pass before reaching zap so
// credentials never land in log output. Disable with LOG_REDACTION_ENABLED=0
// when debugging locally.

var (
	redactOnce sync.Once
	redactOn   bool
)

var sensitiveKeyParts = []string{
	"token",
	"authorization",
	"password",
	"secret",
	"api_key",
	"apikey",
	"cookie",
}

func redactKVs(kv []interface{}) []interface{} {
	if len(kv) == 0 || !redactionEnabled() {
		return kv
	}
	out := make([]interface{}, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			// Dangling key with no value; pass through.
			out = append(out, kv[i])
			break
		}
		out = append(out, kv[i], redactValue(keyString(kv[i]), kv[i+1]))
	}
	return out
}

func redactValue(key string, val interface{}) interface{} {
	if sensitiveKey(key) {
		return "[REDACTED]"
	}
	if s, ok := val.(string); ok && looksLikeJWT(s) {
		return "[REDACTED]"
	}
	return val
}

func sensitiveKey(key string) bool {
	for _, part := range sensitiveKeyParts {
		if strings.Contains(key, part) {
			return true
		}
	}
	return false
}

// looksLikeJWT catches tokens logged under innocuous keys.
func looksLikeJWT(s string) bool {
	parts := strings.Split(s, ".")
	return len(parts) == 3 && len(parts[0]) > 10 && len(parts[1]) > 10
}

func keyString(v interface{}) string {
	if s, ok := v.(string); ok {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return strings.ToLower(strings.TrimSpace(fmt.Sprint(v)))
}

func redactionEnabled() bool {
	redactOnce.Do(func() {
		switch strings.TrimSpace(strings.ToLower(os.Getenv("LOG_REDACTION_ENABLED"))) {
		case "0", "false", "no", "off":
			redactOn = false
		default:
			redactOn = true
		}
	})
	return redactOn
}
