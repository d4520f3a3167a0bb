package ai

import (
    "encoding/json"
    "reflect"
    "strings"

    "github.com/rs/zerolog/log"
)

// DecodeJSON parses model output into v. Markdown code fences are stripped.
// Unparseable content leaves v at its zero value and reports false.
func DecodeJSON(text string, v any) bool {
    s := StripFences(text)
    if s == "" {
        return false
    }
    if err := json.Unmarshal([]byte(s), v); err != nil {
        if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && !rv.IsNil() {
            rv.Elem().Set(reflect.Zero(rv.Elem().Type()))
        }
        log.Warn().Err(err).Int("chars", len(s)).Msg("model returned unparseable JSON")
        return false
    }
    return true
}

// StripFences removes a surrounding ``` or ```json block.
func StripFences(text string) string {
    s := strings.TrimSpace(text)
    if !strings.HasPrefix(s, "```") {
        return s
    }
    s = strings.TrimPrefix(s, "```")
    if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.ContainsAny(s[:i], "{[") {
        s = s[i+1:]
    }
    s = strings.TrimSuffix(strings.TrimSpace(s), "```")
    return strings.TrimSpace(s)
}
