package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// splitPair splits "key=value" into (key, value, true).
// Returns ("", "", false) if there is no '=' or key is empty.
func splitPair(s string) (string, string, bool) {
	i := strings.IndexByte(s, '=')
	if i <= 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}

// rawOrString returns a json.RawMessage if v looks like a JSON literal
// (object, array, quoted string, boolean, null, or number). Otherwise it
// returns v as a plain Go string so json.Marshal will quote it.
func rawOrString(v string) any {
	if len(v) == 0 {
		return v
	}
	switch v[0] {
	case '{', '[', '"':
		if json.Valid([]byte(v)) {
			return json.RawMessage(v)
		}
	default:
		// true, false, null, or a number
		if v == "true" || v == "false" || v == "null" {
			return json.RawMessage(v)
		}
		if v[0] == '-' || unicode.IsDigit(rune(v[0])) {
			if json.Valid([]byte(v)) {
				return json.RawMessage(v)
			}
		}
	}
	return v // will be JSON-quoted as a string
}

// parseRecordData builds a record value map from --data JSON and/or
// -v key=value pairs. Pairs override keys from the JSON document.
func parseRecordData(dataJSON string, pairs []string) (map[string]any, error) {
	m := map[string]any{}
	if dataJSON != "" {
		if err := json.Unmarshal([]byte(dataJSON), &m); err != nil {
			return nil, fmt.Errorf("parsing --data: %w", err)
		}
	}
	for _, p := range pairs {
		k, v, ok := splitPair(p)
		if !ok {
			return nil, fmt.Errorf("invalid value %q: expected key=value", p)
		}
		m[k] = rawOrString(v)
	}
	return m, nil
}
