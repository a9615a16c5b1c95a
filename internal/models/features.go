package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Features is open-ended product metadata: feature name -> presence flag.
// There is no fixed schema; ingestion and API clients may add any key.
// Values are accepted "boolean-ish" (true, 1, "sim", non-empty strings) and stored as booleans.
type Features map[string]bool

// Enabled returns the names of present features in sorted order
func (f Features) Enabled() []string {
	names := make([]string, 0, len(f))
	for name, present := range f {
		if present {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// UnmarshalJSON accepts any JSON object and coerces each value to a presence flag
func (f *Features) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("features must be a JSON object: %w", err)
	}
	if raw == nil {
		*f = nil
		return nil
	}

	out := make(Features, len(raw))
	for name, v := range raw {
		out[name] = truthy(v)
	}
	*f = out
	return nil
}

// Value stores features as a jsonb object
func (f Features) Value() (driver.Value, error) {
	if f == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]bool(f))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan reads a jsonb object
func (f *Features) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*f = Features{}
		return nil
	case []byte:
		return f.UnmarshalJSON(v)
	case string:
		return f.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("cannot scan %T into Features", src)
	}
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "", "false", "0", "nao", "não", "no":
			return false
		}
		return true
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	default:
		return true
	}
}
