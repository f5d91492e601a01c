package importer

import "strings"

// Record is one importable row: an arbitrary key-value structure carrying
// name-bearing fields (category, supplier, supermarket) alongside domain
// fields that pass through conversion unchanged.
type Record map[string]interface{}

// Clone returns a shallow copy of the record
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// String returns the record's value for key as a trimmed string, empty when
// the key is absent or not a string.
func (r Record) String(key string) string {
	if v, ok := r[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// nameField reads a name-bearing field with the documented precedence: the
// explicit *_name variant wins over the bare field. The bare field only
// counts when it holds a string; a non-string value there is an identifier
// already and is left alone.
func (r Record) nameField(nameKey, key string) (string, bool) {
	if s := r.String(nameKey); s != "" {
		return s, true
	}
	if v, ok := r[key]; ok {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s), true
		}
	}
	return "", false
}
