package domain

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// StringList decodes a JSON array column into a string slice.
// Malformed or empty columns decode to nil.
func StringList(j datatypes.JSON) []string {
	if len(j) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(j, &out); err != nil {
		return nil
	}
	return out
}

// UUIDList decodes a JSON array column into uuid values, skipping entries
// that do not parse.
func UUIDList(j datatypes.JSON) []uuid.UUID {
	var out []uuid.UUID
	for _, s := range StringList(j) {
		id, err := uuid.Parse(s)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}

// MustJSON encodes v into a JSON column; encode failures yield an empty
// array so a bad value never poisons a row write.
func MustJSON(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(b)
}

// UUIDStrings stringifies ids for JSON columns and graph parameters.
func UUIDStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
