package entities

import (
	"encoding/json"
	"fmt"
)

// Collection names known to the record store.
const (
	CollectionSystem   = "system"
	CollectionQuran    = "quran"
	CollectionProducts = "products"
	CollectionVideos   = "videos"
	CollectionOrders   = "orders"
	CollectionUsers    = "users"
	CollectionCart     = "cart"
	CollectionKhatm    = "khatm"
)

// KnownCollections is the fixed set of collections created on first use.
var KnownCollections = []string{
	CollectionSystem,
	CollectionQuran,
	CollectionProducts,
	CollectionVideos,
	CollectionOrders,
	CollectionUsers,
	CollectionCart,
	CollectionKhatm,
}

// IsKnownCollection reports whether name is one of KnownCollections.
func IsKnownCollection(name string) bool {
	for _, c := range KnownCollections {
		if c == name {
			return true
		}
	}
	return false
}

// Record is a schemaless document keyed by its "id" attribute.
type Record map[string]any

// ID returns the record's id, or "" when it is missing or not a string.
func (r Record) ID() string {
	if r == nil {
		return ""
	}
	id, _ := r["id"].(string)
	return id
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	data, err := json.Marshal(r)
	if err != nil {
		// Records only ever hold JSON-decoded values, fall back to a shallow copy.
		out := make(Record, len(r))
		for k, v := range r {
			out[k] = v
		}
		return out
	}
	var out Record
	_ = json.Unmarshal(data, &out)
	return out
}

// Decode fills v (a pointer to a domain struct) from the record.
func (r Record) Decode(v any) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode record %q: %w", r.ID(), err)
	}
	return nil
}

// ToRecord converts a domain struct into a Record via its JSON form.
func ToRecord(v any) (Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %T: %w", v, err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to convert %T to record: %w", v, err)
	}
	return rec, nil
}
