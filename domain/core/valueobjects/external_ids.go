package valueobjects

import "strings"

// PersonaID references a hosted assistant configuration. The platform hands
// out ids with a recognisable prefix; anything else is treated as unusable.
type PersonaID struct {
	value string
}

// NewPersonaID wraps a persona id without validating it
func NewPersonaID(id string) PersonaID {
	return PersonaID{value: strings.TrimSpace(id)}
}

// String returns the raw persona id
func (id PersonaID) String() string {
	return id.value
}

// IsZero reports whether no persona id is set
func (id PersonaID) IsZero() bool {
	return id.value == ""
}

// HasPrefix reports whether the id carries the platform's persona prefix
func (id PersonaID) HasPrefix(prefix string) bool {
	return id.value != "" && strings.HasPrefix(id.value, prefix)
}

// StoreID references a hosted retrieval store
type StoreID struct {
	value string
}

// NewStoreID wraps a store id; blank ids become the zero value
func NewStoreID(id string) StoreID {
	return StoreID{value: strings.TrimSpace(id)}
}

// String returns the raw store id
func (id StoreID) String() string {
	return id.value
}

// IsZero reports whether no store id is set
func (id StoreID) IsZero() bool {
	return id.value == ""
}
