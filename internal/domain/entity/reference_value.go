package entity

// ReferenceValueCategory is a generic code table: a named category owning an
// ordered set of reference values.
type ReferenceValueCategory struct {
	CategoryID   int64
	CategoryName string
	Values       []ReferenceValue
}

// ReferenceValue is one (code, name, id) tuple within a category. Codes are
// unique within their category and lookups are exact-match.
type ReferenceValue struct {
	ReferenceValueID int64
	CategoryID       int64
	Code             string
	Name             string
	SortOrder        int
}

// ValueByCode returns the reference value with the given code, or nil when
// the category holds no such code.
func (c *ReferenceValueCategory) ValueByCode(code string) *ReferenceValue {
	for i := range c.Values {
		if c.Values[i].Code == code {
			return &c.Values[i]
		}
	}
	return nil
}

// ValueByName returns the reference value with the given display name, or nil.
// The explicit-addressing notification flow resolves its target status this
// way rather than by code.
func (c *ReferenceValueCategory) ValueByName(name string) *ReferenceValue {
	for i := range c.Values {
		if c.Values[i].Name == name {
			return &c.Values[i]
		}
	}
	return nil
}
