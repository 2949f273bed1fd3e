package letter

// Item is one substitution slot a letter or notification template may
// reference: a key and the letter section it belongs to.
type Item struct {
	Key     string
	Section string
}

// Letter sections.
const (
	SectionHeader = "HEADER"
	SectionMain   = "MAIN"
	SectionFooter = "FOOTER"
)

// ItemSet enumerates the substitution keys a template formatter recognizes.
// It is built once and passed by reference; there is no package-level
// mutable state.
type ItemSet struct {
	items map[string]Item
}

// NewItemSet builds a set from explicit items.
func NewItemSet(items ...Item) *ItemSet {
	set := &ItemSet{items: make(map[string]Item, len(items))}
	for _, it := range items {
		set.items[it.Key] = it
	}
	return set
}

// DefaultItemSet returns the standard sales-letter item table.
func DefaultItemSet() *ItemSet {
	return NewItemSet(
		Item{Key: "EMPLOYEENAME", Section: SectionHeader},
		Item{Key: "EMPLOYEELEGALNAME", Section: SectionHeader},
		Item{Key: "HRMANAGERNAME", Section: SectionHeader},
		Item{Key: "MANAGERLEGALNAME", Section: SectionHeader},
		Item{Key: "HRJOBTITLE", Section: SectionHeader},
		Item{Key: "SALESROLE", Section: SectionHeader},
		Item{Key: "EFFECTIVESTARTDATE", Section: SectionMain},
		Item{Key: "EFFECTIVEENDDATE", Section: SectionMain},
		Item{Key: "RELEASEDATE", Section: SectionMain},
		Item{Key: "MEASUREPERIOD", Section: SectionMain},
		Item{Key: "PERIODLENG", Section: SectionMain},
		Item{Key: "SALESMETRICQUOTA", Section: SectionMain},
		Item{Key: "QUOTACOVERAGETYPE", Section: SectionMain},
		Item{Key: "SERVICEGROUPNAME", Section: SectionMain},
		Item{Key: "SLSSPFCMANAGERNAME", Section: SectionFooter},
	)
}

// Contains reports whether the set recognizes the key.
func (s *ItemSet) Contains(key string) bool {
	_, ok := s.items[key]
	return ok
}

// Section returns the section for a key, or the empty string when unknown.
func (s *ItemSet) Section(key string) string {
	return s.items[key].Section
}

// Len returns the number of items in the set.
func (s *ItemSet) Len() int {
	return len(s.items)
}
