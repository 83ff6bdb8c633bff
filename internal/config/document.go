package config

// Entry is a single raw key/value pair inside a section. Values are kept as
// the raw strings the file supplied; typing happens later, against the
// target symbol's declared parameters.
type Entry struct {
	Key   string
	Value string
}

// Section is one named block of configuration entries, in file order.
type Section struct {
	Name    string
	Entries []Entry
}

// Get returns the raw value for key and whether it was present.
func (s *Section) Get(key string) (string, bool) {
	for _, e := range s.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Has reports whether the section contains key.
func (s *Section) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Values returns the section's entries as a map. Iteration order is lost;
// callers that care about order walk Entries directly.
func (s *Section) Values() map[string]string {
	out := make(map[string]string, len(s.Entries))
	for _, e := range s.Entries {
		out[e.Key] = e.Value
	}
	return out
}

// Document is an entire run configuration in declaration order. Section
// names and keys are unique within a document; a loader that permits
// duplicates keeps the last occurrence.
type Document struct {
	Sections []*Section
}

// Section returns the named section, or nil if the document has none.
func (d *Document) Section(name string) *Section {
	for _, s := range d.Sections {
		if s.Name == name {
			return s
		}
	}
	return nil
}
