package types

import "fmt"

// Section represents a contiguous span of the collected dossier stream
// attributed to one category, page and source document. Sections are
// transient: they are produced by the parser, consumed by the chunker, and
// never persisted directly.
type Section struct {
	Category   string
	Page       int
	SourceName string
	Text       string
}

// Citation returns the human-readable provenance label for the section.
func (s Section) Citation() string {
	return fmt.Sprintf("%s#%d", s.Category, s.Page)
}
