package report

import (
	"fmt"
	"strings"
)

// Section is an organizational category a report is filed under.
type Section struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}

// SectionTable is the ordered, fixed list of sections offered to members.
type SectionTable struct {
	sections []Section
	labels   map[string]string
}

func NewSectionTable(sections []Section) (*SectionTable, error) {
	if len(sections) == 0 {
		return nil, fmt.Errorf("section table is empty")
	}
	t := &SectionTable{
		sections: make([]Section, 0, len(sections)),
		labels:   make(map[string]string, len(sections)),
	}
	for i, s := range sections {
		id := strings.TrimSpace(s.ID)
		if id == "" || strings.TrimSpace(s.Label) == "" {
			return nil, fmt.Errorf("section #%d: id and label are required", i+1)
		}
		if _, dup := t.labels[id]; dup {
			return nil, fmt.Errorf("duplicate section id %q", id)
		}
		t.labels[id] = s.Label
		t.sections = append(t.sections, Section{ID: id, Label: s.Label})
	}
	return t, nil
}

// All returns the sections in menu order.
func (t *SectionTable) All() []Section {
	out := make([]Section, len(t.sections))
	copy(out, t.sections)
	return out
}

// Label returns the display label for id. Unknown ids are their own label.
func (t *SectionTable) Label(id string) string {
	if l, ok := t.labels[id]; ok {
		return l
	}
	return id
}

// Has reports whether id is a known section.
func (t *SectionTable) Has(id string) bool {
	_, ok := t.labels[id]
	return ok
}
