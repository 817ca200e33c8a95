// Package catalog loads the data tables the bot is driven by: the report
// sections and the canned chat replies.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"daily_report_bot/internal/domain/autoreply"
	"daily_report_bot/internal/domain/report"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type Catalog struct {
	Sections    *report.SectionTable
	AutoReplies *autoreply.Table
}

type document struct {
	Sections    []report.Section `yaml:"sections"`
	AutoReplies []autoreply.Rule `yaml:"auto_replies"`
}

// Load reads the catalog from path, or the embedded default when path is empty.
func Load(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
		}
		data = b
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	sections, err := report.NewSectionTable(doc.Sections)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog sections: %w", err)
	}
	replies, err := autoreply.NewTable(doc.AutoReplies)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog auto replies: %w", err)
	}

	return &Catalog{Sections: sections, AutoReplies: replies}, nil
}
