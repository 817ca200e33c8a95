// Package autoreply holds the canned replies sent for exact-text chat messages.
package autoreply

import "fmt"

type Rule struct {
	Trigger string `yaml:"trigger"`
	Reply   string `yaml:"reply"`
}

type Table struct {
	replies map[string]string
}

func NewTable(rules []Rule) (*Table, error) {
	t := &Table{replies: make(map[string]string, len(rules))}
	for _, r := range rules {
		if r.Trigger == "" || r.Reply == "" {
			return nil, fmt.Errorf("auto reply rule needs both trigger and reply (trigger %q)", r.Trigger)
		}
		if _, dup := t.replies[r.Trigger]; dup {
			return nil, fmt.Errorf("duplicate auto reply trigger %q", r.Trigger)
		}
		t.replies[r.Trigger] = r.Reply
	}
	return t, nil
}

// Match returns the reply for content. Only an exact match triggers.
func (t *Table) Match(content string) (string, bool) {
	if t == nil {
		return "", false
	}
	reply, ok := t.replies[content]
	return reply, ok
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.replies)
}
