package plan

import (
	"strings"
)

// Collector placeholders. %X is filled in during planning; the others
// depend on the emitted code.
const (
	PlaceholderCollector = "%X"
	PlaceholderProperty  = "%P"
	PlaceholderIndex     = "%I"
	PlaceholderKey       = "%K"
)

type hookSite int

const (
	hookProperty hookSite = iota
	hookListItem
	hookMapEntry
)

// hooks returns the collector statements for a nested conversion at site,
// or nil when the contract has no active collector or the collector
// declares nothing for that site.
func (s *scope) hooks(site hookSite) *Hooks {
	c := s.contract
	if !c.HooksEnabled() {
		return nil
	}

	col := c.Context.Collector

	var before, after string

	switch site {
	case hookProperty:
		before, after = col.BeforeProperty, col.AfterProperty
	case hookListItem:
		before, after = col.BeforeListItem, col.AfterListItem
	case hookMapEntry:
		before, after = col.BeforeMapEntry, col.AfterMapEntry
	}

	if before == "" && after == "" {
		return nil
	}

	return &Hooks{
		Before:  strings.ReplaceAll(before, PlaceholderCollector, c.Context.Name),
		After:   strings.ReplaceAll(after, PlaceholderCollector, c.Context.Name),
		Imports: col.Imports,
	}
}
