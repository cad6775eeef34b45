// Package selection tracks which taxonomy and category the reader picked and
// narrows the record set accordingly.
package selection

import (
	"strings"

	"mandamentos/domain/commandment"
	"mandamentos/internal/errors"
	"mandamentos/internal/policy"
)

// State is the data-relevant view state
type State int

const (
	Unfiltered State = iota
	ModeSelected
	CategorySelected
)

func (s State) String() string {
	switch s {
	case ModeSelected:
		return "mode-selected"
	case CategorySelected:
		return "category-selected"
	default:
		return "unfiltered"
	}
}

// Selection walks unfiltered -> mode-selected -> category-selected.
// The zero value is unfiltered with the default mode.
type Selection struct {
	state    State
	mode     commandment.Mode
	category string
}

// New returns an unfiltered selection
func New() *Selection {
	return &Selection{mode: commandment.DefaultMode}
}

// SelectMode switches taxonomy and drops any selected category. The record
// set itself is untouched.
func (s *Selection) SelectMode(m commandment.Mode) error {
	switch m {
	case commandment.ModeBlocos, commandment.ModeTomos:
	default:
		return errors.InvalidInput("unknown mode " + string(m))
	}
	s.mode = m
	s.category = ""
	s.state = ModeSelected
	return nil
}

// SelectCategory narrows subsequent filtering to title
func (s *Selection) SelectCategory(title string) error {
	if strings.TrimSpace(title) == "" {
		return errors.InvalidInput("category title is empty")
	}
	s.category = title
	s.state = CategorySelected
	return nil
}

// Reset returns to the unfiltered state
func (s *Selection) Reset() {
	*s = Selection{mode: commandment.DefaultMode}
}

func (s *Selection) State() State { return s.state }

// Mode returns the active taxonomy, defaulting to blocks
func (s *Selection) Mode() commandment.Mode {
	if s.mode == "" {
		return commandment.DefaultMode
	}
	return s.mode
}

func (s *Selection) Category() string { return s.category }

// Filter returns the records matching the selected category. Without a
// selected category it returns an empty list.
func (s *Selection) Filter(records []commandment.Commandment, match policy.MatchPolicy) []commandment.Commandment {
	if s.state != CategorySelected {
		return []commandment.Commandment{}
	}
	return Filter(records, s.Mode(), s.category, match)
}

// Filter keeps records whose mode field matches category under match
func Filter(records []commandment.Commandment, mode commandment.Mode, category string, match policy.MatchPolicy) []commandment.Commandment {
	out := make([]commandment.Commandment, 0)
	if strings.TrimSpace(category) == "" {
		return out
	}
	for _, r := range records {
		if Match(r.Category(mode), category, match) {
			out = append(out, r)
		}
	}
	return out
}

// Match compares one record field with the selected category. Exact
// matching compares trimmed values and is case-sensitive; contains matching
// is a case-insensitive substring test on trimmed values.
func Match(field, selected string, match policy.MatchPolicy) bool {
	field = strings.TrimSpace(field)
	selected = strings.TrimSpace(selected)
	if field == "" || selected == "" {
		return false
	}
	if match == policy.MatchContains {
		return strings.Contains(strings.ToLower(field), strings.ToLower(selected))
	}
	return field == selected
}
