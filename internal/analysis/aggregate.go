// Package analysis computes the chart datasets: the positive/negative split
// of the mode-of-obligation column and the per-tome histogram.
package analysis

import (
	"sort"
	"strings"

	"mandamentos/domain/commandment"
	"mandamentos/internal/policy"

	"github.com/montanaflynn/stats"
)

// Classifier decides the polarity of a mode-of-obligation value. It is
// total: every input, including empty and unknown codes, gets a polarity.
type Classifier struct {
	rule     policy.PolarityRule
	posCodes map[string]bool
	negCodes map[string]bool
	posWords []string
	negWords []string
}

// NewClassifier folds the rule's codes and keywords for comparison
func NewClassifier(rule policy.PolarityRule) *Classifier {
	return &Classifier{
		rule:     rule,
		posCodes: set(rule.PositiveCodes),
		negCodes: set(rule.NegativeCodes),
		posWords: fold(rule.PositiveKeywords),
		negWords: fold(rule.NegativeKeywords),
	}
}

// Classify returns the polarity of value. Exact codes are checked before
// keywords, and negative keywords before positive ones.
func (c *Classifier) Classify(value string) policy.Polarity {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return c.rule.Empty
	}
	if c.posCodes[v] {
		return policy.Positive
	}
	if c.negCodes[v] {
		return policy.Negative
	}
	for _, w := range c.negWords {
		if strings.Contains(v, w) {
			return policy.Negative
		}
	}
	for _, w := range c.posWords {
		if strings.Contains(v, w) {
			return policy.Positive
		}
	}
	return c.rule.Unknown
}

// IsPositive reports whether value counts on the positive side
func (c *Classifier) IsPositive(value string) bool {
	return c.Classify(value) == policy.Positive
}

// CategoryCount is one histogram bar
type CategoryCount struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

// Spread describes how evenly records are spread over all tome buckets
type Spread struct {
	Buckets int     `json:"buckets"`
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	Max     int     `json:"max"`
}

// Summary feeds both charts
type Summary struct {
	Total         int             `json:"total"`
	Positive      int             `json:"positive"`
	Negative      int             `json:"negative"`
	TopCategories []CategoryCount `json:"top_categories"`
	Spread        Spread          `json:"spread"`
}

// Rules bundles the profile settings the producer needs
type Rules struct {
	Polarity    policy.PolarityRule
	TopN        int
	Placeholder string
}

// RulesFromProfile extracts Rules from a profile
func RulesFromProfile(p *policy.Profile) Rules {
	return Rules{
		Polarity:    p.Polarity,
		TopN:        p.Histogram.TopN,
		Placeholder: p.Histogram.Placeholder,
	}
}

// Aggregate recomputes the full summary for records. It keeps no state
// between calls.
func Aggregate(records []commandment.Commandment, rules Rules) Summary {
	classifier := NewClassifier(rules.Polarity)

	summary := Summary{Total: len(records)}
	for _, r := range records {
		if classifier.IsPositive(r.Type) {
			summary.Positive++
		}
	}
	summary.Negative = summary.Total - summary.Positive

	all := Histogram(records, rules.Placeholder)
	summary.TopCategories = Top(all, rules.TopN)
	summary.Spread = spreadOf(all)
	return summary
}

// Histogram counts records per tome, highest count first. Ties keep the
// order in which each tome was first seen.
func Histogram(records []commandment.Commandment, placeholder string) []CategoryCount {
	index := make(map[string]int)
	counts := make([]CategoryCount, 0)
	for _, r := range records {
		title := strings.TrimSpace(r.Tomo)
		if title == "" {
			title = placeholder
		}
		i, ok := index[title]
		if !ok {
			i = len(counts)
			index[title] = i
			counts = append(counts, CategoryCount{Title: title})
		}
		counts[i].Count++
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// Top keeps the first n histogram bars
func Top(counts []CategoryCount, n int) []CategoryCount {
	if n < 0 || n >= len(counts) {
		n = len(counts)
	}
	out := make([]CategoryCount, n)
	copy(out, counts[:n])
	return out
}

func spreadOf(counts []CategoryCount) Spread {
	if len(counts) == 0 {
		return Spread{}
	}
	data := make(stats.Float64Data, len(counts))
	for i, c := range counts {
		data[i] = float64(c.Count)
	}

	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	max, _ := stats.Max(data)

	return Spread{
		Buckets: len(counts),
		Mean:    mean,
		Median:  median,
		Max:     int(max),
	}
}

func set(values []string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range fold(values) {
		m[v] = true
	}
	return m
}

func fold(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
