package analysis

import (
	"testing"

	"mandamentos/domain/commandment"
	"mandamentos/internal/policy"

	"github.com/stretchr/testify/assert"
)

func withTomos(values ...string) []commandment.Commandment {
	out := make([]commandment.Commandment, len(values))
	for i, v := range values {
		out[i] = commandment.Commandment{Tomo: v}
	}
	return out
}

func TestHistogramCountsAndOrder(t *testing.T) {
	got := Histogram(withTomos("A", "B", "A", "C", "A", "B"), "Outros")
	assert.Equal(t, []CategoryCount{{"A", 3}, {"B", 2}, {"C", 1}}, got)
}

func TestHistogramTiesKeepFirstSeenOrder(t *testing.T) {
	got := Histogram(withTomos("X", "Y", "Y", "X", "Z"), "Outros")
	assert.Equal(t, []CategoryCount{{"X", 2}, {"Y", 2}, {"Z", 1}}, got)
}

func TestHistogramPlaceholder(t *testing.T) {
	got := Histogram(withTomos("", "  ", "A"), "Outros")
	assert.Equal(t, []CategoryCount{{"Outros", 2}, {"A", 1}}, got)
}

func TestTopFive(t *testing.T) {
	records := withTomos("a", "b", "c", "d", "e", "f", "g", "g")
	summary := Aggregate(records, RulesFromProfile(policy.MustLoad("current")))

	assert.Len(t, summary.TopCategories, 5)
	assert.Equal(t, CategoryCount{"g", 2}, summary.TopCategories[0])
	assert.Equal(t, "d", summary.TopCategories[4].Title)
	assert.Equal(t, 7, summary.Spread.Buckets)
	assert.Equal(t, 2, summary.Spread.Max)
}

func TestTopBounds(t *testing.T) {
	counts := []CategoryCount{{"a", 1}}
	assert.Len(t, Top(counts, 5), 1)
	assert.Len(t, Top(counts, 0), 0)
	assert.Len(t, Top(nil, 5), 0)
}

func TestClassifierCurrentProfile(t *testing.T) {
	c := NewClassifier(policy.MustLoad("current").Polarity)

	cases := map[string]policy.Polarity{
		"P":                 policy.Positive,
		" p ":               policy.Positive,
		"Positivo (Fazer)":  policy.Positive,
		"Obrigação":         policy.Positive,
		"N":                 policy.Negative,
		"Negativo":          policy.Negative,
		"Proibição":         policy.Negative,
		"M":                 policy.Negative,
		"":                  policy.Negative,
		"sem classificação": policy.Negative,
	}
	for in, want := range cases {
		assert.Equal(t, want, c.Classify(in), "value %q", in)
	}
}

func TestClassifierLegacyProfile(t *testing.T) {
	c := NewClassifier(policy.MustLoad("legacy").Polarity)

	assert.True(t, c.IsPositive(""))
	assert.True(t, c.IsPositive("p"))
	assert.True(t, c.IsPositive("mandamento positivo"))
	assert.True(t, c.IsPositive("obrigação"))
	assert.False(t, c.IsPositive("M"))
	assert.False(t, c.IsPositive("N"))
}

func TestAggregateSheetScenario(t *testing.T) {
	records := []commandment.Commandment{
		{Block: "Deus", Type: "M", Mode: "M", Tomo: "Geral"},
		{Block: "Lei", Type: "P", Mode: "P", Tomo: "Geral"},
	}

	for _, name := range []string{"current", "legacy"} {
		s := Aggregate(records, RulesFromProfile(policy.MustLoad(name)))
		assert.Equal(t, 2, s.Total, name)
		assert.Equal(t, 1, s.Positive, name)
		assert.Equal(t, 1, s.Negative, name)
	}
}

func TestClassifierEmptyPolarityFollowsProfile(t *testing.T) {
	assert.False(t, NewClassifier(policy.MustLoad("current").Polarity).IsPositive(""))
	assert.True(t, NewClassifier(policy.MustLoad("legacy").Polarity).IsPositive(""))
}

func TestAggregateDefaultedModeCountsNegative(t *testing.T) {
	// a blank M/P cell reaches the producer as the "-" default
	records := []commandment.Commandment{{Mode: "-", Type: "-"}, {Mode: "-", Type: "-"}}

	for _, name := range []string{"current", "legacy"} {
		s := Aggregate(records, RulesFromProfile(policy.MustLoad(name)))
		assert.Equal(t, 0, s.Positive, name)
		assert.Equal(t, 2, s.Negative, name)
	}
}

func TestAggregateSpread(t *testing.T) {
	s := Aggregate(withTomos("A", "B", "A", "C", "A", "B"), RulesFromProfile(policy.MustLoad("current")))
	assert.Equal(t, Spread{Buckets: 3, Mean: 2, Median: 2, Max: 3}, s.Spread)
}

func TestAggregateEmptyAndIdempotent(t *testing.T) {
	rules := RulesFromProfile(policy.MustLoad("current"))

	empty := Aggregate(nil, rules)
	assert.Equal(t, 0, empty.Total)
	assert.Empty(t, empty.TopCategories)
	assert.Equal(t, Spread{}, empty.Spread)

	records := withTomos("A", "B", "A")
	assert.Equal(t, Aggregate(records, rules), Aggregate(records, rules))
}
