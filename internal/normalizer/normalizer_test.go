package normalizer

import (
	"testing"

	"mandamentos/domain/commandment"
	"mandamentos/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// row builds a RawRow from alternating header, value arguments
func row(pairs ...string) commandment.RawRow {
	r := make(commandment.RawRow, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		r = append(r, commandment.Cell{Header: pairs[i], Value: pairs[i+1]})
	}
	return r
}

func TestNormalizeHeader(t *testing.T) {
	for _, h := range []string{"Bloco", " bloco ", "BLOCO", "\tBloco\n"} {
		assert.Equal(t, "bloco", NormalizeHeader(h), "header %q", h)
	}
	// decomposed c-cedilla and a-tilde compose before comparison
	assert.Equal(t, "se\u00e7\u00e3o", NormalizeHeader("Sec\u0327a\u0303o"))
}

func TestNormalizeSheetScenario(t *testing.T) {
	n := New(policy.MustLoad("current"))
	rows := []commandment.RawRow{
		row("Bloco", "Deus", "Mandamento", "Crer em Deus", "M/P", "M"),
		row("Bloco", "Lei", "Mandamento", "Estudar Torah", "M/P", "P"),
	}

	got := n.NormalizeAll(rows)
	require.Len(t, got, 2)

	assert.Equal(t, "Deus", got[0].Block)
	assert.Equal(t, "Lei", got[1].Block)
	assert.Equal(t, "M", got[0].Type)
	assert.Equal(t, "P", got[1].Type)
	assert.Equal(t, "M", got[0].Mode)
	assert.Equal(t, []commandment.ContentEntry{{Label: "Mandamento", Value: "Crer em Deus"}}, got[0].Content)
	assert.Equal(t, "?", got[0].ID)
	assert.Equal(t, "Geral", got[0].Tomo)
}

func TestHeaderMatchingIgnoresCaseAndSpace(t *testing.T) {
	n := New(policy.MustLoad("current"))
	for _, h := range []string{"Bloco", " bloco ", "BLOCO"} {
		c := n.Normalize(row(h, "Lei"))
		assert.Equal(t, "Lei", c.Block, "header %q", h)
		assert.Empty(t, c.Content, "header %q must not leak into content", h)
	}
}

func TestFirstMatchingHeaderWins(t *testing.T) {
	r := row("Categoria", "Primeiro", "Bloco", "Segundo", "Texto", "x")

	current := New(policy.MustLoad("current")).Normalize(r)
	assert.Equal(t, "Primeiro", current.Block)
	assert.Equal(t, []commandment.ContentEntry{
		{Label: "Bloco", Value: "Segundo"},
		{Label: "Texto", Value: "x"},
	}, current.Content)

	// the early revision withheld every listed header from content
	legacy := New(policy.MustLoad("legacy")).Normalize(r)
	assert.Equal(t, "Primeiro", legacy.Block)
	assert.Equal(t, []commandment.ContentEntry{{Label: "Texto", Value: "x"}}, legacy.Content)
}

func TestDuplicateHeaderFallsThrough(t *testing.T) {
	c := New(policy.MustLoad("current")).Normalize(row("Bloco", "A", "Bloco", "B"))
	assert.Equal(t, "A", c.Block)
	assert.Equal(t, []commandment.ContentEntry{{Label: "Bloco", Value: "B"}}, c.Content)
}

func TestDefaultsPerProfile(t *testing.T) {
	empty := commandment.RawRow{}

	current := Normalize(empty, policy.MustLoad("current"))
	assert.Equal(t, "?", current.ID)
	assert.Equal(t, "-", current.Rambam)
	assert.Equal(t, "-", current.Mode)
	assert.Equal(t, "-", current.Book)
	assert.Equal(t, "Outros", current.Block)
	assert.Equal(t, "Geral", current.Tomo)
	assert.Equal(t, current.Mode, current.Type)
	assert.NotNil(t, current.Content)
	assert.Empty(t, current.Content)

	legacy := Normalize(empty, policy.MustLoad("legacy"))
	assert.Equal(t, "?", legacy.ID)
	assert.Equal(t, "-", legacy.Subject)
	assert.Equal(t, "", legacy.Block)
	assert.Equal(t, "", legacy.Tomo)
	assert.Equal(t, "", legacy.Book)
}

func TestEmptyValueFallsBackToDefault(t *testing.T) {
	c := Normalize(row("Tomo", "", "Nº do Mandamento", "12"), policy.MustLoad("current"))
	assert.Equal(t, "Geral", c.Tomo)
	assert.Equal(t, "12", c.ID)
}

func TestResidualEmptyValuesPerProfile(t *testing.T) {
	r := row("Bloco", "Lei", "Comentário", "", "Explicação", "texto")

	current := Normalize(r, policy.MustLoad("current"))
	assert.Equal(t, []commandment.ContentEntry{{Label: "Explicação", Value: "texto"}}, current.Content)

	legacy := Normalize(r, policy.MustLoad("legacy"))
	assert.Equal(t, []commandment.ContentEntry{
		{Label: "Comentário", Value: ""},
		{Label: "Explicação", Value: "texto"},
	}, legacy.Content)
}

func TestResidualKeepsLabelsAndValuesVerbatim(t *testing.T) {
	c := Normalize(row("  Observação ", "  com espaços  "), policy.MustLoad("current"))
	require.Len(t, c.Content, 1)
	assert.Equal(t, "  Observação ", c.Content[0].Label)
	assert.Equal(t, "  com espaços  ", c.Content[0].Value)
}

func TestReferenceFields(t *testing.T) {
	c := Normalize(row(
		"Livro Bíblico", "Êxodo",
		"Capítulo", "20",
		"Versículo", "2",
		"Referência", "Ex 20:2",
		"Quem", "Todos",
		"Onde", "Em todo lugar",
		"A/N", "A",
		"Rambam", "1",
	), policy.MustLoad("current"))

	assert.Equal(t, "Êxodo", c.Book)
	assert.Equal(t, "20", c.Chapter)
	assert.Equal(t, "2", c.Verse)
	assert.Equal(t, "Ex 20:2", c.Reference)
	assert.Equal(t, "Todos", c.Subject)
	assert.Equal(t, "Em todo lugar", c.Location)
	assert.Equal(t, "A", c.Applicability)
	assert.Equal(t, "1", c.Rambam)
	assert.Empty(t, c.Content)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	n := New(policy.MustLoad("current"))
	rows := []commandment.RawRow{
		row("Bloco", "Deus", "Tomo", "Conhecimento (Mada)", "Texto", "a"),
		row("Tomo", "Amor (Ahavá)"),
		{},
	}

	first := n.NormalizeAll(rows)
	second := n.NormalizeAll(rows)
	assert.Equal(t, first, second)
	assert.Len(t, first, len(rows))
}
