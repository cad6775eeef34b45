package commandment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawRowGet(t *testing.T) {
	row := RawRow{{Header: "Bloco", Value: "Idolatria"}, {Header: "Tomo", Value: ""}}

	v, ok := row.Get("Bloco")
	assert.True(t, ok)
	assert.Equal(t, "Idolatria", v)

	_, ok = row.Get("Quem")
	assert.False(t, ok)
	assert.Equal(t, []string{"Bloco", "Tomo"}, row.Headers())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("tomos")
	require.NoError(t, err)
	assert.Equal(t, ModeTomos, m)

	_, err = ParseMode("capitulos")
	assert.Error(t, err)
}

func TestSnapshotChecksum(t *testing.T) {
	records := []Commandment{{ID: "1", Mode: "P", Block: "Idolatria", Content: []ContentEntry{{Label: "Texto", Value: "a"}}}}
	a := NewSnapshot("current", records)
	b := NewSnapshot("current", records)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Checksum, b.Checksum)

	changed := []Commandment{{ID: "1", Mode: "P", Block: "Idolatria", Content: []ContentEntry{{Label: "Texto", Value: "b"}}}}
	assert.NotEqual(t, a.Checksum, Checksum(changed))

	var nilSnap *Snapshot
	assert.Equal(t, 0, nilSnap.Len())
}
