package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleTable(t *testing.T) {
	rows := []PrimaryRow{{Y: 100, Text: "1"}, {Y: 200, Text: "2"}}
	cells := map[string][]string{
		"name": {"นายสมชาย ใจดี", ""},
		"note": {"", "absent"},
	}
	table := AssembleTable("no", rows, cells)
	require.Len(t, table, 2)
	assert.Equal(t, "1", table[0]["no"])
	assert.Equal(t, "นายสมชาย ใจดี", table[0]["name"])
	assert.Equal(t, "", table[0]["note"])
	assert.Equal(t, "2", table[1]["no"])
	assert.Equal(t, "absent", table[1]["note"])
}

func TestAssembleTable_ShortCellSlice(t *testing.T) {
	rows := []PrimaryRow{{Y: 100, Text: "1"}, {Y: 200, Text: "2"}}
	table := AssembleTable("no", rows, map[string][]string{"name": {"only-first"}})
	require.Len(t, table, 2)
	assert.Equal(t, "only-first", table[0]["name"])
	assert.Equal(t, "", table[1]["name"])
}

func TestAssembleTable_Empty(t *testing.T) {
	assert.Empty(t, AssembleTable("no", nil, nil))
}
