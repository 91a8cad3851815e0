package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_AlignsColumns(t *testing.T) {
	tbl := NewTable(
		TableColumn{Name: "ID"},
		TableColumn{Name: "STEPS", Align: AlignRight},
		TableColumn{Name: "DESCRIPTION"},
	)
	tbl.AddRow("ab12cd34", "3", "Christmas t-shirt")
	tbl.AddRow("ef56", "12", "Commercial")

	var buf bytes.Buffer
	require.NoError(t, tbl.Render(&buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID        STEPS  DESCRIPTION", lines[0])
	assert.Equal(t, "ab12cd34      3  Christmas t-shirt", lines[1])
	assert.Equal(t, "ef56         12  Commercial", lines[2])
	assert.Equal(t, 2, tbl.Len())
}

func TestTable_TruncatesFixedWidth(t *testing.T) {
	tbl := NewTable(TableColumn{Name: "DESC", Width: 8}, TableColumn{Name: "X"})
	tbl.AddRow("a very long description", "y")

	var buf bytes.Buffer
	require.NoError(t, tbl.Render(&buf))
	assert.Contains(t, buf.String(), "a very …  y")
}

func TestTable_MissingCells(t *testing.T) {
	tbl := NewTable(TableColumn{Name: "A"}, TableColumn{Name: "B"})
	tbl.AddRow("only")

	var buf bytes.Buffer
	require.NoError(t, tbl.Render(&buf))
	assert.Equal(t, "A     B\nonly\n", buf.String())
}
