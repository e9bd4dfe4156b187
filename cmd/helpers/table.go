package helpers

import (
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintTable writes rows under headers as a borderless, left aligned table.
func PrintTable(w io.Writer, headers []string, data [][]any) {
	if len(data) == 0 {
		fmt.Fprintln(w, "No data to display")
		return
	}

	table := newTable(w)
	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	table.Header(header...)
	table.Bulk(data)
	table.Render()
}

// PrintKeyValue writes a two column Key/Value table. Each section, when not
// empty, follows as a titled block of indented, sorted keys.
func PrintKeyValue(w io.Writer, rows [][]any, sections ...Section) {
	for _, s := range sections {
		if len(s.Values) == 0 {
			continue
		}
		rows = append(rows, []any{s.Title, ""})

		keys := make([]string, 0, len(s.Values))
		for k := range s.Values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			rows = append(rows, []any{"  " + k, s.Values[k]})
		}
	}
	PrintTable(w, []string{"Key", "Value"}, rows)
}

// Section is a titled group of PrintKeyValue rows.
type Section struct {
	Title  string
	Values map[string]any
}

func newTable(w io.Writer) *tablewriter.Table {
	left := tw.CellAlignment{Global: tw.AlignLeft}
	cnf := tablewriter.Config{
		Header: tw.CellConfig{Alignment: left},
		Row: tw.CellConfig{
			Merging:   tw.CellMerging{Mode: tw.MergeNone},
			Alignment: left,
		},
	}

	// Spaces everywhere: only the column padding separates values.
	symbols := tw.NewSymbolCustom("lcadmin").
		WithRow(" ").
		WithColumn(" ").
		WithTopLeft("").
		WithTopMid(" ").
		WithTopRight(" ").
		WithMidLeft(" ").
		WithCenter(" ").
		WithMidRight(" ").
		WithBottomLeft(" ").
		WithBottomMid(" ").
		WithBottomRight(" ")

	rd := tw.Rendition{Symbols: symbols}
	rd.Settings.Lines.ShowHeaderLine = tw.Off

	return tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewBlueprint(rd)),
		tablewriter.WithConfig(cnf),
	)
}
