package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// renderTable renders rows under headers, rounded borders on a
// terminal and a plainer style when output is piped.
func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	tw := table.NewWriter()
	tw.SetStyle(tableStyle())

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		tw.AppendRow(r)
	}

	if len(aligns) > 0 {
		configs := make([]table.ColumnConfig, 0, len(aligns))
		for i, align := range aligns {
			if align != alignRight {
				continue
			}
			configs = append(configs, table.ColumnConfig{
				Number:      i + 1,
				Align:       text.AlignRight,
				AlignHeader: text.AlignRight,
			})
		}
		tw.SetColumnConfigs(configs)
	}

	return tw.Render()
}

func tableStyle() table.Style {
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return table.StyleRounded
	}
	return table.StyleDefault
}

// writeJSON encodes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeDocument sends a rendered feed to --output when given, stdout
// otherwise. Files get a trailing newline so they behave in diffs.
func writeDocument(ctx *cli.Context, document string) error {
	if path := ctx.String("output"); path != "" {
		return os.WriteFile(path, []byte(document+"\n"), 0o644)
	}
	fmt.Println(document)
	return nil
}
