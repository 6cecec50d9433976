package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lox/blackjack/internal/strategy"
)

type StrategyCmd struct {
	Table  string `arg:"" optional:"" enum:"all,hard,soft,splits" default:"all" help:"Table to print (all, hard, soft, splits)"`
	Export string `type:"path" help:"Write the tables as CSV files into this directory instead of printing them"`
}

func (c *StrategyCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	tables, err := cfg.Tables()
	if err != nil {
		return err
	}

	if c.Export != "" {
		if err := tables.WriteDir(c.Export); err != nil {
			return err
		}
		fmt.Printf("Wrote %s, %s and %s to %s\n",
			strategy.HardTotalsFile, strategy.SoftTotalsFile, strategy.SplitsFile, c.Export)
		fmt.Printf("Edit them and set strategy { tables_dir = %q } to play with your own tables\n", c.Export)
		return nil
	}
	return renderStrategy(os.Stdout, tables, c.Table)
}

var (
	tableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).Align(lipgloss.Center)
	tableRowKeyStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Center)

	moveColors = map[strategy.Move]lipgloss.Color{
		strategy.Hit:           "#FAFAFA",
		strategy.Stand:         "#96CEB4",
		strategy.Double:        "#FFD700",
		strategy.DoubleAllowed: "#FFEAA7",
		strategy.Split:         "#74B9FF",
		strategy.DontSplit:     "#626262",
	}
)

// renderStrategy writes the selected tables followed by the surrender rules and legend
func renderStrategy(w io.Writer, tables *strategy.Tables, which string) error {
	sections := []struct {
		key   string
		title string
		table *strategy.Table
	}{
		{"hard", "Hard totals", tables.Hard},
		{"soft", "Soft totals", tables.Soft},
		{"splits", "Pair splitting", tables.Splits},
	}

	printed := 0
	for _, s := range sections {
		if which != "all" && which != s.key {
			continue
		}
		fmt.Fprintln(w, titleStyle.Render(s.title))
		fmt.Fprintln(w, renderTable(s.table))
		fmt.Fprintln(w)
		printed++
	}
	if printed == 0 {
		return fmt.Errorf("unknown table %q", which)
	}

	fmt.Fprintln(w, titleStyle.Render("Late surrender"))
	for _, rule := range strategy.SurrenderRules {
		fmt.Fprintf(w, "  Surrender %d against %s\n", rule.Total, strings.Join(rule.Columns, ", "))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, titleStyle.Render("Legend"))
	for _, m := range strategy.Moves {
		fmt.Fprintf(w, "  %-3s %s\n", m.Code(), m.Description())
	}
	return nil
}

// renderTable draws one strategy table with the dealer up-cards across the top
func renderTable(t *strategy.Table) string {
	var rows [][]string
	for _, key := range t.Rows() {
		moves, _ := t.Row(key)
		row := []string{key}
		for _, m := range moves {
			row = append(row, m.Code())
		}
		rows = append(rows, row)
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorderStyle).
		Headers(append([]string{"Player"}, strategy.Columns...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case col == 0:
				return tableRowKeyStyle
			}
			if row < len(rows) && col < len(rows[row]) {
				if color, ok := moveColors[strategy.Move(rows[row][col])]; ok {
					return tableCellStyle.Foreground(color)
				}
			}
			return tableCellStyle
		}).
		Render()
}
