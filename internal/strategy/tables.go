package strategy

import (
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"slices"
)

//go:embed data/*.csv
var embedded embed.FS

// ErrInvalidTable is returned when a strategy table does not match the expected shape
var ErrInvalidTable = errors.New("invalid strategy table")

// Columns are the dealer up-card keys, in table order
var Columns = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "A"}

// Row keys of the hard totals table used for the bucketed totals
const (
	RowHardHigh = ">= 17"
	RowHardLow  = "<= 8"
)

const (
	HardTotalsFile = "hard_totals.csv"
	SoftTotalsFile = "soft_totals.csv"
	SplitsFile     = "splits.csv"
)

var (
	hardRows   = []string{RowHardHigh, "16", "15", "14", "13", "12", "11", "10", "9", RowHardLow}
	softRows   = []string{"A,9", "A,8", "A,7", "A,6", "A,5", "A,4", "A,3", "A,2"}
	splitsRows = []string{"A,A", "10,10", "9,9", "8,8", "7,7", "6,6", "5,5", "4,4", "3,3", "2,2"}

	totalsMoves = []Move{Hit, Stand, Double, DoubleAllowed}
	splitsMoves = []Move{Split, DontSplit}
)

// Table is an immutable lookup from (player row, dealer column) to a Move
type Table struct {
	name  string
	rows  []string
	cells map[string][]Move
}

// Name returns the table name, e.g. "hard_totals"
func (t *Table) Name() string {
	return t.name
}

// Rows returns the row keys in file order
func (t *Table) Rows() []string {
	return slices.Clone(t.rows)
}

// Row returns the moves for a row in Columns order
func (t *Table) Row(row string) ([]Move, bool) {
	moves, ok := t.cells[row]
	if !ok {
		return nil, false
	}
	return slices.Clone(moves), true
}

// Lookup returns the move at (row, column). ok is false when either key is
// outside the table.
func (t *Table) Lookup(row, column string) (Move, bool) {
	moves, ok := t.cells[row]
	if !ok {
		return "", false
	}
	idx := slices.Index(Columns, column)
	if idx < 0 {
		return "", false
	}
	return moves[idx], true
}

// Tables holds the three basic strategy tables
type Tables struct {
	Hard   *Table
	Soft   *Table
	Splits *Table
}

// DefaultTables parses the tables compiled into the binary
func DefaultTables() (*Tables, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return LoadTables(sub)
}

// LoadTables reads hard_totals.csv, soft_totals.csv and splits.csv from fsys
// and validates each against the expected rows, columns and cell codes.
func LoadTables(fsys fs.FS) (*Tables, error) {
	hard, err := loadTable(fsys, HardTotalsFile, "hard_totals", hardRows, totalsMoves)
	if err != nil {
		return nil, err
	}
	soft, err := loadTable(fsys, SoftTotalsFile, "soft_totals", softRows, totalsMoves)
	if err != nil {
		return nil, err
	}
	splits, err := loadTable(fsys, SplitsFile, "splits", splitsRows, splitsMoves)
	if err != nil {
		return nil, err
	}
	return &Tables{Hard: hard, Soft: soft, Splits: splits}, nil
}

func loadTable(fsys fs.FS, filename, name string, expectedRows []string, allowed []Move) (*Table, error) {
	f, err := fsys.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTable, filename, err)
	}
	return parseTable(name, records, expectedRows, allowed)
}

func parseTable(name string, records [][]string, expectedRows []string, allowed []Move) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrInvalidTable, name)
	}

	header := records[0]
	if len(header) != len(Columns)+1 || header[0] != "Hand" || !slices.Equal(header[1:], Columns) {
		return nil, fmt.Errorf("%w: %s header %v, expected Hand,%v", ErrInvalidTable, name, header, Columns)
	}

	t := &Table{
		name:  name,
		cells: make(map[string][]Move, len(expectedRows)),
	}
	for i, record := range records[1:] {
		row := record[0]
		if !slices.Contains(expectedRows, row) {
			return nil, fmt.Errorf("%w: %s line %d: unexpected row %q", ErrInvalidTable, name, i+2, row)
		}
		if _, dup := t.cells[row]; dup {
			return nil, fmt.Errorf("%w: %s line %d: duplicate row %q", ErrInvalidTable, name, i+2, row)
		}

		moves := make([]Move, len(Columns))
		for j, code := range record[1:] {
			move, err := ParseMove(code)
			if err != nil || !slices.Contains(allowed, move) {
				return nil, fmt.Errorf("%w: %s row %q column %s: invalid cell %q", ErrInvalidTable, name, row, Columns[j], code)
			}
			moves[j] = move
		}
		t.rows = append(t.rows, row)
		t.cells[row] = moves
	}

	for _, row := range expectedRows {
		if _, ok := t.cells[row]; !ok {
			return nil, fmt.Errorf("%w: %s missing row %q", ErrInvalidTable, name, row)
		}
	}
	return t, nil
}
