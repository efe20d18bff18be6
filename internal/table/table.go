// Package table defines the normalized in-memory representation of parsed
// tabular data: ordered named columns of equal-length typed cell sequences.
package table

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the inferred scalar type of a column.
type Kind int

const (
	String Kind = iota
	Int
	Float
	Bool
)

// Column holds one named column. Cells are string, int64, float64, bool or
// nil for an absent value, matching Kind for all non-nil entries.
type Column struct {
	Name  string
	Kind  Kind
	Cells []any
}

// Table is an ordered set of columns with equal row counts. Each parse call
// produces a fresh table owned exclusively by the caller.
type Table struct {
	Columns []Column
}

// Rows returns the number of data rows.
func (t *Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Cells)
}

// Headers returns the column names in order.
func (t *Table) Headers() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// Column returns the named column, or nil when absent.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// Record renders row i as delimited-text fields.
func (t *Table) Record(i int) []string {
	rec := make([]string, len(t.Columns))
	for j := range t.Columns {
		rec[j] = FormatCell(t.Columns[j].Cells[i])
	}
	return rec
}

// FillMissingBools replaces every absent or non-boolean cell in a
// boolean-typed column with false. Downstream sinks with non-nullable
// boolean fields reject nulls, so the gap is closed here rather than at
// load time. Other columns are left untouched.
func (t *Table) FillMissingBools() {
	for i := range t.Columns {
		col := &t.Columns[i]
		if col.Kind != Bool {
			continue
		}
		for j, v := range col.Cells {
			if _, ok := v.(bool); !ok {
				col.Cells[j] = false
			}
		}
	}
}

// FormatCell converts a cell value to its delimited-text form. Absent cells
// become the empty string.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	return fmt.Sprint(v)
}

// Options controls the boolean vocabulary used during type inference.
type Options struct {
	TrueTokens  []string
	FalseTokens []string
}

// DefaultOptions recognizes the plain true/false spellings only.
func DefaultOptions() Options {
	return Options{
		TrueTokens:  []string{"true", "True", "TRUE"},
		FalseTokens: []string{"false", "False", "FALSE"},
	}
}

// Infer builds a table from a header row and raw string records, inferring
// one scalar kind per column. A column is boolean when every populated cell
// is a recognized boolean token, integer when every populated cell parses
// as an integer, floating-point likewise, and text otherwise. Cells missing
// from short records become nil, as do empty fields unless the empty string
// is a recognized false token. Fields beyond the header width are dropped.
func Infer(headers []string, records [][]string, opts Options) *Table {
	trueSet := tokenSet(opts.TrueTokens)
	falseSet := tokenSet(opts.FalseTokens)
	emptyIsFalse := falseSet[""]

	cols := make([]Column, len(headers))
	for c := range headers {
		tokens := make([]string, len(records))
		hasCell := make([]bool, len(records))
		for r, rec := range records {
			if c < len(rec) {
				tokens[r] = rec[c]
				hasCell[r] = true
			}
		}

		kind := classify(tokens, hasCell, trueSet, falseSet, emptyIsFalse)
		cells := make([]any, len(records))
		for r := range records {
			tok := tokens[r]
			// An empty field only carries a value in a boolean column whose
			// vocabulary maps empty to false; everywhere else it is absent.
			if !hasCell[r] || (tok == "" && !(kind == Bool && emptyIsFalse)) {
				continue
			}
			switch kind {
			case Bool:
				cells[r] = trueSet[tok]
			case Int:
				n, _ := strconv.ParseInt(tok, 10, 64)
				cells[r] = n
			case Float:
				f, _ := strconv.ParseFloat(tok, 64)
				cells[r] = f
			default:
				cells[r] = tok
			}
		}
		cols[c] = Column{Name: strings.TrimSpace(headers[c]), Kind: kind, Cells: cells}
	}
	return &Table{Columns: cols}
}

func classify(tokens []string, hasCell []bool, trueSet, falseSet map[string]bool, emptyIsFalse bool) Kind {
	populated := 0
	boolOK, intOK, floatOK := true, true, true
	for i, tok := range tokens {
		if !hasCell[i] || (tok == "" && !emptyIsFalse) {
			continue
		}
		populated++
		if !trueSet[tok] && !falseSet[tok] {
			boolOK = false
		}
		if tok == "" {
			// empty fields vote for boolean only
			intOK, floatOK = false, false
			continue
		}
		if _, err := strconv.ParseInt(tok, 10, 64); err != nil {
			intOK = false
		}
		if _, err := strconv.ParseFloat(tok, 64); err != nil {
			floatOK = false
		}
	}
	switch {
	case populated == 0:
		return String
	case boolOK:
		return Bool
	case intOK:
		return Int
	case floatOK:
		return Float
	}
	return String
}

func tokenSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		set[tok] = true
	}
	return set
}
