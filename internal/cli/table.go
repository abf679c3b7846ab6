package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/width"
)

// row is one line of tabular output. Integer cells are right-aligned in
// text output.
type row []any

// writeRows writes rows as aligned text or as CSV.
func writeRows(w io.Writer, format string, rows []row) error {
	if format == "csv" {
		return writeCSV(w, rows)
	}
	return writeText(w, rows)
}

// writeText pads every column but the last to the width of its widest
// cell, separating columns with one space. Alignment of each column is
// taken from the first row.
func writeText(w io.Writer, rows []row) error {
	if len(rows) == 0 {
		return nil
	}
	cells := make([][]string, len(rows))
	var widths []int
	for i, r := range rows {
		cells[i] = make([]string, len(r))
		for j, v := range r {
			s := fmt.Sprint(v)
			cells[i][j] = s
			if j >= len(widths) {
				widths = append(widths, 0)
			}
			widths[j] = max(widths[j], displayWidth(s))
		}
	}
	right := make([]bool, len(widths))
	for j, v := range rows[0] {
		right[j] = isInt(v)
	}

	var b strings.Builder
	for _, line := range cells {
		b.Reset()
		for j, s := range line {
			if j > 0 {
				b.WriteByte(' ')
			}
			pad := strings.Repeat(" ", widths[j]-displayWidth(s))
			switch {
			case right[j]:
				b.WriteString(pad)
				b.WriteString(s)
			case j == len(line)-1:
				b.WriteString(s)
			default:
				b.WriteString(s)
				b.WriteString(pad)
			}
		}
		if _, err := io.WriteString(w, strings.TrimRight(b.String(), " ")+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(w io.Writer, rows []row) error {
	cw := csv.NewWriter(w)
	for _, r := range rows {
		record := make([]string, len(r))
		for i, v := range r {
			record[i] = fmt.Sprint(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func isInt(v any) bool {
	switch v.(type) {
	case int, int64:
		return true
	}
	return false
}

// displayWidth counts the terminal columns of s. East Asian wide and
// fullwidth characters take two columns.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}
