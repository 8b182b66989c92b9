package console

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/width"

	"github.com/roach88/members/internal/store"
)

// Column widths in terminal cells.
const (
	nameCells = 12
	sexCells  = 6
	ruleWidth = 29
)

// cellWidth returns the number of terminal cells s occupies. East Asian wide
// and fullwidth runes take two cells.
func cellWidth(s string) int {
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

// padCells right-pads s with spaces to cells. Wider strings are returned as is.
func padCells(s string, cells int) string {
	w := cellWidth(s)
	if w >= cells {
		return s
	}
	return s + strings.Repeat(" ", cells-w)
}

// writeTable prints the header, a rule, and one row per record.
func writeTable(w io.Writer, records []store.Record) {
	fmt.Fprintln(w, formatRow("姓名", "性別", "手機"))
	fmt.Fprintln(w, strings.Repeat("-", ruleWidth))
	for _, r := range records {
		fmt.Fprintln(w, formatRow(r.Name, r.Sex, r.Phone))
	}
}

func formatRow(name, sex, phone string) string {
	return padCells(name, nameCells) + " " + padCells(sex, sexCells) + phone
}

func writeMenu(w io.Writer) {
	fmt.Fprintln(w, menuTitleRule)
	for _, item := range menuItems {
		fmt.Fprintln(w, item)
	}
	fmt.Fprintln(w, menuRule)
}
