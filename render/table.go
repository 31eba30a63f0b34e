package render

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/olekukonko/tablewriter"

	"github.com/gosuda/cbor-chat/chatlog"
)

const (
	clearScreen     = "\033[H\033[2J"
	minContentWidth = 32
	minAuthorWidth  = 12
)

// Table renders the log to a terminal.
type Table struct {
	w io.Writer
	// ClearScreen wipes the terminal before full and frame renders.
	ClearScreen bool

	widths [2]int
}

// NewTable returns a terminal renderer writing to w.
func NewTable(w io.Writer) *Table {
	return &Table{w: w, widths: [2]int{minContentWidth, minAuthorWidth}}
}

func (t *Table) RenderFull(msgs []chatlog.Message) error {
	rows := make([][]string, 0, len(msgs))
	for _, m := range msgs {
		row := t.row(m)
		t.grow(row)
		rows = append(rows, row)
	}
	if err := t.clear(); err != nil {
		return err
	}
	tw := t.newWriter()
	tw.SetHeader(Header[:])
	tw.AppendBulk(rows)
	tw.Render()
	return nil
}

func (t *Table) RenderFrame() error {
	if err := t.clear(); err != nil {
		return err
	}
	tw := t.newWriter()
	tw.SetHeader(Header[:])
	tw.Render()
	return nil
}

func (t *Table) RenderAppend(m chatlog.Message) error {
	row := t.row(m)
	t.grow(row)
	tw := t.newWriter()
	tw.Append(row)
	tw.Render()
	return nil
}

func (t *Table) row(m chatlog.Message) []string {
	return []string{Text(m.Content), Text(m.Author)}
}

// grow widens the columns so later appended rows stay aligned with the header.
func (t *Table) grow(row []string) {
	for i, cell := range row {
		if n := utf8.RuneCountInString(cell); n > t.widths[i] {
			t.widths[i] = n
		}
	}
}

func (t *Table) clear() error {
	if !t.ClearScreen {
		return nil
	}
	if _, err := io.WriteString(t.w, clearScreen); err != nil {
		return fmt.Errorf("clear screen: %w", err)
	}
	return nil
}

func (t *Table) newWriter() *tablewriter.Table {
	tw := tablewriter.NewWriter(t.w)
	tw.SetAutoWrapText(false)
	tw.SetAutoFormatHeaders(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetCenterSeparator("")
	tw.SetColumnSeparator("")
	tw.SetRowSeparator("")
	tw.SetHeaderLine(false)
	tw.SetBorder(false)
	for i, w := range t.widths {
		tw.SetColMinWidth(i, w)
	}
	return tw
}
