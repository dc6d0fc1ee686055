package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"src.wl.sh/pkg/edit/complete"
	"src.wl.sh/pkg/ui"
)

// Completes the seed before the dot. A single candidate is inserted; with
// several candidates, their common prefix is inserted if it extends the seed,
// otherwise the candidates are listed.
func (ed *Editor) completeAtDot() {
	result, err := ed.spec.Helper.Complete(ed.buf, ed.dot)
	if err != nil {
		if !errors.Is(err, complete.ErrNoCompletion) {
			logger.Debugf("completion error: %v", err)
		}
		return
	}
	items := result.Items
	switch {
	case len(items) == 0:
		return
	case len(items) == 1:
		ed.replace(result, items[0].ToInsert)
		return
	}
	seed := ed.buf[result.Replace.From:result.Replace.To]
	if prefix := complete.CommonPrefix(items); len(prefix) > len(seed) {
		ed.replace(result, prefix)
		return
	}
	if limit := ed.spec.CompletionTriggerLimit; limit > 0 && len(items) > limit {
		ed.pending = result
		return
	}
	ed.showListing(items)
}

func (ed *Editor) replace(result *complete.Result, text string) {
	r := result.Replace
	ed.buf = ed.buf[:r.From] + text + ed.buf[r.To:]
	ed.dot = r.From + len(text)
}

// Handles the answer to the question asked before listing many candidates.
// Other keys are ignored.
func (ed *Editor) answerListing(k ui.Key) {
	switch k {
	case ui.K('y'), ui.K('Y'), ui.K(' '):
		ed.showListing(ed.pending.Items)
		ed.pending = nil
	case ui.K('n'), ui.K('N'), ui.K('[', ui.Ctrl), ui.K('C', ui.Ctrl), ui.K('G', ui.Ctrl):
		ed.pending = nil
	}
}

func listingQuestion(n int) string {
	return fmt.Sprintf("Display all %d possibilities? (y or n)", n)
}

func (ed *Editor) showListing(items []complete.Item) {
	_, width := ed.tty.Size()
	if width <= 0 {
		width = defaultWidth
	}
	ed.msg = ui.T(formatListing(items, width))
}

// Lays out the candidates in columns, sorted down each column first.
func formatListing(items []complete.Item, width int) string {
	maxWidth := 0
	for _, item := range items {
		if w := runewidth.StringWidth(item.ToShow); w > maxWidth {
			maxWidth = w
		}
	}
	colWidth := maxWidth + 2
	cols := width / colWidth
	if cols < 1 {
		cols = 1
	}
	rows := (len(items) + cols - 1) / cols

	var sb strings.Builder
	for row := 0; row < rows; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		var line strings.Builder
		for col := 0; col < cols; col++ {
			i := col*rows + row
			if i >= len(items) {
				break
			}
			show := items[i].ToShow
			line.WriteString(show)
			line.WriteString(strings.Repeat(" ", colWidth-runewidth.StringWidth(show)))
		}
		sb.WriteString(strings.TrimRight(line.String(), " "))
	}
	return sb.String()
}
