// Package highlight provides bracket highlighting for the line editors.
//
// Only the bracket pair at the cursor is marked. Unmatched brackets are left
// alone; reporting them is the job of the parser.
package highlight

import (
	"src.wl.sh/pkg/ui"
)

// Styling applied to a matched bracket pair.
var stylingForPair = ui.Inverse

// Highlight returns code as styled text, with the bracket pair at dot marked.
func Highlight(code string, dot int) ui.Text {
	open, close, ok := MatchBracket(code, dot)
	if !ok {
		return ui.T(code)
	}
	return ui.Concat(
		ui.T(code[:open]),
		ui.T(code[open:open+1], stylingForPair),
		ui.T(code[open+1:close]),
		ui.T(code[close:close+1], stylingForPair),
		ui.T(code[close+1:]),
	)
}
