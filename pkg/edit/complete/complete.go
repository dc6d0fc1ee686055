// Package complete implements filename completion for the line editors.
//
// Completion only applies when the token under the cursor looks like a path
// fragment. The language itself has no notion of files, so there is no
// completion of symbols.
package complete

import (
	"errors"
	"sort"
	"strings"
	"unicode/utf8"

	"src.wl.sh/pkg/diag"
)

// ErrNoCompletion is returned by Complete when there is no applicable
// completion.
var ErrNoCompletion = errors.New("no completion")

// CodeBuffer is the content of the editor, with the position of the cursor.
type CodeBuffer struct {
	Content string
	Dot     int
}

// Item is a completion candidate.
type Item struct {
	// Text that replaces the seed.
	ToInsert string
	// Text shown in the candidate list.
	ToShow string
}

// Result keeps the result of the completion algorithm.
type Result struct {
	// The range of the seed, to be replaced by one of the items.
	Replace diag.Ranging
	Items   []Item
}

// Runes that end a path fragment when scanning left from the cursor.
const breakChars = " \t\r\n\"'`@$><=;|&{}()[],"

// Complete completes the path fragment ending at the cursor. It returns
// ErrNoCompletion if the fragment does not look like a path or no file
// matches it.
func Complete(code CodeBuffer) (*Result, error) {
	if code.Dot < 0 || code.Dot > len(code.Content) {
		return nil, ErrNoCompletion
	}
	begin := strings.LastIndexAny(code.Content[:code.Dot], breakChars) + 1
	seed := code.Content[begin:code.Dot]
	if !IsPathLike(seed) {
		return nil, ErrNoCompletion
	}
	items, err := generateFileNames(seed)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoCompletion
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ToInsert < items[j].ToInsert })
	return &Result{Replace: diag.Ranging{From: begin, To: code.Dot}, Items: dedup(items)}, nil
}

// IsPathLike returns whether a token looks like a path fragment: it contains
// a slash or starts with "." or "~".
func IsPathLike(s string) bool {
	return strings.ContainsRune(s, '/') || strings.HasPrefix(s, ".") || strings.HasPrefix(s, "~")
}

// CommonPrefix returns the longest common prefix of the ToInsert fields of
// the items.
func CommonPrefix(items []Item) string {
	if len(items) == 0 {
		return ""
	}
	prefix := items[0].ToInsert
	for _, item := range items[1:] {
		for !strings.HasPrefix(item.ToInsert, prefix) {
			_, size := utf8.DecodeLastRuneInString(prefix)
			prefix = prefix[:len(prefix)-size]
		}
	}
	return prefix
}

func dedup(items []Item) []Item {
	var result []Item
	for i, item := range items {
		if i == 0 || item.ToInsert != items[i-1].ToInsert {
			result = append(result, item)
		}
	}
	return result
}
