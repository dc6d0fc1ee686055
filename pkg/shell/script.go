package shell

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"src.wl.sh/pkg/diag"
	"src.wl.sh/pkg/parse"
	"src.wl.sh/pkg/parse/grammar"
)

// Configuration for the script mode.
type scriptCfg struct {
	Cmd    bool
	JSON   bool
	Styled bool
}

// Parses a script file, or the code itself if cfg.Cmd is true, and writes the
// full form of the expression. Returns the exit status.
func script(fds [3]*os.File, parser *parse.Parser, arg string, cfg *scriptCfg) int {
	var name, code string
	if cfg.Cmd {
		name = "code from -c"
		code = arg
	} else {
		var err error
		name, err = filepath.Abs(arg)
		if err != nil {
			diag.Complainf(errorWriter(fds[2], cfg.Styled),
				"cannot get full path of script %q: %v", arg, err)
			return 2
		}
		code, err = readFileUTF8(name)
		if err != nil {
			diag.Complainf(errorWriter(fds[2], cfg.Styled), "cannot read script %q: %v", name, err)
			return 2
		}
	}
	if grammar.IsTrivia(code) {
		return 0
	}

	n, err := parser.Parse(parse.Source{Name: name, Code: code})
	if err != nil {
		logger.Debugf("%s: %v", name, err)
		if cfg.JSON {
			fmt.Fprintf(fds[1], "%s\n", errorToJSON(err))
		} else {
			diag.ShowError(errorWriter(fds[2], cfg.Styled), err)
		}
		return 2
	}
	if cfg.JSON {
		fullForm, _ := json.Marshal(parse.FullForm(n))
		fmt.Fprintf(fds[1], "%s\n", fullForm)
	} else {
		fmt.Fprintln(fds[1], parse.FullForm(n))
	}
	return 0
}

var errSourceNotUTF8 = errors.New("source is not UTF-8")

func readFileUTF8(fname string) (string, error) {
	bytes, err := os.ReadFile(fname)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(bytes) {
		return "", errSourceNotUTF8
	}
	return string(bytes), nil
}

// An auxiliary struct for converting errors with diagnostics information to JSON.
type errorInJSON struct {
	FileName   string `json:"fileName"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Message    string `json:"message"`
	Incomplete bool   `json:"incomplete,omitempty"`
}

// Converts a parse error into JSON.
func errorToJSON(err error) []byte {
	var converted []errorInJSON
	var syntaxErr *parse.SyntaxError
	var incompleteErr *parse.IncompleteError
	switch {
	case errors.As(err, &syntaxErr):
		c := syntaxErr.Context
		converted = append(converted,
			errorInJSON{c.Name, c.From, c.To, syntaxErr.Message, false})
	case errors.As(err, &incompleteErr):
		c := incompleteErr.Context
		converted = append(converted,
			errorInJSON{c.Name, c.From, c.To, incompleteErr.Message, true})
	default:
		converted = append(converted, errorInJSON{Message: err.Error()})
	}

	jsonError, errMarshal := json.Marshal(converted)
	if errMarshal != nil {
		return []byte(`[{"message":"Unable to convert the errors to JSON"}]`)
	}
	return jsonError
}
