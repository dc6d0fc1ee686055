package parse

// Source describes a piece of source code.
type Source struct {
	// Name used in diagnostics, like "[tty]" or a file name.
	Name string
	Code string
}

// SourceForTest returns a Source used for testing.
func SourceForTest(code string) Source {
	return Source{Name: "[test]", Code: code}
}
