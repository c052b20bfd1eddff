package metadata

import (
	"bytes"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/csimplestring/go-csv/detector"
)

const (
	// DefaultSeparator separates table columns unless told otherwise.
	DefaultSeparator = '\t'
	// AutoSeparator asks readers to sniff the separator from the input.
	AutoSeparator rune = 0
)

// ParseSeparator reads a separator given on the command line. It accepts a single character,
// the escaped forms `\t` and "tab", and "auto".
func ParseSeparator(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "", `\t`, "tab":
		return DefaultSeparator, nil
	case "auto":
		return AutoSeparator, nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, parseErrorf("separator %q must be a single character", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, parseErrorf("invalid separator %q", s)
	}

	return r, nil
}

// preferredSeparators breaks ties between detected candidates, which come back unordered.
var preferredSeparators = []rune{'\t', ',', ';', '|'}

// DetectSeparator returns the most likely column separator of a delimited table,
// DefaultSeparator when nothing stands out.
func DetectSeparator(data []byte) rune {
	d := detector.New()
	candidates := map[rune]struct{}{}
	first := AutoSeparator
	for _, delimiter := range d.DetectDelimiter(bytes.NewReader(data), '"') {
		if delimiter == "" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(delimiter)
		candidates[r] = struct{}{}
		if first == AutoSeparator {
			first = r
		}
	}
	for _, r := range preferredSeparators {
		if _, ok := candidates[r]; ok {
			return r
		}
	}
	if first != AutoSeparator {
		return first
	}

	return DefaultSeparator
}

// resolveSeparator buffers r when the separator has to be detected.
func resolveSeparator(r io.Reader, sep rune) (io.Reader, rune, error) {
	if sep != AutoSeparator {
		return r, sep, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fsErrorf("unable to read table: %s", err)
	}

	return bytes.NewReader(data), DetectSeparator(data), nil
}

// WriteFile renders a whole file in memory then writes it to name, replacing any existing
// file. Nothing is written when render fails.
func WriteFile(name string, render func(w io.Writer) error) error {
	buf := &bytes.Buffer{}
	err := render(buf)
	if err != nil {
		return err
	}
	err = os.WriteFile(name, buf.Bytes(), 0o644) //nolint:gosec // metadata files are shared with the pipelines
	if err != nil {
		return fsErrorf("unable to write %s: %s", name, err)
	}

	return nil
}

// OpenFile opens name for reading, reporting failures as ErrFileSystem.
func OpenFile(name string) (*os.File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fsErrorf("unable to open %s: %s", name, err)
	}

	return f, nil
}
