package scene

import (
	"bufio"
	"bytes"
	"io"
	"iter"
	"strings"
)

// HeaderMarker starts every document header line.
const HeaderMarker = "--- "

const maxLineSize = 16 * 1024 * 1024

// Document is one header line and the body that follows it.
type Document struct {
	Header string
	Body   string
	Line   int // 1-based line number of the header
}

// SplitDocuments yields the documents of a scene stream in file order.
// Text before the first header is discarded and blank lines are dropped.
// A read error is yielded once and ends the sequence.
func SplitDocuments(r io.Reader) iter.Seq2[Document, error] {
	return func(yield func(Document, error) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		scanner.Split(scanAnyLines)

		var (
			current Document
			body    strings.Builder
			open    bool
			lineNo  int
		)
		flush := func() bool {
			if !open {
				return true
			}
			current.Body = body.String()
			body.Reset()
			return yield(current, nil)
		}

		for scanner.Scan() {
			lineNo++
			line := scanner.Text()
			if strings.TrimSpace(line) == "" {
				continue
			}
			if strings.HasPrefix(line, HeaderMarker) {
				if !flush() {
					return
				}
				current = Document{Header: line, Line: lineNo}
				open = true
				continue
			}
			if !open {
				continue
			}
			body.WriteString(line)
			body.WriteByte('\n')
		}
		if err := scanner.Err(); err != nil {
			yield(Document{}, err)
			return
		}
		flush()
	}
}

// scanAnyLines is bufio.ScanLines that also accepts a lone '\r' as a line break.
func scanAnyLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		// need one more byte to tell "\r" from "\r\n"
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
