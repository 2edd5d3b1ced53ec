package scene

import (
	"regexp"
	"strconv"
)

var headerPattern = regexp.MustCompile(`---\s*!u!\s*(\d+)\s*&\s*(\d+)`)

// Header is the classified form of a "--- !u!<class> &<id>" line.
type Header struct {
	ClassID int
	FileID  FileID
}

// ParseHeader classifies a document header line. It reports false when the
// line does not carry a Unity class tag and anchor.
func ParseHeader(line string) (Header, bool) {
	m := headerPattern.FindStringSubmatch(line)
	if m == nil {
		return Header{}, false
	}
	classID, err := strconv.Atoi(m[1])
	if err != nil {
		classID = 0
	}
	return Header{ClassID: classID, FileID: parseFileID(m[2])}, true
}

func parseFileID(raw string) FileID {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return FileID(id)
}
