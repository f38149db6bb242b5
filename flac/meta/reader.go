package meta

import (
	"io"
	"strings"
)

// readString reads and returns exactly n bytes from r as a string.
func readString(r io.Reader, n int) (string, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// stringFromSZ returns a copy of the given string terminated at the first
// occurrence of a NULL character.
func stringFromSZ(szStr string) string {
	pos := strings.IndexByte(szStr, '\x00')
	if pos == -1 {
		return szStr
	}
	return szStr[:pos]
}
