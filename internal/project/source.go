package project

import (
	"fmt"
	"os"
	"strconv"

	"github.com/zeebo/xxh3"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// source is one file read from disk.
type source struct {
	Path         string
	Library      string
	Language     string
	IsThirdParty bool
	Text         string
	Hash         string
}

// readSource reads path and decodes it to UTF-8. A UTF-8 or UTF-16 byte
// order mark selects the encoding; without one the file is taken as UTF-8.
func readSource(path string) (string, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", path, err)
	}
	text, err := decode(raw)
	if err != nil {
		return "", "", fmt.Errorf("decoding %s: %w", path, err)
	}
	return text, hashString(text), nil
}

func decode(raw []byte) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func hashString(s string) string {
	return strconv.FormatUint(xxh3.HashString(s), 16)
}
