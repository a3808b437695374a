package textutil

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// DisplayNameFromFile derives a human-readable name from an image filename:
// the extension is dropped, separators become spaces, and words are
// title-cased. "summer_photo-01.png" becomes "Summer Photo 01".
func DisplayNameFromFile(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(base)
	base = strings.Join(strings.Fields(base), " ")
	if base == "" {
		return "Untitled"
	}
	return titleCaser.String(base)
}
