package export

import (
	"fmt"
	"strings"
	"time"

	"cutout/internal/settings"
	"cutout/internal/textutil"
)

const defaultPattern = "{name}-{index}"

// namer derives unique archive entry names from the configured pattern.
// Supported placeholders: {index}, {name}, {timestamp}.
type namer struct {
	pattern   string
	ext       string
	timestamp string
	seen      map[string]int
}

func newNamer(pattern string, format settings.Format, now time.Time) *namer {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		pattern = defaultPattern
	}
	ext := ".png"
	if format == settings.FormatWebP {
		ext = ".webp"
	}
	return &namer{
		pattern:   pattern,
		ext:       ext,
		timestamp: now.Format("20060102-150405"),
		seen:      make(map[string]int),
	}
}

// next returns the entry name for the given item, deduplicating collisions
// with a numeric suffix so names stay unique within one archive.
func (n *namer) next(index int, displayName string) string {
	replacer := strings.NewReplacer(
		"{index}", fmt.Sprintf("%02d", index),
		"{name}", textutil.SanitizeToken(displayName),
		"{timestamp}", n.timestamp,
	)
	base := textutil.SanitizeFileName(replacer.Replace(n.pattern))
	if base == "" {
		base = fmt.Sprintf("cutout-%02d", index)
	}

	name := base
	for {
		count := n.seen[name]
		n.seen[name] = count + 1
		if count == 0 {
			return name + n.ext
		}
		name = fmt.Sprintf("%s-%d", base, count+1)
	}
}
