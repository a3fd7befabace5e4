package report

import "os"

// DefaultFontCandidates are probed in order for a TTF with CJK coverage.
var DefaultFontCandidates = []string{
	"/usr/share/fonts/opentype/ipafont-gothic/ipagp.ttf",
	"/usr/share/fonts/truetype/fonts-japanese-gothic.ttf",
	"/usr/share/fonts/truetype/noto/NotoSansCJK-Regular.ttf",
	"/System/Library/Fonts/Supplemental/Arial Unicode.ttf",
	"C:/Windows/Fonts/arialuni.ttf",
}

// ResolveFont returns the first candidate that exists as a regular file.
func ResolveFont(candidates []string) (string, bool) {
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, true
		}
	}
	return "", false
}
