// Package ignore resolves suppression comments. A marker suppresses a finding
// when it appears anywhere on the finding's line or on the line directly above.
package ignore

import "strings"

const (
	MarkerExport     = "typelint-ignore-export"
	MarkerDuplicate  = "typelint-ignore-duplicate"
	MarkerBarrel     = "typelint-ignore-barrel"
	MarkerTypeImport = "typelint-ignore-type-import"
	MarkerInlineType = "typelint-ignore-inline-type"

	// FileMarkerDuplicates anywhere in a file removes the file from duplicate extraction.
	FileMarkerDuplicates = "typelint-disable-duplicates"
)

// Suppressed reports whether marker occurs on line or prev.
func Suppressed(line, prev, marker string) bool {
	if marker == "" {
		return false
	}
	return strings.Contains(line, marker) || strings.Contains(prev, marker)
}

// AtLine applies Suppressed to the zero-based index idx of lines.
func AtLine(lines []string, idx int, marker string) bool {
	if idx < 0 || idx >= len(lines) {
		return false
	}
	prev := ""
	if idx > 0 {
		prev = lines[idx-1]
	}
	return Suppressed(lines[idx], prev, marker)
}

// InFile reports whether marker occurs on any line.
func InFile(lines []string, marker string) bool {
	for _, line := range lines {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}
