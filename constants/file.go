package constants

import "strings"

// FileTypes holds the recognized input document formats.
var FileTypes = []string{"PDF", "TXT", "MD"}

// AllowedExtensions holds the file extensions the CLI accepts for ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
	"txt": {},
	"md":  {},
}

// PastedTextFileName is the synthetic file name given to pasted memo text.
const PastedTextFileName = "Pasted text"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
