package constants

import "strings"

// MimeTypePDF is the only document type the renamer picks up.
const MimeTypePDF = "application/pdf"

// AllowedExtensions holds the file extensions treated as PDF by extension-only providers.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MimeTypeForExt maps a file extension to the mime type the walker filters on.
func MimeTypeForExt(ext string) string {
	if _, ok := AllowedExtensions[NormalizeExt(ext)]; ok {
		return MimeTypePDF
	}
	return ""
}
