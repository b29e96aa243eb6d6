package constants

import "strings"

// Format is the coarse content family of an uploaded document.
type Format string

const (
	PDF     Format = "PDF"
	TEXT    Format = "TEXT"
	IMAGE   Format = "IMAGE"
	UNKNOWN Format = "UNKNOWN"
)

const (
	MimePDF   = "application/pdf"
	MimePlain = "text/plain"
)

// AllowedExtensions holds the file extensions picked up by directory ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
	"txt": {},
}

var extToMime = map[string]string{
	"pdf":  MimePDF,
	"txt":  MimePlain,
	"text": MimePlain,
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MimeForExt maps a file extension to the MIME type sent to the extractor.
// Unknown extensions map to an empty string, which the extractor decodes as text.
func MimeForExt(ext string) string {
	return extToMime[NormalizeExt(ext)]
}

// MapMimeToFormat classifies a MIME type. An empty MIME type is treated as text.
func MapMimeToFormat(mimeType string) Format {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	switch {
	case mt == "":
		return TEXT
	case mt == MimePDF:
		return PDF
	case strings.HasPrefix(mt, "text/"):
		return TEXT
	case strings.HasPrefix(mt, "image/"):
		return IMAGE
	default:
		return UNKNOWN
	}
}
