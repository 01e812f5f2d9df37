package static

import (
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ContentTypes maps file extensions, lower case and including the leading
// dot, to MIME types.
type ContentTypes map[string]string

// DefaultContentTypes returns a fresh copy of the built-in table.
func DefaultContentTypes() ContentTypes {
	return maps.Clone(defaultContentTypes)
}

// Lookup returns the content type registered for ext, or the empty string.
// The extension may be given with or without the leading dot, in any case.
func (c ContentTypes) Lookup(ext string) string {
	return c[normalizeExt(ext)]
}

// Merge returns a table containing the entries of c overridden by the
// entries of overrides.
func (c ContentTypes) Merge(overrides map[string]string) ContentTypes {
	merged := make(ContentTypes, len(c)+len(overrides))
	for ext, typ := range c {
		merged[normalizeExt(ext)] = typ
	}
	for ext, typ := range overrides {
		merged[normalizeExt(ext)] = typ
	}
	return merged
}

// Extensions returns the sorted list of extensions in the table.
func (c ContentTypes) Extensions() []string {
	exts := maps.Keys(c)
	slices.Sort(exts)
	return exts
}

func normalizeExt(ext string) string {
	if ext == "" {
		return ""
	}
	ext = strings.ToLower(ext)
	if ext[0] != '.' {
		ext = "." + ext
	}
	return ext
}

var defaultContentTypes = ContentTypes{
	".7z":    "application/x-7z-compressed",
	".atom":  "application/atom+xml",
	".avi":   "video/x-msvideo",
	".bin":   "application/octet-stream",
	".bmp":   "image/bmp",
	".css":   "text/css",
	".csv":   "text/csv",
	".doc":   "application/msword",
	".gif":   "image/gif",
	".gz":    "application/gzip",
	".htm":   "text/html",
	".html":  "text/html",
	".ico":   "image/x-icon",
	".jar":   "application/java-archive",
	".jpeg":  "image/jpeg",
	".jpg":   "image/jpeg",
	".js":    "application/javascript",
	".json":  "application/json",
	".m4a":   "audio/x-m4a",
	".mjs":   "application/javascript",
	".mov":   "video/quicktime",
	".mp3":   "audio/mpeg",
	".mp4":   "video/mp4",
	".mpeg":  "video/mpeg",
	".otf":   "font/otf",
	".pdf":   "application/pdf",
	".png":   "image/png",
	".rss":   "application/rss+xml",
	".rtf":   "application/rtf",
	".svg":   "image/svg+xml",
	".tar":   "application/x-tar",
	".ttf":   "font/ttf",
	".txt":   "text/plain",
	".wasm":  "application/wasm",
	".wav":   "audio/wav",
	".webm":  "video/webm",
	".webp":  "image/webp",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".xml":   "text/xml",
	".zip":   "application/zip",
}
