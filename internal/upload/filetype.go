package upload

import (
	"path/filepath"
	"strings"
)

// declaredTypes maps file extensions to the content type a file picker
// would declare for them. Unknown extensions declare nothing.
var declaredTypes = map[string]string{
	".zip":  "application/zip",
	".gz":   "application/gzip",
	".tgz":  "application/gzip",
	".tar":  "application/x-tar",
	".7z":   "application/x-7z-compressed",
	".rar":  "application/vnd.rar",
	".json": "application/json",
	".html": "text/html",
	".htm":  "text/html",
	".txt":  "text/plain",
	".md":   "text/markdown",
	".pdf":  "application/pdf",
}

// zipTypes are the declared types accepted as a zip archive.
var zipTypes = map[string]bool{
	"application/zip":              true,
	"application/x-zip":            true,
	"application/x-zip-compressed": true,
}

// DeclaredType returns the content type declared for name by its extension.
func DeclaredType(name string) string {
	return declaredTypes[strings.ToLower(filepath.Ext(name))]
}

// IsZip reports whether name declares a zip archive.
func IsZip(name string) bool {
	return zipTypes[DeclaredType(name)]
}
