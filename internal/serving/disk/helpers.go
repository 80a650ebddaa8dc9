package disk

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeText = "text/plain; charset=utf-8"
)

// Detect file's content-type either by extension or mime-sniffing.
// Implementation is adapted from Golang's `http.serveContent()`
// See https://github.com/golang/go/blob/902fc114272978a40d2e65c2510a18e870077559/src/net/http/fs.go#L194
func detectContentType(path string, content []byte) string {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".html", ".htm":
		return contentTypeHTML
	case ".txt":
		return contentTypeText
	}

	contentType := mime.TypeByExtension(ext)
	if strings.HasPrefix(contentType, "text/plain") {
		return contentTypeText
	}

	if contentType == "" {
		// DetectContentType considers at most the first 512 bytes and falls
		// back to application/octet-stream
		contentType = http.DetectContentType(content)
	}

	return contentType
}
