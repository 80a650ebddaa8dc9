package main

import (
	"fmt"
	"mime"

	"gitlab.com/gitlab-org/go-mimedb"
)

// types missing from some versions of the MIME database
var extraMIMETypes = map[string]string{
	".avif":        "image/avif",
	".webmanifest": "application/manifest+json",
}

func loadMIMETypes() error {
	if err := mimedb.LoadTypes(); err != nil {
		return fmt.Errorf("loading MIME database: %w", err)
	}

	for ext, mimeType := range extraMIMETypes {
		if err := mime.AddExtensionType(ext, mimeType); err != nil {
			return fmt.Errorf("adding extension %q with MIME type %q: %w", ext, mimeType, err)
		}
	}

	return nil
}
