package vfs

import (
	"io"
	"os"
)

// File represents an open regular file below a Root
type File interface {
	io.Reader
	io.Closer
	Stat() (os.FileInfo, error)
}
