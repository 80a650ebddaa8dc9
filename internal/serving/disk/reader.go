package disk

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"gitlab.com/gitlab-org/pages-cgi/internal/vfs"
	"gitlab.com/gitlab-org/pages-cgi/metrics"
)

var errNotRegularFile = errors.New("not a regular file")

// Reader serves static files from a VFS root
type Reader struct {
	root           vfs.Root
	fileSizeMetric prometheus.Histogram
}

// New returns a Reader serving files below root
func New(root vfs.Root) *Reader {
	return &Reader{
		root:           root,
		fileSizeMetric: metrics.StaticFileSize,
	}
}

// ServeFile writes the file name, relative to the root, as a complete 200
// response. The file is read fully before anything is written so that an
// error leaves w untouched for the caller to report.
func (reader *Reader) ServeFile(w http.ResponseWriter, r *http.Request, name string) error {
	content, err := reader.readFile(r.Context(), name)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", detectContentType(name, content))
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	reader.fileSizeMetric.Observe(float64(len(content)))

	// the client may have gone away, there is nothing left to report to it
	_, _ = w.Write(content)

	return nil
}

func (reader *Reader) readFile(ctx context.Context, name string) ([]byte, error) {
	file, err := reader.root.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	fi, err := file.Stat()
	if err != nil {
		return nil, vfs.NewReadError(name, err)
	}

	if !fi.Mode().IsRegular() {
		return nil, errNotRegularFile
	}

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, vfs.NewReadError(name, err)
	}

	return content, nil
}
