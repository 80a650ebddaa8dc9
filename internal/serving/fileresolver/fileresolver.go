package fileresolver

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"

	"gitlab.com/gitlab-org/pages-cgi/internal/vfs"
	"gitlab.com/gitlab-org/pages-cgi/internal/vfs/local"
	"gitlab.com/gitlab-org/pages-cgi/metrics"
)

var (
	errParentSegment  = errors.New("path contains a parent directory segment")
	errInvalidPath    = errors.New("path contains a NUL byte")
	errDenied         = errors.New("path is denied")
	errIsDirectory    = errors.New("location error accessing directory where file expected")
	errFileNotFound   = errors.New("file not found")
	errNotRegularFile = errors.New("not a regular file")
	errFileNotInRoot  = errors.New("file found outside of root directory")
)

// Kind classifies what a request path resolves to
type Kind int

const (
	NotFound Kind = iota
	Static
	Script
	Forbidden
)

func (k Kind) String() string {
	switch k {
	case Static:
		return "static"
	case Script:
		return "script"
	case Forbidden:
		return "forbidden"
	default:
		return "not_found"
	}
}

// Target is the result of resolving a request path
type Target struct {
	Kind Kind
	// Path is the absolute canonical location, set for Static and Script
	Path string
	// Name is Path relative to the root
	Name string
}

// Resolver maps request paths onto the files below a root
type Resolver struct {
	root       vfs.Root
	scriptsDir string
	denyPaths  []string
}

// New returns a Resolver for root. Regular files below scriptsDir, which is
// relative to the root, resolve to Script. Requests for any of denyPaths or
// anything below them resolve to Forbidden.
func New(root vfs.Root, scriptsDir string, denyPaths []string) *Resolver {
	cleaned := make([]string, 0, len(denyPaths))
	for _, p := range denyPaths {
		cleaned = append(cleaned, path.Clean("/"+p))
	}

	return &Resolver{
		root:       root,
		scriptsDir: path.Clean(filepath.ToSlash(scriptsDir)),
		denyPaths:  cleaned,
	}
}

// Resolve classifies requestPath. The returned error explains why the target
// is Forbidden or NotFound and is nil otherwise.
func (r *Resolver) Resolve(ctx context.Context, requestPath string) (Target, error) {
	target, err := r.resolve(ctx, requestPath)

	metrics.ResolvedTargets.WithLabelValues(target.Kind.String()).Inc()

	log.WithField("path", requestPath).
		WithField("kind", target.Kind.String()).
		WithField("target", target.Path).
		WithError(err).
		Traceln("resolved request path")

	return target, err
}

func (r *Resolver) resolve(ctx context.Context, requestPath string) (Target, error) {
	if strings.ContainsRune(requestPath, 0) {
		return Target{Kind: Forbidden}, errInvalidPath
	}

	if hasParentSegment(requestPath) {
		return Target{Kind: Forbidden}, errParentSegment
	}

	if r.isDenied(requestPath) {
		return Target{Kind: Forbidden}, errDenied
	}

	// the leading slash is not part of the name below the root
	name, err := r.root.EvalSymlinks(ctx, strings.TrimPrefix(requestPath, "/"))
	if err != nil {
		return r.classifyError(err)
	}

	if name == "." {
		return Target{Kind: Forbidden}, errIsDirectory
	}

	fi, err := r.root.Lstat(ctx, name)
	if err != nil {
		return r.classifyError(err)
	}

	if fi.IsDir() {
		return Target{Kind: Forbidden}, errIsDirectory
	}

	// The file exists, but is not a supported type to serve. Perhaps a block
	// special device or something else that may be a security risk.
	if !fi.Mode().IsRegular() {
		return Target{Kind: Forbidden}, errNotRegularFile
	}

	fullPath := filepath.Join(r.root.Path(), filepath.FromSlash(name))
	if strings.HasPrefix(name, r.scriptsDir+"/") {
		return Target{Kind: Script, Path: fullPath, Name: name}, nil
	}

	return Target{Kind: Static, Path: fullPath, Name: name}, nil
}

func (r *Resolver) classifyError(err error) (Target, error) {
	var invalidPath *local.InvalidPathError

	switch {
	case errors.As(err, &invalidPath):
		return Target{Kind: Forbidden}, errFileNotInRoot
	case errors.Is(err, fs.ErrPermission), errors.Is(err, syscall.ELOOP):
		return Target{Kind: Forbidden}, err
	default:
		return Target{Kind: NotFound}, errFileNotFound
	}
}

func (r *Resolver) isDenied(requestPath string) bool {
	cleaned := path.Clean("/" + requestPath)

	for _, denied := range r.denyPaths {
		if cleaned == denied || strings.HasPrefix(cleaned, strings.TrimSuffix(denied, "/")+"/") {
			return true
		}
	}

	return false
}

func hasParentSegment(requestPath string) bool {
	for _, segment := range strings.Split(requestPath, "/") {
		if segment == ".." {
			return true
		}
	}

	return false
}
