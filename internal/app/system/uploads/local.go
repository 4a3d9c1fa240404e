package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Local stores files under a root directory and serves them under URLPrefix.
type Local struct {
	root      string
	urlPrefix string
}

// NewLocal creates the root directory if needed.
func NewLocal(root, urlPrefix string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{root: root, urlPrefix: "/" + strings.Trim(urlPrefix, "/")}, nil
}

// Put writes r to root/p.
func (l *Local) Put(ctx context.Context, p string, r io.Reader, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full := l.fullPath(p)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	f, err := os.Create(full)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Delete removes root/p.
func (l *Local) Delete(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(l.fullPath(p)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (l *Local) fullPath(p string) string {
	return filepath.Join(l.root, filepath.FromSlash(path.Clean("/"+p)))
}

// URL returns URLPrefix/p.
func (l *Local) URL(p string) string {
	return l.urlPrefix + path.Clean("/"+p)
}

// URLPrefix is the mount point for Handler.
func (l *Local) URLPrefix() string { return l.urlPrefix }

// Handler serves stored files. Mount it at URLPrefix.
func (l *Local) Handler() http.Handler {
	return http.StripPrefix(l.urlPrefix, http.FileServer(http.Dir(l.root)))
}
