// Package storage keeps uploaded files on the local disk and serves them back
// under BASE_URL/uploads.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"signboard-admin/internal/clock"

	"github.com/gosimple/slug"
)

var ErrEmptyUpload = errors.New("empty_upload")

// Object is a stored file.
type Object struct {
	Name string `json:"fileName"`
	Key  string `json:"key"`
	URL  string `json:"url"`
}

// Local saves files below Dir. Keys always use forward slashes.
type Local struct {
	Dir     string
	BaseURL string
	clock   clock.Clock
}

func NewLocal(dir, baseURL string, c clock.Clock) *Local {
	if c == nil {
		c = clock.System()
	}
	return &Local{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/"), clock: c}
}

// Save writes r to <folder...>/<clean filename>. Folder segments and the file
// stem are slugged so nothing can climb out of Dir.
func (l *Local) Save(ctx context.Context, folder []string, filename string, r io.Reader) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}

	name := CleanFilename(filename)
	if name == "" {
		return Object{}, fmt.Errorf("%w: missing file name", ErrEmptyUpload)
	}

	parts := make([]string, 0, len(folder)+1)
	for _, seg := range folder {
		if s := slug.Make(seg); s != "" {
			parts = append(parts, s)
		}
	}
	parts = append(parts, name)
	key := path.Join(parts...)

	full := filepath.Join(l.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return Object{}, fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return Object{}, fmt.Errorf("create %s: %w", key, err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(full)
		return Object{}, fmt.Errorf("write %s: %w", key, err)
	}
	if n == 0 {
		_ = os.Remove(full)
		return Object{}, ErrEmptyUpload
	}

	return Object{Name: name, Key: key, URL: l.URL(key)}, nil
}

// SaveStamped saves under folder with a unix-time prefix, e.g. "1678901234_logo.png".
func (l *Local) SaveStamped(ctx context.Context, folder []string, filename string, r io.Reader) (Object, error) {
	name := CleanFilename(filename)
	if name == "" {
		return Object{}, fmt.Errorf("%w: missing file name", ErrEmptyUpload)
	}
	return l.Save(ctx, folder, fmt.Sprintf("%d_%s", l.clock.Now().Unix(), name), r)
}

// URL is the public address of key.
func (l *Local) URL(key string) string {
	return l.BaseURL + "/uploads/" + key
}

// CleanFilename slugs the stem of filename and keeps a lowercase extension.
func CleanFilename(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(base))
	stem := slug.Make(strings.TrimSuffix(base, filepath.Ext(base)))
	if stem == "" {
		return ""
	}
	ext = strings.TrimLeft(slug.Make(strings.TrimPrefix(ext, ".")), "-")
	if ext == "" {
		return stem
	}
	return stem + "." + ext
}
