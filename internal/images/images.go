// Package images picks the random member-page image.
package images

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path"
	"strings"
)

// ErrNoImages means the backing directory or bucket holds nothing eligible.
var ErrNoImages = errors.New("no images available")

// Source yields the URL of one randomly chosen image.
type Source interface {
	Random(ctx context.Context) (string, error)
}

// isImage matches the eligible extensions: jpg, jpeg, png, gif.
func isImage(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".gif":
		return true
	default:
		return false
	}
}

// LocalSource picks from a directory of static files served under urlPrefix.
type LocalSource struct {
	dir       string
	urlPrefix string
}

func NewLocalSource(dir, urlPrefix string) *LocalSource {
	return &LocalSource{dir: dir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}
}

func (s *LocalSource) Random(_ context.Context) (string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return "", fmt.Errorf("read image dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && isImage(e.Name()) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", ErrNoImages
	}

	return s.urlPrefix + "/" + names[rand.Intn(len(names))], nil
}
