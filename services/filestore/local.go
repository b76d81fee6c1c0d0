package filesvc

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/edutube/core"
	"github.com/trezcool/edutube/core/content"
)

var ErrOutsideDir = errors.New("invalid file path")

// LocalStore stages uploads in a directory of the local disk.
type LocalStore struct {
	dir string // absolute
}

var _ content.FileStore = (*LocalStore)(nil) // interface compliance check

// NewLocalStore creates dir if needed. A relative dir is resolved against the project root.
func NewLocalStore(dir string) (*LocalStore, error) {
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(core.RootDir(), dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating upload dir")
	}
	return &LocalStore{dir: filepath.Clean(dir)}, nil
}

func (s *LocalStore) Dir() string { return s.dir }

// Save writes r under a unique name that keeps the extension of name.
func (s *LocalStore) Save(name string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	path := filepath.Join(s.dir, "files-"+uuid.NewString()+ext)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", errors.Wrap(err, "creating staged file")
	}
	if _, err = io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", errors.Wrap(err, "writing staged file")
	}
	if err = f.Close(); err != nil {
		_ = os.Remove(path)
		return "", errors.Wrap(err, "closing staged file")
	}
	return path, nil
}

func (s *LocalStore) Read(path string) ([]byte, error) {
	p, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

// Remove deletes a staged file. Removing a missing file is not an error.
func (s *LocalStore) Remove(path string) error {
	p, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err = os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// resolve rejects any path that is not a file directly inside the upload dir.
func (s *LocalStore) resolve(path string) (string, error) {
	if path == "" {
		return "", core.NewValidationError(ErrOutsideDir)
	}
	p := path
	if !filepath.IsAbs(p) {
		p = filepath.Join(s.dir, p)
	}
	p = filepath.Clean(p)
	if filepath.Dir(p) != s.dir {
		return "", core.NewValidationError(ErrOutsideDir)
	}
	return p, nil
}
