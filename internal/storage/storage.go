package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const MaxFileSize = 20 * 1024 * 1024

// Store is a flat directory of uploaded files. Each entity type gets its
// own subdirectory so an acta and a cronograma with the same filename
// cannot overwrite each other.
type Store struct {
	dir string
}

func New(root, subdir string) (*Store, error) {
	dir := filepath.Join(root, subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Sanitize reduces a client-supplied filename to a safe flat name: path
// components are dropped, unsafe runes become underscores and leading
// dots are trimmed. An empty result falls back to "archivo".
func Sanitize(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	name = strings.TrimLeft(b.String(), ".")
	if name == "" {
		name = "archivo"
	}
	return name
}

// Save writes src into the store under a sanitized version of name and
// returns the name actually used. Existing files are never overwritten:
// on collision a numeric suffix is appended before the extension.
func (s *Store) Save(name string, src io.Reader, size int64) (string, error) {
	if size > MaxFileSize {
		return "", fmt.Errorf("el archivo supera el tamaño máximo de 20MB")
	}

	safe := Sanitize(name)
	ext := filepath.Ext(safe)
	base := strings.TrimSuffix(safe, ext)

	stored := safe
	for i := 1; ; i++ {
		dst, err := os.OpenFile(filepath.Join(s.dir, stored), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			if _, err := io.Copy(dst, src); err != nil {
				dst.Close()
				os.Remove(filepath.Join(s.dir, stored))
				return "", err
			}
			return stored, dst.Close()
		}
		if !os.IsExist(err) {
			return "", err
		}
		stored = fmt.Sprintf("%s_%d%s", base, i, ext)
	}
}

// Path resolves a stored name to a filesystem path. Only names the store
// itself could have produced are accepted, which blocks traversal.
func (s *Store) Path(name string) (string, error) {
	if name == "" || name != Sanitize(name) {
		return "", fmt.Errorf("nombre de archivo inválido: %q", name)
	}
	return filepath.Join(s.dir, name), nil
}

func (s *Store) Open(name string) (*os.File, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

func (s *Store) Remove(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	return os.Remove(path)
}
