package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// PreviewFileName is the JPEG thumbnail written next to every original.
const PreviewFileName = "preview.jpg"

// FileSystem stores uploaded artwork on disk.
// Files live at {baseDir}/{artworkID}/original{ext} and {baseDir}/{artworkID}/preview.jpg.
type FileSystem struct {
	baseDir string
}

// NewFileSystem creates a FileSystem rooted at baseDir, creating it if needed.
func NewFileSystem(baseDir string) (*FileSystem, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("creating artwork directory: %w", err)
	}
	return &FileSystem{baseDir: baseDir}, nil
}

// ArtworkDir returns the directory holding one artwork's files.
func (fs *FileSystem) ArtworkDir(id string) string {
	return filepath.Join(fs.baseDir, id)
}

// OriginalPath returns where the uploaded file is kept. ext includes the dot.
func (fs *FileSystem) OriginalPath(id, ext string) string {
	return filepath.Join(fs.ArtworkDir(id), "original"+strings.ToLower(ext))
}

// PreviewPath returns where the JPEG preview is kept.
func (fs *FileSystem) PreviewPath(id string) string {
	return filepath.Join(fs.ArtworkDir(id), PreviewFileName)
}

// WriteOriginal copies r to disk unchanged and returns the number of bytes
// written. The upload is never held in memory as a whole.
func (fs *FileSystem) WriteOriginal(id, ext string, r io.Reader) (int64, error) {
	if err := os.MkdirAll(fs.ArtworkDir(id), 0755); err != nil {
		return 0, fmt.Errorf("creating artwork directory: %w", err)
	}
	f, err := os.Create(fs.OriginalPath(id, ext))
	if err != nil {
		return 0, fmt.Errorf("creating artwork file: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("writing artwork file: %w", err)
	}
	return n, nil
}

// WritePreview saves the JPEG preview.
func (fs *FileSystem) WritePreview(id string, data []byte) error {
	return fs.write(id, fs.PreviewPath(id), data)
}

func (fs *FileSystem) write(id, path string, data []byte) error {
	if err := os.MkdirAll(fs.ArtworkDir(id), 0755); err != nil {
		return fmt.Errorf("creating artwork directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing artwork file: %w", err)
	}
	return nil
}

// ReadPreview returns the preview bytes, or ErrNotFound if none was written.
func (fs *FileSystem) ReadPreview(id string) ([]byte, error) {
	data, err := os.ReadFile(fs.PreviewPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading preview: %w", err)
	}
	return data, nil
}

// Delete removes every file of an artwork.
func (fs *FileSystem) Delete(id string) error {
	return os.RemoveAll(fs.ArtworkDir(id))
}
