package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrFileTooLarge = errors.New("file exceeds the upload size limit")

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".svg":  true,
}

// Upload is a file received from a multipart form.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// FileStore keeps uploaded images and returns their public path.
type FileStore interface {
	Save(ctx context.Context, upload Upload) (string, error)
	Remove(ctx context.Context, storedPath string) error
}

// LocalStore writes files as <dir>/<uuid>.<ext>.
type LocalStore struct {
	dir     string
	maxSize int64
}

func NewLocalStore(dir string, maxSize int64) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, maxSize: maxSize}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(ctx context.Context, upload Upload) (string, error) {
	if s.maxSize > 0 && upload.Size > s.maxSize {
		return "", ErrFileTooLarge
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(upload.Filename))
	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	defer dst.Close()

	src := upload.Content
	if s.maxSize > 0 {
		// Size comes from the client; cap what is actually read
		src = io.LimitReader(src, s.maxSize+1)
	}
	n, err := io.Copy(dst, src)
	if err == nil && s.maxSize > 0 && n > s.maxSize {
		err = ErrFileTooLarge
	}
	if err != nil {
		_ = os.Remove(dst.Name())
		if errors.Is(err, ErrFileTooLarge) {
			return "", err
		}
		return "", fmt.Errorf("write upload: %w", err)
	}

	return path.Join(filepath.ToSlash(s.dir), name), nil
}

// Remove deletes a file previously returned by Save. Missing files are ignored,
// as are paths outside the upload directory.
func (s *LocalStore) Remove(_ context.Context, storedPath string) error {
	if storedPath == "" {
		return nil
	}
	name := filepath.Base(filepath.FromSlash(storedPath))
	if name == "." || name == string(filepath.Separator) {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

// checkImage validates the upload before it reaches the store.
func checkImage(upload Upload) error {
	if upload.Content == nil || upload.Filename == "" {
		return validationError("Please select an image to upload.")
	}
	if !imageExtensions[strings.ToLower(filepath.Ext(upload.Filename))] {
		return validationError("The file must be an image (jpg, jpeg, png, gif, webp, bmp, svg).")
	}
	return nil
}

// replaceImage stores upload, hands its path to persist and, once that
// succeeds, removes the previous file.
func replaceImage(ctx context.Context, store FileStore, upload Upload, previous *string, persist func(string) error) (string, error) {
	if err := checkImage(upload); err != nil {
		return "", err
	}
	stored, err := store.Save(ctx, upload)
	if err != nil {
		if errors.Is(err, ErrFileTooLarge) {
			return "", validationError("The file is too large.")
		}
		return "", internalError(err)
	}
	if err := persist(stored); err != nil {
		_ = store.Remove(ctx, stored)
		return "", internalError(err)
	}
	if previous != nil && *previous != "" && *previous != stored {
		_ = store.Remove(ctx, *previous)
	}
	return stored, nil
}
