package storage

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"research-repository-api/models"
)

const DefaultMaxUploadSize = int64(10 * 1024 * 1024) // 10MB

var (
	ErrFileTooLarge    = errors.New("file exceeds upload size limit")
	ErrFileTypeDenied  = errors.New("file type not allowed")
	ErrInvalidLocation = errors.New("storage path is outside the upload root")
)

var allowedTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".odt":  "application/vnd.oasis.opendocument.text",
	".txt":  "text/plain",
	".zip":  "application/zip",
}

// Upload is an incoming document.
type Upload struct {
	Name     string
	MimeType string
	Size     int64
	Content  io.Reader
}

// LocalStore keeps submission files under a per-user folder tree on disk.
type LocalStore struct {
	root    string
	maxSize int64
}

func NewLocalStore(root string, maxSize int64) (*LocalStore, error) {
	if root == "" {
		root = "./uploads"
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxUploadSize
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload root: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(abs, "users"), os.ModePerm); err != nil {
		return nil, fmt.Errorf("create upload root: %w", err)
	}
	return &LocalStore{root: abs, maxSize: maxSize}, nil
}

// Save writes the upload to users/<ownerID>/submissions/<uuid><ext> and
// returns its reference. Storage paths are relative to the root.
func (s *LocalStore) Save(ownerID string, upload Upload) (models.FileRef, error) {
	if upload.Size > s.maxSize {
		return models.FileRef{}, ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(upload.Name))
	defaultType, ok := allowedTypes[ext]
	if !ok {
		return models.FileRef{}, fmt.Errorf("%w: %s", ErrFileTypeDenied, ext)
	}

	folder := filepath.Join("users", safeSegment(ownerID), "submissions")
	if err := os.MkdirAll(filepath.Join(s.root, folder), os.ModePerm); err != nil {
		return models.FileRef{}, fmt.Errorf("create submission folder: %w", err)
	}

	relPath := filepath.ToSlash(filepath.Join(folder, uuid.NewString()+ext))
	fullPath := filepath.Join(s.root, filepath.FromSlash(relPath))

	out, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return models.FileRef{}, fmt.Errorf("create file: %w", err)
	}

	// One extra byte tells us the declared size was a lie.
	written, copyErr := io.Copy(out, io.LimitReader(upload.Content, s.maxSize+1))
	closeErr := out.Close()
	if copyErr == nil && written > s.maxSize {
		copyErr = ErrFileTooLarge
	}
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(fullPath)
		if copyErr != nil {
			return models.FileRef{}, fmt.Errorf("write file: %w", copyErr)
		}
		return models.FileRef{}, fmt.Errorf("close file: %w", closeErr)
	}

	return models.FileRef{
		Name:        filepath.Base(upload.Name),
		StoragePath: relPath,
		MimeType:    detectMimeType(upload.MimeType, ext, defaultType),
	}, nil
}

// Resolve maps a storage path to an absolute path inside the root.
func (s *LocalStore) Resolve(storagePath string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(storagePath))
	if filepath.IsAbs(cleaned) || cleaned == "." || strings.HasPrefix(cleaned, "..") {
		return "", ErrInvalidLocation
	}
	full := filepath.Join(s.root, cleaned)
	rel, err := filepath.Rel(s.root, full)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", ErrInvalidLocation
	}
	return full, nil
}

// Remove deletes a stored file. Missing files are not an error.
func (s *LocalStore) Remove(storagePath string) error {
	full, err := s.Resolve(storagePath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func detectMimeType(declared, ext, fallback string) string {
	if declared != "" && declared != "application/octet-stream" {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil {
			return mediaType
		}
	}
	if byExt := mime.TypeByExtension(ext); byExt != "" {
		if mediaType, _, err := mime.ParseMediaType(byExt); err == nil {
			return mediaType
		}
	}
	return fallback
}

func safeSegment(value string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, value)
	if cleaned == "" {
		return "unknown"
	}
	return cleaned
}
