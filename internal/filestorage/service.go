package filestorage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"charity_marketplace_backend/internal/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// MaxImageSize is the largest accepted image upload.
	MaxImageSize = 5 << 20
	// PublicPathPrefix is the URL prefix under which the storage directory is served.
	PublicPathPrefix = "/uploads"

	sniffLen = 512
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var (
	ErrImageTooLarge    = common.ErrUnprocessableEntity.WithDetails("Image must not be larger than 5 MiB.")
	ErrUnsupportedImage = common.ErrUnprocessableEntity.WithDetails("Image must be a JPEG, PNG, GIF or WebP file.")
	errInvalidPath      = errors.New("invalid file path")
)

// FileStorageService stores uploaded files on the local filesystem.
type FileStorageService struct {
	storagePath string // Base path for storing files, e.g., "./uploads"
	logger      *zap.Logger
}

// NewFileStorageService creates a new FileStorageService and makes sure storagePath exists.
func NewFileStorageService(storagePath string, logger *zap.Logger) (*FileStorageService, error) {
	if storagePath == "" {
		return nil, fmt.Errorf("storage path cannot be empty")
	}
	if err := os.MkdirAll(storagePath, os.ModePerm); err != nil {
		logger.Error("Failed to create storage path directory", zap.String("path", storagePath), zap.Error(err))
		return nil, fmt.Errorf("failed to create storage path %s: %w", storagePath, err)
	}
	logger.Info("FileStorageService initialized", zap.String("storagePath", storagePath))
	return &FileStorageService{storagePath: storagePath, logger: logger.Named("FileStorage")}, nil
}

// StoragePath returns the base directory files are written to.
func (s *FileStorageService) StoragePath() string {
	return s.storagePath
}

// SaveImage validates an uploaded image and stores it under subDir with a
// random file name. The type is taken from the file content, not from the
// client supplied header or file name. It returns the path relative to the
// storage root, e.g. "products/<uuid>.png".
func (s *FileStorageService) SaveImage(fileHeader *multipart.FileHeader, subDir string) (string, error) {
	if fileHeader == nil {
		return "", fmt.Errorf("fileHeader cannot be nil")
	}
	if fileHeader.Size > MaxImageSize {
		return "", ErrImageTooLarge
	}

	src, err := fileHeader.Open()
	if err != nil {
		s.logger.Error("Failed to open uploaded file", zap.Error(err))
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read uploaded file: %w", err)
	}
	head = head[:n]
	extension, ok := imageExtensions[http.DetectContentType(head)]
	if !ok {
		return "", ErrUnsupportedImage
	}

	cleanSubDir, err := cleanRelative(subDir)
	if err != nil {
		s.logger.Error("Invalid subDir", zap.String("subDir", subDir))
		return "", err
	}

	destinationDir := filepath.Join(s.storagePath, cleanSubDir)
	if err := os.MkdirAll(destinationDir, os.ModePerm); err != nil {
		s.logger.Error("Failed to create sub-directory for file storage", zap.String("path", destinationDir), zap.Error(err))
		return "", fmt.Errorf("failed to create directory %s: %w", destinationDir, err)
	}

	uniqueFilename := uuid.NewString() + extension
	destinationPath := filepath.Join(destinationDir, uniqueFilename)

	dst, err := os.Create(destinationPath)
	if err != nil {
		s.logger.Error("Failed to create destination file", zap.String("path", destinationPath), zap.Error(err))
		return "", fmt.Errorf("failed to create file %s: %w", destinationPath, err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.MultiReader(bytes.NewReader(head), io.LimitReader(src, MaxImageSize+1-int64(n))))
	if err == nil && written > MaxImageSize {
		err = ErrImageTooLarge
	}
	if err != nil {
		_ = os.Remove(destinationPath)
		if errors.Is(err, ErrImageTooLarge) {
			return "", err
		}
		s.logger.Error("Failed to copy uploaded file to destination", zap.String("path", destinationPath), zap.Error(err))
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	s.logger.Info("File saved successfully", zap.String("path", destinationPath))
	return filepath.ToSlash(filepath.Join(cleanSubDir, uniqueFilename)), nil
}

// DeleteFile deletes a file given its path relative to the storage root.
// Deleting a file that does not exist is not an error.
func (s *FileStorageService) DeleteFile(relativePath string) error {
	if relativePath == "" {
		return fmt.Errorf("relative path cannot be empty")
	}

	cleanRelativePath, err := cleanRelative(relativePath)
	if err != nil {
		s.logger.Warn("Attempt to delete file with path traversal", zap.String("relativePath", relativePath))
		return fmt.Errorf("invalid file path for deletion: %w", err)
	}

	fullPath := filepath.Join(s.storagePath, cleanRelativePath)
	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("Attempt to delete non-existent file", zap.String("path", fullPath))
			return nil
		}
		s.logger.Error("Failed to delete file", zap.String("path", fullPath), zap.Error(err))
		return fmt.Errorf("failed to delete file %s: %w", fullPath, err)
	}

	s.logger.Info("File deleted successfully", zap.String("path", fullPath))
	return nil
}

// PublicURL returns the URL path a stored file is served under.
func PublicURL(relativePath string) string {
	return PublicPathPrefix + "/" + strings.TrimPrefix(filepath.ToSlash(relativePath), "/")
}

func cleanRelative(p string) (string, error) {
	clean := filepath.Clean(p)
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errInvalidPath
	}
	return clean, nil
}
