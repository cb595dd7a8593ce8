// internal/domain/upload/service.go
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dajow/dajow-backend/internal/config"
)

var (
	// ErrFileTooLarge is returned when the upload exceeds the size limit
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
	// ErrUnsupportedType is returned for disallowed file extensions
	ErrUnsupportedType = errors.New("file type not allowed")
	// ErrFileNotFound is returned when the upload record does not exist
	ErrFileNotFound = errors.New("file not found")
)

// Service handles product image uploads to local storage
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new upload service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// UploadImage stores a product image on disk and records it. The file
// on disk is removed again when the database insert fails.
func (s *Service) UploadImage(file multipart.File, header *multipart.FileHeader, uploadedBy uint) (*UploadedFile, error) {
	if err := s.validateFile(header); err != nil {
		return nil, err
	}

	filename := s.generateUniqueFilename(header.Filename)
	fullPath := filepath.Join(s.config.Upload.LocalPath, filename)

	if err := os.MkdirAll(s.config.Upload.LocalPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(fullPath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	uploadedFile := UploadedFile{
		OriginalName: header.Filename,
		Filename:     filename,
		Path:         filename,
		URL:          s.publicURL(filename),
		MimeType:     mimeTypeFor(header.Filename),
		Size:         header.Size,
		UploadedBy:   uploadedBy,
	}

	if err := s.db.Create(&uploadedFile).Error; err != nil {
		os.Remove(fullPath)
		return nil, fmt.Errorf("failed to save file info: %w", err)
	}

	return &uploadedFile, nil
}

// ListImages retrieves uploaded images, newest first
func (s *Service) ListImages(page, limit int) ([]UploadedFile, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := s.db.Model(&UploadedFile{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count uploads: %w", err)
	}

	var files []UploadedFile
	offset := (page - 1) * limit
	if err := s.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&files).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve uploads: %w", err)
	}

	return files, total, nil
}

// GetImage retrieves a single upload record
func (s *Service) GetImage(id uint) (*UploadedFile, error) {
	var file UploadedFile
	if err := s.db.First(&file, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to retrieve upload: %w", err)
	}
	return &file, nil
}

// DeleteImage removes the record and the file on disk
func (s *Service) DeleteImage(id uint) error {
	file, err := s.GetImage(id)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.config.Upload.LocalPath, file.Path)
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	if err := s.db.Delete(file).Error; err != nil {
		return fmt.Errorf("failed to delete upload record: %w", err)
	}

	return nil
}

func (s *Service) validateFile(header *multipart.FileHeader) error {
	if header.Size > s.config.Upload.MaxSize {
		return ErrFileTooLarge
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	for _, allowed := range s.config.Upload.AllowedExtensions {
		if ext == allowed {
			return nil
		}
	}
	return ErrUnsupportedType
}

func (s *Service) generateUniqueFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return uuid.New().String() + ext
}

func (s *Service) publicURL(filename string) string {
	return strings.TrimSuffix(s.config.Upload.PublicBaseURL, "/") + "/" + filename
}

func mimeTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
