// file: internal/services/file_service.go
package services

import (
	"bytes"
	"context"
	"ecotrack/internal/events"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

// fileService implements FileService on Cloudinary
type fileService struct {
	cloudinary *cloudinary.Cloudinary
	events     events.EventBus
	logger     *zap.Logger
	config     *FileServiceConfig
}

// FileServiceConfig holds file service configuration
type FileServiceConfig struct {
	MaxImageSize      int64         `json:"max_image_size"`
	AllowedImageTypes []string      `json:"allowed_image_types"`
	UploadTimeout     time.Duration `json:"upload_timeout"`
	MaxRetries        uint64        `json:"max_retries"`
	Quality           int           `json:"quality"`
}

// DefaultFileConfig returns default file service configuration
func DefaultFileConfig() *FileServiceConfig {
	return &FileServiceConfig{
		MaxImageSize: 5 * 1024 * 1024, // 5MB
		AllowedImageTypes: []string{
			"image/jpeg", "image/jpg", "image/png",
			"image/gif", "image/webp",
		},
		UploadTimeout: 2 * time.Minute,
		MaxRetries:    3,
		Quality:       85,
	}
}

// NewFileService creates a new Cloudinary-backed file service
func NewFileService(cld *cloudinary.Cloudinary, events events.EventBus, logger *zap.Logger, config *FileServiceConfig) FileService {
	if config == nil {
		config = DefaultFileConfig()
	}
	return &fileService{
		cloudinary: cld,
		events:     events,
		logger:     logger,
		config:     config,
	}
}

// UploadImage stores an action photo, retrying transient upload failures
func (s *fileService) UploadImage(ctx context.Context, req *FileUploadRequest) (*FileUploadResponse, error) {
	if err := s.validateImageUpload(req); err != nil {
		return nil, err
	}

	uploadCtx, cancel := context.WithTimeout(ctx, s.config.UploadTimeout)
	defer cancel()

	// Buffer the payload so retries can replay it.
	payload, err := io.ReadAll(io.LimitReader(req.File, s.config.MaxImageSize+1))
	if err != nil {
		s.logger.Error("Failed to read upload payload", zap.Error(err))
		return nil, NewInternalError("failed to read upload")
	}
	if int64(len(payload)) > s.config.MaxImageSize {
		return nil, NewValidationError(
			fmt.Sprintf("image exceeds the %d byte limit", s.config.MaxImageSize), nil)
	}

	params := uploader.UploadParams{
		Folder:         s.uploadFolder(req.Folder, req.UserID),
		ResourceType:   "image",
		Transformation: fmt.Sprintf("q_%d", s.config.Quality),
		UseFilename:    boolPtr(false),
		UniqueFilename: boolPtr(true),
		Tags:           []string{"ecotrack", "action_photo"},
	}

	var result *uploader.UploadResult
	operation := func() error {
		var err error
		result, err = s.cloudinary.Upload.Upload(uploadCtx, bytes.NewReader(payload), params)
		return err
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), s.config.MaxRetries), uploadCtx)
	if err := backoff.Retry(operation, policy); err != nil {
		s.logger.Error("Failed to upload image",
			zap.Error(err),
			zap.Int64("user_id", req.UserID),
			zap.String("filename", req.Filename),
		)
		return nil, NewInternalError("failed to upload image")
	}

	resp := &FileUploadResponse{
		URL:        result.SecureURL,
		PublicID:   result.PublicID,
		Format:     result.Format,
		Size:       int64(result.Bytes),
		Width:      result.Width,
		Height:     result.Height,
		UploadedAt: time.Now(),
	}

	s.logger.Info("Image uploaded",
		zap.Int64("user_id", req.UserID),
		zap.String("public_id", resp.PublicID),
		zap.Int64("size", resp.Size),
	)

	return resp, nil
}

// DeleteFile removes a stored photo
func (s *fileService) DeleteFile(ctx context.Context, publicID string) error {
	if publicID == "" {
		return NewValidationError("public ID is required", nil)
	}

	deleteCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	result, err := s.cloudinary.Upload.Destroy(deleteCtx, uploader.DestroyParams{
		PublicID: publicID,
	})
	if err != nil {
		s.logger.Error("Failed to delete file",
			zap.Error(err),
			zap.String("public_id", publicID),
		)
		return NewInternalError("failed to delete file")
	}
	if result.Result != "ok" && result.Result != "not found" {
		s.logger.Warn("File deletion result was not OK",
			zap.String("public_id", publicID),
			zap.String("result", result.Result),
		)
		return NewInternalError("file deletion was not successful")
	}

	s.logger.Info("File deleted", zap.String("public_id", publicID))
	return nil
}

// Health verifies the Cloudinary credentials are usable
func (s *fileService) Health(ctx context.Context) error {
	if s.cloudinary == nil {
		return fmt.Errorf("file storage not configured")
	}
	return nil
}

// ===============================
// VALIDATION HELPERS
// ===============================

func (s *fileService) validateImageUpload(req *FileUploadRequest) error {
	if req == nil || req.File == nil {
		return NewValidationError("no file provided", nil)
	}
	if req.Size <= 0 || req.Size > s.config.MaxImageSize {
		return NewValidationError(
			fmt.Sprintf("image must be between 1 and %d bytes", s.config.MaxImageSize), nil)
	}

	contentType := strings.ToLower(req.ContentType)
	if !slices.Contains(s.config.AllowedImageTypes, contentType) {
		return NewValidationError(
			fmt.Sprintf("unsupported image type %q", req.ContentType), nil)
	}

	ext := strings.ToLower(filepath.Ext(req.Filename))
	if !slices.Contains([]string{".jpg", ".jpeg", ".png", ".gif", ".webp"}, ext) {
		return NewValidationError(
			fmt.Sprintf("unsupported file extension %q", ext), nil)
	}

	return nil
}

func (s *fileService) uploadFolder(folder string, userID int64) string {
	if folder == "" {
		folder = "actions"
	}
	return fmt.Sprintf("ecotrack/%s/%d", folder, userID)
}

func boolPtr(b bool) *bool {
	return &b
}
