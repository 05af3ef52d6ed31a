package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxProfileImageSize is the upload limit for profile photos.
const MaxProfileImageSize = 4 << 20

var (
	ErrFileTooLarge    = errors.New("file exceeds the 4MB limit")
	ErrUnsupportedFile = errors.New("only image files are allowed")
	ErrEmptyFile       = errors.New("file is empty")
	allowedImageTypes  = map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/gif":  ".gif",
		"image/webp": ".webp",
	}
)

// UploadResult is returned once a profile photo is stored
type UploadResult struct {
	UploadedBy string `json:"uploadedBy"`
	URL        string `json:"url"`
}

type StorageService interface {
	UploadProfileImage(ctx context.Context, trainerID uuid.UUID, file io.Reader, size int64) (*UploadResult, error)
	RemoveProfileImage(ctx context.Context, trainerID uuid.UUID, url string) error
}

type storageService struct {
	minioSvc MinioService
	logger   *zap.Logger
}

func NewStorageService(minioSvc MinioService, logger *zap.Logger) StorageService {
	return &storageService{minioSvc: minioSvc, logger: logger}
}

// UploadProfileImage sniffs the content type from the file itself and stores it
// at trainers/<trainerId>/profile/<uuid><ext>.
func (s *storageService) UploadProfileImage(ctx context.Context, trainerID uuid.UUID, file io.Reader, size int64) (*UploadResult, error) {
	if size > MaxProfileImageSize {
		return nil, ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(file, MaxProfileImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if len(data) > MaxProfileImageSize {
		return nil, ErrFileTooLarge
	}

	contentType := http.DetectContentType(data)
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, ErrUnsupportedFile
	}

	objectName := profilePrefix(trainerID) + uuid.NewString() + ext
	if err := s.minioSvc.UploadObject(ctx, objectName, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, fmt.Errorf("store profile image: %w", err)
	}

	s.logger.Info("Upload complete",
		zap.String("trainer_id", trainerID.String()),
		zap.String("object", objectName),
	)
	return &UploadResult{
		UploadedBy: trainerID.String(),
		URL:        s.minioSvc.ObjectURL(objectName),
	}, nil
}

// RemoveProfileImage deletes a photo previously stored for trainerID. URLs that
// point anywhere else, including another trainer's folder, are left alone.
func (s *storageService) RemoveProfileImage(ctx context.Context, trainerID uuid.UUID, url string) error {
	base := s.minioSvc.ObjectURL(profilePrefix(trainerID))
	name, ok := strings.CutPrefix(url, base)
	if !ok || name == "" || strings.Contains(name, "/") {
		return nil
	}

	objectName := profilePrefix(trainerID) + name
	if err := s.minioSvc.DeleteObject(ctx, objectName); err != nil {
		return fmt.Errorf("delete profile image: %w", err)
	}
	s.logger.Info("Profile image removed",
		zap.String("trainer_id", trainerID.String()),
		zap.String("object", objectName),
	)
	return nil
}

func profilePrefix(trainerID uuid.UUID) string {
	return "trainers/" + trainerID.String() + "/profile/"
}
