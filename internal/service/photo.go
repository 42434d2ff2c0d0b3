package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/proteintrack/backend/config"
	"github.com/proteintrack/backend/internal/models"
)

// PhotoService stores meal photos in S3 and records the resulting URL on
// the food entry. Photos are ancillary metadata and play no part in the
// intake totals.
type PhotoService struct {
	db       *gorm.DB
	s3Config *config.S3Config
}

// NewPhotoService creates a new PhotoService instance
func NewPhotoService(db *gorm.DB, s3Config *config.S3Config) *PhotoService {
	return &PhotoService{
		db:       db,
		s3Config: s3Config,
	}
}

// AttachMealPhoto uploads photo data for one of the user's entries and
// saves the public URL on it.
func (s *PhotoService) AttachMealPhoto(ctx context.Context, userID, entryID uuid.UUID, data []byte, contentType string) (string, error) {
	if s.s3Config == nil {
		return "", errors.New("photo storage is not configured")
	}

	var entry models.FoodEntry
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", entryID, userID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrEntryNotFound
		}
		return "", err
	}

	fileName := fmt.Sprintf("meal-photos/%s.jpg", uuid.New().String())
	if contentType == "" {
		contentType = "image/jpeg"
	}

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	photoURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName)
	log.Printf("[PhotoService] Uploaded meal photo for entry %s: %s", entryID, photoURL)

	if err := s.db.WithContext(ctx).Model(&models.FoodEntry{}).
		Where("id = ?", entry.ID).
		Update("photo_url", photoURL).Error; err != nil {
		return "", err
	}

	return photoURL, nil
}
