package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"socialeats_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Service hands out presigned URLs so clients upload and download
// photo bytes directly against S3. The server never proxies image data.
type S3Service struct {
	Client *s3.Client
	Bucket string
}

// InitializeS3Service builds the presigner for the given region and
// bucket, falling back to the AWS_REGION environment variable.
func InitializeS3Service(ctx context.Context, region, bucket string) *S3Service {
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		slog.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}
	return &S3Service{
		Client: s3.NewFromConfig(cfg),
		Bucket: bucket,
	}
}

// GenerateUploadURL returns a presigned PUT URL for a new restaurant
// photo, plus the object key the client must report back after upload.
// Only image content types are accepted.
func (s *S3Service) GenerateUploadURL(ctx context.Context, restaurantID, fileName, fileType string) (string, string, error) {
	if restaurantID == "" || fileName == "" {
		return "", "", fmt.Errorf("%w: restaurantId and fileName are required", models.ErrValidation)
	}
	if !strings.HasPrefix(fileType, "image/") {
		return "", "", fmt.Errorf("%w: fileType must be an image content type", models.ErrValidation)
	}

	key := "restaurant_photos/" + restaurantID + "/" + time.Now().Format("20060102150405") + "-" + fileName
	params := &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(fileType),
	}
	presigner := s3.NewPresignClient(s.Client)
	presignedURL, err := presigner.PresignPutObject(ctx, params, s3.WithPresignExpires(5*time.Minute))
	if err != nil {
		return "", "", fmt.Errorf("failed to presign upload: %w", err)
	}
	return presignedURL.URL, key, nil
}

// GenerateReadURL returns a presigned GET URL for an uploaded photo.
func (s *S3Service) GenerateReadURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: key is required", models.ErrValidation)
	}
	params := &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	}
	presigner := s3.NewPresignClient(s.Client)
	presignedURL, err := presigner.PresignGetObject(ctx, params, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", fmt.Errorf("failed to presign read: %w", err)
	}
	return presignedURL.URL, nil
}
