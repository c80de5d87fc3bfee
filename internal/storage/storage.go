package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	pkgconfig "github.com/instock-app/instock-server/pkg/config"
	"go.uber.org/zap"
)

// Service uploads item and milestone images to the object store.
type Service struct {
	uploader *manager.Uploader
	bucket   string
	logger   *zap.Logger
}

func NewS3Client(cfg *pkgconfig.Config) (*s3.Client, error) {
	if cfg.LocalMode {
		awsCfg, err := config.LoadDefaultConfig(context.TODO(),
			config.WithRegion(cfg.AWSRegion),
			config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider("local", "local", ""),
			),
		)
		if err != nil {
			return nil, err
		}
		return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}), nil
	}

	awsCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(awsCfg), nil
}

func NewService(client *s3.Client, bucket string, logger *zap.Logger) *Service {
	return &Service{
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		logger:   logger,
	}
}

// UploadFile streams the body to the bucket under key and returns the stored
// object's location.
func (s *Service) UploadFile(ctx context.Context, key string, body io.Reader) (string, error) {
	result, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	s.logger.Info("File uploaded",
		zap.String("bucket", s.bucket),
		zap.String("key", key))

	return result.Location, nil
}
