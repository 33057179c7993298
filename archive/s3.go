package archive

import (
	"context"
	"fmt"
	"io"

	"waveforge/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// writeS3 uploads the artifact to an S3 object, initializing its own client
// from the configured static credentials.
func writeS3(ctx context.Context, settings map[string]string, filename string, reader io.Reader) error {
	creds := credentials.NewStaticCredentialsProvider(settings["accessKey"], settings["secretKey"], "")
	bucket := settings["bucket"]

	s3Client := s3.New(s3.Options{
		Region:      settings["region"],
		Credentials: creds,
	})
	uploader := manager.NewUploader(s3Client)

	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(filename),
		Body:   reader,
	})
	if err != nil {
		return fmt.Errorf("failed to upload object %s to bucket %s: %w", filename, bucket, err)
	}

	logger.Infof("Archived object '%s' to bucket '%s'", filename, bucket)
	return nil
}
