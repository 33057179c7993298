package archive

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"waveforge/logger"
)

// writeGCS uploads the artifact to a Google Cloud Storage object, using a
// service account key configured as base64 (or raw) JSON.
func writeGCS(ctx context.Context, settings map[string]string, filename string, reader io.Reader) error {
	credentialsJSON, err := base64.StdEncoding.DecodeString(settings["credentialsJSON"])
	if err != nil {
		credentialsJSON = []byte(settings["credentialsJSON"])
	}
	bucketName := settings["bucket"]

	client, err := storage.NewClient(ctx, option.WithCredentialsJSON(credentialsJSON))
	if err != nil {
		return fmt.Errorf("storage.NewClient: %w", err)
	}
	defer client.Close()

	obj := client.Bucket(bucketName).Object(filename)
	wc := obj.NewWriter(ctx)

	if _, err = io.Copy(wc, reader); err != nil {
		return fmt.Errorf("io.Copy: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("Writer.Close: %w", err)
	}

	logger.Infof("Archived object '%s' to bucket '%s'", filename, bucketName)
	return nil
}
