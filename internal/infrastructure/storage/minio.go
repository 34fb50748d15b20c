// Package storage offloads large meeting transcripts to S3-compatible
// object storage, keeping only an opaque reference in the database.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/vindepemarte/Kiro-App-1-sub000/pkg/config"
)

const refPrefix = "minio://"

// TranscriptArchive stores transcripts as objects, one per meeting.
type TranscriptArchive struct {
	client *minio.Client
	bucket string
}

// NewTranscriptArchive creates the archive and ensures its bucket exists.
func NewTranscriptArchive(ctx context.Context, cfg config.StorageConfig) (*TranscriptArchive, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	archive := &TranscriptArchive{client: client, bucket: cfg.BucketName}
	if err := archive.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}
	return archive, nil
}

func (a *TranscriptArchive) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

// Archive stores the transcript and returns a reference usable with
// Retrieve. The object key is derived from the meeting id so re-archiving
// overwrites rather than accumulates.
func (a *TranscriptArchive) Archive(ctx context.Context, meetingID string, transcript string) (string, error) {
	objectName := fmt.Sprintf("transcripts/%s.txt", meetingID)
	reader := strings.NewReader(transcript)
	_, err := a.client.PutObject(ctx, a.bucket, objectName, reader, int64(len(transcript)), minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive transcript: %w", err)
	}
	return refPrefix + objectName, nil
}

// Retrieve loads a transcript by the reference Archive returned.
func (a *TranscriptArchive) Retrieve(ctx context.Context, ref string) (string, error) {
	if !strings.HasPrefix(ref, refPrefix) {
		return "", fmt.Errorf("malformed transcript reference %q", ref)
	}
	objectName := strings.TrimPrefix(ref, refPrefix)

	obj, err := a.client.GetObject(ctx, a.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to open transcript object: %w", err)
	}
	defer obj.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, obj); err != nil {
		return "", fmt.Errorf("failed to read transcript object: %w", err)
	}
	return buf.String(), nil
}

// Delete removes an archived transcript. Missing objects are not an error.
func (a *TranscriptArchive) Delete(ctx context.Context, ref string) error {
	objectName := strings.TrimPrefix(ref, refPrefix)
	return a.client.RemoveObject(ctx, a.bucket, objectName, minio.RemoveObjectOptions{})
}
