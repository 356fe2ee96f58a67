package aws

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sirupsen/logrus"

	"whtpst/core"
)

const keyPrefix = "pastes/"

// S3 rejects object keys longer than this many bytes.
const maxKeyBytes = 1024

type PasteStore struct {
	s3Client *s3.Client
	bucket   string // Name of the S3 bucket
}

// NewPasteStore builds an S3 client from the default credential chain. An
// empty region leaves the choice to the environment.
func NewPasteStore(ctx context.Context, bucketName, region string) (*PasteStore, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS SDK config: %w", err)
	}
	return NewPasteStoreWithClient(s3.NewFromConfig(cfg), bucketName), nil
}

func NewPasteStoreWithClient(client *s3.Client, bucketName string) *PasteStore {
	return &PasteStore{
		s3Client: client,
		bucket:   bucketName,
	}
}

func objectKey(id core.PasteID) string {
	return keyPrefix + id.Key(maxKeyBytes-len(keyPrefix))
}

func (s *PasteStore) Insert(ctx context.Context, paste core.NewPaste) error {
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey(paste.ID)),
		Body:        strings.NewReader(paste.Content.String()),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"paste_id": paste.ID,
			"bucket":   s.bucket,
			"error":    err,
		}).Error("Failed to upload paste")
		return &core.WriteFailureError{Err: err}
	}
	return nil
}

func (s *PasteStore) FindOne(ctx context.Context, id core.PasteID) (core.PasteContent, error) {
	resp, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(id)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return "", &core.NotFoundError{ID: id}
		}
		logrus.WithFields(logrus.Fields{
			"paste_id": id,
			"bucket":   s.bucket,
			"error":    err,
		}).Error("Failed to get paste")
		return "", &core.ReadFailureError{Err: err}
	}
	defer resp.Body.Close()

	data := new(bytes.Buffer)
	if _, err := io.Copy(data, resp.Body); err != nil {
		return "", &core.ReadFailureError{Err: fmt.Errorf("read paste %s: %w", id, err)}
	}
	return core.PasteContent(data.String()), nil
}
