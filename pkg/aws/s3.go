package aws

import (
	"bytes"
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// NewS3Client creates a new S3 client from AWS config.
func NewS3Client(cfg sdkaws.Config) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = usePathStyle(cfg)
	})
}

// InvoiceArchive stores exported invoices in one bucket.
type InvoiceArchive struct {
	client *s3.Client
	bucket string
}

func NewInvoiceArchive(client *s3.Client, bucket string) *InvoiceArchive {
	return &InvoiceArchive{client: client, bucket: bucket}
}

// Put uploads body under key, replacing any previous export.
func (a *InvoiceArchive) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:               sdkaws.String(a.bucket),
		Key:                  sdkaws.String(key),
		Body:                 bytes.NewReader(body),
		ContentType:          sdkaws.String(contentType),
		ContentLength:        sdkaws.Int64(int64(len(body))),
		ServerSideEncryption: types.ServerSideEncryptionAes256,
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s/%s: %w", a.bucket, key, err)
	}
	return nil
}
