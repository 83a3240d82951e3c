package s3

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Operator uploads and deletes objects in the vehicle-photo bucket. Rows
// in the photo table store the public URL, so deletion parses the key back
// out of it.
type S3Operator struct {
	Client *s3.Client
	Bucket string
	// PublicEndpoint is the public base URL of the bucket.
	PublicEndpoint *url.URL
}

func NewS3Operator(client *s3.Client, bucket, publicBaseURL string) (*S3Operator, error) {
	const op = "NewS3Operator"
	publicEndpoint, err := url.Parse(publicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to parse public base URL, err=%w", op, err)
	}
	return &S3Operator{Client: client, Bucket: bucket, PublicEndpoint: publicEndpoint}, nil
}

// UploadFileToS3 stores the object and returns its public URL.
func (s *S3Operator) UploadFileToS3(ctx context.Context, path, contentType string, fileContent []byte) (string, error) {
	const op = "UploadFileToS3"
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(path),
		Body:        bytes.NewReader(fileContent),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("[%s] Fail to upload file to S3, err=%w", op, err)
	}
	uri := *s.PublicEndpoint
	uri.Path = path
	return uri.String(), nil
}

// DeleteFileFromS3 removes the object behind a stored public URL.
func (s *S3Operator) DeleteFileFromS3(ctx context.Context, publicURL string) error {
	const op = "DeleteFileFromS3"
	key, err := s.KeyFromPublicURL(publicURL)
	if err != nil {
		return fmt.Errorf("[%s] err=%w", op, err)
	}
	_, err = s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("[%s] Fail to delete file from S3, err=%w", op, err)
	}
	return nil
}

// KeyFromPublicURL recovers the object key from a public URL previously
// returned by UploadFileToS3. URLs pointing at another host are rejected so
// a corrupted row cannot trigger deletes in a foreign bucket.
func (s *S3Operator) KeyFromPublicURL(publicURL string) (string, error) {
	const op = "KeyFromPublicURL"
	parsed, err := url.Parse(publicURL)
	if err != nil {
		return "", fmt.Errorf("[%s] Fail to parse public URL, err=%w", op, err)
	}
	if parsed.Host != s.PublicEndpoint.Host {
		return "", fmt.Errorf("[%s] URL host %q does not match public endpoint %q", op, parsed.Host, s.PublicEndpoint.Host)
	}
	key := strings.TrimPrefix(parsed.Path, "/")
	if key == "" {
		return "", fmt.Errorf("[%s] URL %q carries no object key", op, publicURL)
	}
	return key, nil
}
