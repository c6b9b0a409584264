package bucket

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws/client"
	"go.opentelemetry.io/otel"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/blob/memblob"
	"gocloud.dev/blob/s3blob"

	"github.com/odpf/jobpack/internal/errors"
)

const EntityBucket = "bucket"

type Factory struct {
	sess client.ConfigProvider
}

// New opens the bucket behind storageURL, supported schemes are s3, file and mem.
// A path after the bucket name becomes a key prefix.
func (f *Factory) New(ctx context.Context, storageURL string) (*blob.Bucket, error) {
	spanCtx, span := otel.Tracer("bucket/factory").Start(ctx, "New")
	defer span.End()

	parsedURL, err := url.Parse(storageURL)
	if err != nil {
		return nil, errors.InvalidArgument(EntityBucket, "unable to parse url "+storageURL)
	}

	switch parsedURL.Scheme {
	case "s3":
		span.AddEvent("Init bucket for S3")
		return f.getS3Bucket(spanCtx, parsedURL)

	case "file":
		span.AddEvent("Init bucket for File")
		return fileblob.OpenBucket(parsedURL.Path, &fileblob.Options{
			CreateDir: true,
			Metadata:  fileblob.MetadataDontWrite,
		})

	case "mem":
		return memblob.OpenBucket(nil), nil
	}
	return nil, errors.InvalidArgument(EntityBucket, "unsupported storage config "+parsedURL.String())
}

func (f *Factory) getS3Bucket(ctx context.Context, parsedURL *url.URL) (*blob.Bucket, error) {
	if f.sess == nil {
		return nil, errors.FailedPrecondition(EntityBucket, "aws session is required for s3 buckets")
	}
	if parsedURL.Host == "" {
		return nil, errors.InvalidArgument(EntityBucket, "bucket name is empty in "+parsedURL.String())
	}

	s3Bucket, err := s3blob.OpenBucket(ctx, f.sess, parsedURL.Host, nil)
	if err != nil {
		return nil, errors.InternalError(EntityBucket, "unable to open s3 bucket "+parsedURL.Host, err)
	}

	if strings.Trim(parsedURL.Path, "/") == "" {
		return s3Bucket, nil
	}
	prefix := fmt.Sprintf("%s/", strings.Trim(parsedURL.Path, "/\\"))
	return blob.PrefixedBucket(s3Bucket, prefix), nil
}

func NewFactory(sess client.ConfigProvider) *Factory {
	return &Factory{
		sess: sess,
	}
}
