package upload

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"

	"github.com/odpf/salt/log"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"gocloud.dev/blob"

	"github.com/odpf/jobpack/ext/store/bucket"
	"github.com/odpf/jobpack/internal/errors"
)

const (
	EntityUpload = "upload"

	zipContentType = "application/zip"
)

type Bucket interface {
	NewWriter(ctx context.Context, key string, opts *blob.WriterOptions) (*blob.Writer, error)
	Close() error
}

// Object is an uploaded file
type Object struct {
	Bucket string
	Key    string
	Size   int64
}

func (o Object) URI() string {
	return bucket.Location{Bucket: o.Bucket, Key: o.Key}.URI()
}

// ByteCounter is told how many bytes an upload will move and how many moved so far
type ByteCounter interface {
	Start(name string, total int64) io.Writer
	Finish()
}

type Uploader struct {
	fs         afero.Fs
	bucket     Bucket
	bucketName string
	keyPrefix  string
	logger     log.Logger
	counter    ByteCounter
}

// Upload streams the local file to key, any existing object at key is overwritten
func (u *Uploader) Upload(ctx context.Context, localPath, key string) (Object, error) {
	in, err := u.fs.Open(localPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Object{}, errors.NotFound(EntityUpload, fmt.Sprintf("local file [%s] does not exist", localPath))
		}
		return Object{}, errors.InternalError(EntityUpload, "unable to open "+localPath, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return Object{}, errors.InternalError(EntityUpload, "unable to stat "+localPath, err)
	}

	obj := Object{Bucket: u.bucketName, Key: u.objectKey(key), Size: info.Size()}
	w, err := u.bucket.NewWriter(ctx, key, &blob.WriterOptions{
		ContentType: contentType(localPath),
	})
	if err != nil {
		return Object{}, errors.InternalError(EntityUpload, "unable to open writer for "+obj.URI(), err)
	}

	var src io.Reader = in
	if u.counter != nil {
		src = io.TeeReader(in, u.counter.Start(filepath.Base(localPath), info.Size()))
		defer u.counter.Finish()
	}

	_, copyErr := io.Copy(w, src)
	// Close commits the object, it must run even when the copy failed
	if err := multierr.Append(copyErr, w.Close()); err != nil {
		return Object{}, errors.InternalError(EntityUpload, fmt.Sprintf("unable to upload %s to %s", localPath, obj.URI()), err)
	}

	u.logger.Debug("uploaded %s (%d bytes) to %s", localPath, obj.Size, obj.URI())
	return obj, nil
}

func (u *Uploader) objectKey(key string) string {
	if u.keyPrefix == "" {
		return key
	}
	return path.Join(u.keyPrefix, key)
}

// Cleanup removes the local artifact, a failure is only reported
func (u *Uploader) Cleanup(localPath string) bool {
	if err := u.fs.Remove(localPath); err != nil {
		u.logger.Warn("unable to remove local artifact %s: %s", localPath, err)
		return false
	}
	return true
}

func (u *Uploader) Close() error {
	return u.bucket.Close()
}

func contentType(localPath string) string {
	ext := filepath.Ext(localPath)
	if ext == ".zip" {
		return zipContentType
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

type Option func(*Uploader)

func WithByteCounter(counter ByteCounter) Option {
	return func(u *Uploader) {
		u.counter = counter
	}
}

// WithKeyPrefix is the prefix the bucket already applies to every key, it
// only affects the reported object location
func WithKeyPrefix(prefix string) Option {
	return func(u *Uploader) {
		u.keyPrefix = prefix
	}
}

func NewUploader(fs afero.Fs, b Bucket, bucketName string, logger log.Logger, opts ...Option) *Uploader {
	u := &Uploader{
		fs:         fs,
		bucket:     b,
		bucketName: bucketName,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}
