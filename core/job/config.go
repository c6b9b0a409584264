package job

import (
	"net/url"
	"path"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/odpf/jobpack/internal/errors"
)

// Config holds the values of one pipeline invocation; it is not changed after
// being built
type Config struct {
	Role         string
	InputS3Path  string
	OutputS3Path string
	Bucket       string
	ZipName      string
	SourceDir    string
	KeyPrefix    string
	KeepArchive  bool

	EntryPoint        string
	Interpreter       string
	Strategy          Strategy
	BaseJobName       string
	ImageURI          string
	Compute           Compute
	Tags              map[string]string
	ReportSubmitError bool
}

func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Role, validation.Required),
		validation.Field(&c.InputS3Path, validation.Required, validation.By(s3URI)),
		validation.Field(&c.OutputS3Path, validation.Required, validation.By(s3URI)),
		validation.Field(&c.Bucket, validation.Required),
		validation.Field(&c.ZipName, validation.Required, validation.By(plainName)),
		validation.Field(&c.SourceDir, validation.Required),
		validation.Field(&c.EntryPoint, validation.Required),
		validation.Field(&c.Strategy, validation.Required, validation.In(StrategyDirect, StrategyShell)),
		validation.Field(&c.BaseJobName, validation.Required),
		validation.Field(&c.ImageURI, validation.Required),
		validation.Field(&c.Compute, validation.By(validCompute)),
	)
	if err != nil {
		return errors.InvalidArgument(EntityJob, err.Error())
	}
	return nil
}

// ArchiveKey is the object key of the uploaded archive
func (c Config) ArchiveKey() string {
	return path.Join(strings.Trim(c.KeyPrefix, "/"), ArchiveFileName(c.ZipName))
}

// EntryPointKey is where the entry script is uploaded for StrategyDirect
func (c Config) EntryPointKey() string {
	name := strings.TrimSuffix(ArchiveFileName(c.ZipName), ArchiveExtension)
	return path.Join(strings.Trim(c.KeyPrefix, "/"), name, "code", path.Base(c.EntryPoint))
}

func s3URI(value interface{}) error {
	raw, _ := value.(string)
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "s3" || u.Host == "" {
		return errors.InvalidArgument(EntityJob, "expected s3://bucket/key uri")
	}
	return nil
}

func plainName(value interface{}) error {
	name, _ := value.(string)
	if strings.ContainsAny(name, `/\`) {
		return errors.InvalidArgument(EntityJob, "must not contain path separators")
	}
	return nil
}

func validCompute(value interface{}) error {
	compute, _ := value.(Compute)
	return validation.ValidateStruct(&compute,
		validation.Field(&compute.InstanceType, validation.Required),
		validation.Field(&compute.InstanceCount, validation.Required, validation.Min(int64(1))),
	)
}
