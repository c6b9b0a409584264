package job_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/odpf/jobpack/core/job"
	"github.com/odpf/jobpack/internal/errors"
)

func validConfig() job.Config {
	return job.Config{
		Role:         "arn:aws:iam::123456789012:role/processing",
		InputS3Path:  "s3://b/input",
		OutputS3Path: "s3://b/output",
		Bucket:       "b",
		ZipName:      "job1",
		SourceDir:    "./scripts",
		KeyPrefix:    "path-to-zip",
		EntryPoint:   "main_script.py",
		Strategy:     job.StrategyDirect,
		BaseJobName:  "dynamic-zip-spark-job",
		ImageURI:     "173754725891.dkr.ecr.us-east-1.amazonaws.com/sagemaker-spark-processing:3.1-cpu-py37-v1.0",
		Compute: job.Compute{
			InstanceType:  "ml.m5.xlarge",
			InstanceCount: 1,
		},
	}
}

func TestConfig(t *testing.T) {
	t.Run("Validate", func(t *testing.T) {
		t.Run("should return nil for valid config", func(t *testing.T) {
			assert.NoError(t, validConfig().Validate())
		})
		t.Run("should return invalid argument when role is missing", func(t *testing.T) {
			conf := validConfig()
			conf.Role = ""

			err := conf.Validate()

			assert.True(t, errors.IsErrorType(err, errors.ErrInvalidArgument))
			assert.Contains(t, err.Error(), "Role")
		})
		t.Run("should return error for non s3 input path", func(t *testing.T) {
			conf := validConfig()
			conf.InputS3Path = "https://example.com/input"

			assert.Error(t, conf.Validate())
		})
		t.Run("should return error for zip name with separators", func(t *testing.T) {
			conf := validConfig()
			conf.ZipName = "../job1"

			assert.Error(t, conf.Validate())
		})
		t.Run("should return error when instance count is zero", func(t *testing.T) {
			conf := validConfig()
			conf.Compute.InstanceCount = 0

			assert.Error(t, conf.Validate())
		})
		t.Run("should return error for unknown strategy", func(t *testing.T) {
			conf := validConfig()
			conf.Strategy = "docker"

			assert.Error(t, conf.Validate())
		})
	})
	t.Run("ArchiveKey", func(t *testing.T) {
		conf := validConfig()
		assert.Equal(t, "path-to-zip/job1.zip", conf.ArchiveKey())

		conf.KeyPrefix = "/nested/prefix/"
		conf.ZipName = "job1.zip"
		assert.Equal(t, "nested/prefix/job1.zip", conf.ArchiveKey())

		conf.KeyPrefix = ""
		assert.Equal(t, "job1.zip", conf.ArchiveKey())
	})
	t.Run("EntryPointKey", func(t *testing.T) {
		conf := validConfig()
		conf.EntryPoint = "jobs/main_script.py"

		assert.Equal(t, "path-to-zip/job1/code/main_script.py", conf.EntryPointKey())
	})
}

func TestStrategyFrom(t *testing.T) {
	s, err := job.StrategyFrom(" Shell ")
	assert.NoError(t, err)
	assert.Equal(t, job.StrategyShell, s)

	s, err = job.StrategyFrom("direct")
	assert.NoError(t, err)
	assert.Equal(t, job.StrategyDirect, s)

	_, err = job.StrategyFrom("unzip")
	assert.True(t, errors.IsErrorType(err, errors.ErrInvalidArgument))
}

func TestNameFromBase(t *testing.T) {
	now := time.Date(2024, 3, 5, 7, 8, 9, 42*int(time.Millisecond), time.UTC)

	t.Run("should append utc timestamp with millis", func(t *testing.T) {
		assert.Equal(t, "dynamic-zip-spark-job-2024-03-05-07-08-09-042", job.NameFromBase("dynamic-zip-spark-job", now))
	})
	t.Run("should truncate long base names", func(t *testing.T) {
		base := "a-very-long-base-job-name-that-will-not-fit-into-the-service-limit"
		name := job.NameFromBase(base, now)

		assert.Len(t, name, 63)
		assert.Contains(t, name, "-2024-03-05-07-08-09-042")
	})
}

func TestArchiveFileName(t *testing.T) {
	assert.Equal(t, "job1.zip", job.ArchiveFileName("job1"))
	assert.Equal(t, "job1.zip", job.ArchiveFileName("job1.zip"))
	assert.Equal(t, "job1.ZIP", job.ArchiveFileName("job1.ZIP"))
}

func TestRequestArchiveName(t *testing.T) {
	assert.Equal(t, "job1.zip", job.Request{ArchiveURI: "s3://b/path-to-zip/job1.zip"}.ArchiveName())
	assert.Equal(t, "", job.Request{}.ArchiveName())
}

func TestStateFrom(t *testing.T) {
	assert.Equal(t, job.StateCompleted, job.StateFrom("Completed"))
	assert.True(t, job.StateFrom("Failed").IsTerminal())
	assert.False(t, job.StateFrom("InProgress").IsTerminal())
	assert.Equal(t, job.StateUnknown, job.StateFrom("Pending"))
}
