package sagemaker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	sm "github.com/aws/aws-sdk-go/service/sagemaker"
	"github.com/odpf/salt/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/odpf/jobpack/core/job"
	"github.com/odpf/jobpack/ext/processor/sagemaker"
	errs "github.com/odpf/jobpack/internal/errors"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) CreateProcessingJobWithContext(ctx aws.Context, in *sm.CreateProcessingJobInput, _ ...request.Option) (*sm.CreateProcessingJobOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sm.CreateProcessingJobOutput), args.Error(1)
}

func (m *mockAPI) DescribeProcessingJobWithContext(ctx aws.Context, in *sm.DescribeProcessingJobInput, _ ...request.Option) (*sm.DescribeProcessingJobOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sm.DescribeProcessingJobOutput), args.Error(1)
}

func directRequest() job.Request {
	return job.Request{
		Name:          "dynamic-zip-spark-job-2024-03-05-07-08-09-042",
		Role:          "arn:aws:iam::123456789012:role/processing",
		ImageURI:      "173754725891.dkr.ecr.us-east-1.amazonaws.com/sagemaker-spark-processing:3.1-cpu-py37-v1.0",
		Strategy:      job.StrategyDirect,
		EntryPoint:    "main_script.py",
		ArchiveURI:    "s3://b/path-to-zip/job1.zip",
		EntryPointURI: "s3://b/path-to-zip/job1/code/main_script.py",
		Interpreter:   "python3",
		Inputs: []job.Input{
			{Name: "input", SourceURI: "s3://b/input", LocalPath: job.InputDataPath},
		},
		Outputs: []job.Output{
			{Name: "output", LocalPath: job.OutputPath, DestinationURI: "s3://b/output"},
		},
		Compute: job.Compute{
			InstanceType:      "ml.m5.xlarge",
			InstanceCount:     1,
			VolumeSizeGB:      30,
			MaxRuntimeSeconds: 3600,
		},
		Tags: map[string]string{"team": "data", "app": "jobpack"},
	}
}

func inputNamed(in *sm.CreateProcessingJobInput, name string) *sm.ProcessingInput {
	for _, i := range in.ProcessingInputs {
		if aws.StringValue(i.InputName) == name {
			return i
		}
	}
	return nil
}

func TestBuildInput(t *testing.T) {
	t.Run("direct strategy references archive and entry point", func(t *testing.T) {
		in, err := sagemaker.BuildInput(directRequest())
		require.NoError(t, err)

		assert.Equal(t, "dynamic-zip-spark-job-2024-03-05-07-08-09-042", aws.StringValue(in.ProcessingJobName))
		assert.Equal(t, "arn:aws:iam::123456789012:role/processing", aws.StringValue(in.RoleArn))
		assert.Equal(t, []string{"smspark-submit"}, aws.StringValueSlice(in.AppSpecification.ContainerEntrypoint))
		assert.Equal(t, []string{
			"--py-files", "/opt/ml/processing/input/py-files/job1.zip",
			"/opt/ml/processing/input/code/main_script.py",
		}, aws.StringValueSlice(in.AppSpecification.ContainerArguments))

		code := inputNamed(in, "code")
		require.NotNil(t, code)
		assert.Equal(t, "s3://b/path-to-zip/job1/code/main_script.py", aws.StringValue(code.S3Input.S3Uri))
		pyFiles := inputNamed(in, "py-files")
		require.NotNil(t, pyFiles)
		assert.Equal(t, "s3://b/path-to-zip/job1.zip", aws.StringValue(pyFiles.S3Input.S3Uri))
		assert.Equal(t, "/opt/ml/processing/input/py-files", aws.StringValue(pyFiles.S3Input.LocalPath))
		data := inputNamed(in, "input")
		require.NotNil(t, data)
		assert.Equal(t, "/opt/ml/processing/input/data", aws.StringValue(data.S3Input.LocalPath))
		assert.Equal(t, sm.ProcessingS3InputModeFile, aws.StringValue(data.S3Input.S3InputMode))

		require.Len(t, in.ProcessingOutputConfig.Outputs, 1)
		out := in.ProcessingOutputConfig.Outputs[0]
		assert.Equal(t, "/opt/ml/processing/output", aws.StringValue(out.S3Output.LocalPath))
		assert.Equal(t, "s3://b/output", aws.StringValue(out.S3Output.S3Uri))
		assert.Equal(t, sm.ProcessingS3UploadModeEndOfJob, aws.StringValue(out.S3Output.S3UploadMode))

		cluster := in.ProcessingResources.ClusterConfig
		assert.Equal(t, "ml.m5.xlarge", aws.StringValue(cluster.InstanceType))
		assert.Equal(t, int64(1), aws.Int64Value(cluster.InstanceCount))
		assert.Equal(t, int64(30), aws.Int64Value(cluster.VolumeSizeInGB))
		assert.Equal(t, int64(3600), aws.Int64Value(in.StoppingCondition.MaxRuntimeInSeconds))

		require.Len(t, in.Tags, 2)
		assert.Equal(t, "app", aws.StringValue(in.Tags[0].Key))
		assert.Equal(t, "team", aws.StringValue(in.Tags[1].Key))
	})
	t.Run("shell strategy unzips and runs the interpreter", func(t *testing.T) {
		req := directRequest()
		req.Strategy = job.StrategyShell
		req.EntryPointURI = ""

		in, err := sagemaker.BuildInput(req)
		require.NoError(t, err)

		assert.Equal(t, []string{"/bin/bash", "-c"}, aws.StringValueSlice(in.AppSpecification.ContainerEntrypoint))
		assert.Equal(t, []string{
			"cd /opt/ml/processing/input/code && unzip -o -q job1.zip -d /opt/ml/processing/input/code/src && cd /opt/ml/processing/input/code/src && python3 main_script.py",
		}, aws.StringValueSlice(in.AppSpecification.ContainerArguments))
		code := inputNamed(in, "code")
		require.NotNil(t, code)
		assert.Equal(t, "s3://b/path-to-zip/job1.zip", aws.StringValue(code.S3Input.S3Uri))
		assert.Nil(t, inputNamed(in, "py-files"))
	})
	t.Run("direct strategy requires the entry point uri", func(t *testing.T) {
		req := directRequest()
		req.EntryPointURI = ""

		_, err := sagemaker.BuildInput(req)

		assert.True(t, errs.IsErrorType(err, errs.ErrInvalidArgument))
	})
	t.Run("fails for unknown strategy", func(t *testing.T) {
		req := directRequest()
		req.Strategy = "docker"

		_, err := sagemaker.BuildInput(req)

		assert.True(t, errs.IsErrorType(err, errs.ErrInvalidArgument))
	})
	t.Run("omits optional sections when empty", func(t *testing.T) {
		req := directRequest()
		req.Outputs = nil
		req.Tags = nil
		req.Compute.MaxRuntimeSeconds = 0

		in, err := sagemaker.BuildInput(req)

		require.NoError(t, err)
		assert.Nil(t, in.ProcessingOutputConfig)
		assert.Nil(t, in.StoppingCondition)
		assert.Nil(t, in.Tags)
	})
}

func TestShellCommand(t *testing.T) {
	t.Run("quotes user values", func(t *testing.T) {
		cmd, err := sagemaker.ShellCommand("my job.zip", "main script.py", "python3 -u")

		require.NoError(t, err)
		assert.Contains(t, cmd, `unzip -o -q 'my job.zip'`)
		assert.Contains(t, cmd, `python3 -u 'main script.py'`)
	})
	t.Run("fails for empty interpreter", func(t *testing.T) {
		_, err := sagemaker.ShellCommand("job1.zip", "main_script.py", " ")

		assert.Error(t, err)
	})
	t.Run("fails for unbalanced quotes", func(t *testing.T) {
		_, err := sagemaker.ShellCommand("job1.zip", "main_script.py", `python3 "-u`)

		assert.Error(t, err)
	})
}

func TestSubmitter(t *testing.T) {
	ctx := context.Background()
	logger := log.NewNoop()

	t.Run("Submit", func(t *testing.T) {
		t.Run("returns handle once the job is acknowledged", func(t *testing.T) {
			api := new(mockAPI)
			defer api.AssertExpectations(t)
			api.On("CreateProcessingJobWithContext", mock.Anything, mock.MatchedBy(func(in *sm.CreateProcessingJobInput) bool {
				return aws.StringValue(in.ProcessingJobName) == directRequest().Name
			})).Return(&sm.CreateProcessingJobOutput{
				ProcessingJobArn: aws.String("arn:aws:sagemaker:us-east-1:123456789012:processing-job/job"),
			}, nil)

			handle, err := sagemaker.NewSubmitter(api, logger).Submit(ctx, directRequest())

			require.NoError(t, err)
			assert.Equal(t, directRequest().Name, handle.Name)
			assert.Equal(t, "arn:aws:sagemaker:us-east-1:123456789012:processing-job/job", handle.ARN)
		})
		t.Run("propagates service errors", func(t *testing.T) {
			cause := errors.New("AccessDeniedException")
			api := new(mockAPI)
			defer api.AssertExpectations(t)
			api.On("CreateProcessingJobWithContext", mock.Anything, mock.Anything).Return(nil, cause)

			_, err := sagemaker.NewSubmitter(api, logger).Submit(ctx, directRequest())

			assert.ErrorIs(t, err, cause)
		})
		t.Run("does not call the service for an invalid request", func(t *testing.T) {
			api := new(mockAPI)
			req := directRequest()
			req.Role = ""

			_, err := sagemaker.NewSubmitter(api, logger).Submit(ctx, req)

			assert.Error(t, err)
			api.AssertNotCalled(t, "CreateProcessingJobWithContext", mock.Anything, mock.Anything)
		})
	})
	t.Run("Describe", func(t *testing.T) {
		t.Run("maps the job status", func(t *testing.T) {
			created := time.Date(2024, 3, 5, 7, 8, 9, 0, time.UTC)
			api := new(mockAPI)
			defer api.AssertExpectations(t)
			api.On("DescribeProcessingJobWithContext", ctx, &sm.DescribeProcessingJobInput{
				ProcessingJobName: aws.String("job"),
			}).Return(&sm.DescribeProcessingJobOutput{
				ProcessingJobName:   aws.String("job"),
				ProcessingJobArn:    aws.String("arn"),
				ProcessingJobStatus: aws.String("Failed"),
				FailureReason:       aws.String("AlgorithmError"),
				CreationTime:        aws.Time(created),
			}, nil)

			status, err := sagemaker.NewSubmitter(api, logger).Describe(ctx, "job")

			require.NoError(t, err)
			assert.Equal(t, job.StateFailed, status.State)
			assert.Equal(t, "AlgorithmError", status.FailureReason)
			assert.Equal(t, created, status.CreatedAt)
			assert.True(t, status.EndedAt.IsZero())
		})
		t.Run("fails for empty job name", func(t *testing.T) {
			_, err := sagemaker.NewSubmitter(new(mockAPI), logger).Describe(ctx, "")

			assert.True(t, errs.IsErrorType(err, errs.ErrInvalidArgument))
		})
	})
}

func TestSparkImageURI(t *testing.T) {
	t.Run("resolves known region and version", func(t *testing.T) {
		uri, err := sagemaker.SparkImageURI("us-east-1", "3.1")

		require.NoError(t, err)
		assert.Equal(t, "173754725891.dkr.ecr.us-east-1.amazonaws.com/sagemaker-spark-processing:3.1-cpu-py37-v1.0", uri)
	})
	t.Run("uses china domain for cn regions", func(t *testing.T) {
		uri, err := sagemaker.SparkImageURI("cn-north-1", "3.1")

		require.NoError(t, err)
		assert.Contains(t, uri, ".amazonaws.com.cn/")
	})
	t.Run("fails for unknown region", func(t *testing.T) {
		_, err := sagemaker.SparkImageURI("mars-1", "3.1")

		assert.True(t, errs.IsErrorType(err, errs.ErrInvalidArgument))
	})
	t.Run("fails for unknown version", func(t *testing.T) {
		_, err := sagemaker.SparkImageURI("us-east-1", "1.6")

		assert.True(t, errs.IsErrorType(err, errs.ErrInvalidArgument))
	})
}
