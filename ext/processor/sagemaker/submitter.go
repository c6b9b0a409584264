package sagemaker

import (
	"context"
	"fmt"
	"path"
	"sort"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/client"
	"github.com/aws/aws-sdk-go/aws/request"
	sm "github.com/aws/aws-sdk-go/service/sagemaker"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/kballard/go-shellquote"
	"github.com/odpf/salt/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/odpf/jobpack/core/job"
	"github.com/odpf/jobpack/internal/errors"
)

const (
	EntitySageMaker = "sagemaker"

	CodeMountPath    = job.ProcessingRoot + "/input/code"
	PyFilesMountPath = job.ProcessingRoot + "/input/py-files"

	sparkSubmit  = "smspark-submit"
	unpackedDir  = CodeMountPath + "/src"
	codeInput    = "code"
	pyFilesInput = "py-files"
)

// API is the part of the SageMaker client used to submit and inspect jobs
type API interface {
	CreateProcessingJobWithContext(aws.Context, *sm.CreateProcessingJobInput, ...request.Option) (*sm.CreateProcessingJobOutput, error)
	DescribeProcessingJobWithContext(aws.Context, *sm.DescribeProcessingJobInput, ...request.Option) (*sm.DescribeProcessingJobOutput, error)
}

type Submitter struct {
	api    API
	logger log.Logger
}

// Submit asks the service to start the job and returns once it is accepted
func (s *Submitter) Submit(ctx context.Context, req job.Request) (job.Handle, error) {
	spanCtx, span := otel.Tracer("sagemaker/submitter").Start(ctx, "Submit")
	defer span.End()
	span.SetAttributes(
		attribute.String("job.name", req.Name),
		attribute.String("job.strategy", req.Strategy.String()),
	)

	input, err := BuildInput(req)
	if err != nil {
		return job.Handle{}, err
	}

	s.logger.Debug("creating processing job %s with image %s", req.Name, req.ImageURI)
	out, err := s.api.CreateProcessingJobWithContext(spanCtx, input)
	if err != nil {
		return job.Handle{}, errors.InternalError(EntitySageMaker, "unable to create processing job "+req.Name, err)
	}
	return job.Handle{
		Name: req.Name,
		ARN:  aws.StringValue(out.ProcessingJobArn),
	}, nil
}

func (s *Submitter) Describe(ctx context.Context, jobName string) (job.Status, error) {
	if jobName == "" {
		return job.Status{}, errors.InvalidArgument(EntitySageMaker, "job name is empty")
	}
	out, err := s.api.DescribeProcessingJobWithContext(ctx, &sm.DescribeProcessingJobInput{
		ProcessingJobName: aws.String(jobName),
	})
	if err != nil {
		return job.Status{}, errors.InternalError(EntitySageMaker, "unable to describe processing job "+jobName, err)
	}
	return job.Status{
		Name:          aws.StringValue(out.ProcessingJobName),
		ARN:           aws.StringValue(out.ProcessingJobArn),
		State:         job.StateFrom(aws.StringValue(out.ProcessingJobStatus)),
		FailureReason: aws.StringValue(out.FailureReason),
		CreatedAt:     aws.TimeValue(out.CreationTime),
		EndedAt:       aws.TimeValue(out.ProcessingEndTime),
	}, nil
}

// BuildInput translates a job request into the service call, the strategy decides
// how the archive and entry point reach the container
func BuildInput(req job.Request) (*sm.CreateProcessingJobInput, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var (
		inputs []*sm.ProcessingInput
		spec   *sm.AppSpecification
	)
	switch req.Strategy {
	case job.StrategyDirect:
		entry := path.Base(req.EntryPoint)
		inputs = append(inputs,
			s3Input(codeInput, req.EntryPointURI, CodeMountPath),
			s3Input(pyFilesInput, req.ArchiveURI, PyFilesMountPath),
		)
		spec = &sm.AppSpecification{
			ImageUri:            aws.String(req.ImageURI),
			ContainerEntrypoint: aws.StringSlice([]string{sparkSubmit}),
			ContainerArguments: aws.StringSlice([]string{
				"--py-files", path.Join(PyFilesMountPath, req.ArchiveName()),
				path.Join(CodeMountPath, entry),
			}),
		}

	case job.StrategyShell:
		command, err := ShellCommand(req.ArchiveName(), req.EntryPoint, req.Interpreter)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, s3Input(codeInput, req.ArchiveURI, CodeMountPath))
		spec = &sm.AppSpecification{
			ImageUri:            aws.String(req.ImageURI),
			ContainerEntrypoint: aws.StringSlice([]string{"/bin/bash", "-c"}),
			ContainerArguments:  aws.StringSlice([]string{command}),
		}

	default:
		return nil, errors.InvalidArgument(EntitySageMaker, fmt.Sprintf("unknown submission strategy [%s]", req.Strategy))
	}

	for _, in := range req.Inputs {
		inputs = append(inputs, s3Input(in.Name, in.SourceURI, in.LocalPath))
	}
	var outputs []*sm.ProcessingOutput
	for _, out := range req.Outputs {
		outputs = append(outputs, &sm.ProcessingOutput{
			OutputName: aws.String(out.Name),
			S3Output: &sm.ProcessingS3Output{
				LocalPath:    aws.String(out.LocalPath),
				S3Uri:        aws.String(out.DestinationURI),
				S3UploadMode: aws.String(sm.ProcessingS3UploadModeEndOfJob),
			},
		})
	}

	input := &sm.CreateProcessingJobInput{
		ProcessingJobName: aws.String(req.Name),
		RoleArn:           aws.String(req.Role),
		AppSpecification:  spec,
		ProcessingInputs:  inputs,
		ProcessingResources: &sm.ProcessingResources{
			ClusterConfig: &sm.ProcessingClusterConfig{
				InstanceType:   aws.String(req.Compute.InstanceType),
				InstanceCount:  aws.Int64(req.Compute.InstanceCount),
				VolumeSizeInGB: aws.Int64(req.Compute.VolumeSizeGB),
			},
		},
		Tags: tags(req.Tags),
	}
	if len(outputs) > 0 {
		input.ProcessingOutputConfig = &sm.ProcessingOutputConfig{Outputs: outputs}
	}
	if req.Compute.MaxRuntimeSeconds > 0 {
		input.StoppingCondition = &sm.ProcessingStoppingCondition{
			MaxRuntimeInSeconds: aws.Int64(req.Compute.MaxRuntimeSeconds),
		}
	}
	return input, nil
}

// ShellCommand unzips the archive next to its mount point and runs the entry point
// with the interpreter, every user value is shell quoted
func ShellCommand(archiveName, entryPoint, interpreter string) (string, error) {
	interpreterArgs, err := shellquote.Split(interpreter)
	if err != nil {
		return "", errors.InvalidArgument(EntitySageMaker, fmt.Sprintf("invalid interpreter [%s]: %s", interpreter, err))
	}
	if len(interpreterArgs) == 0 {
		return "", errors.InvalidArgument(EntitySageMaker, "interpreter is empty")
	}

	return fmt.Sprintf("cd %s && unzip -o -q %s -d %s && cd %s && %s",
		shellquote.Join(CodeMountPath),
		shellquote.Join(archiveName),
		shellquote.Join(unpackedDir),
		shellquote.Join(unpackedDir),
		shellquote.Join(append(interpreterArgs, entryPoint)...),
	), nil
}

func validateRequest(req job.Request) error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 63)),
		validation.Field(&req.Role, validation.Required),
		validation.Field(&req.ImageURI, validation.Required),
		validation.Field(&req.EntryPoint, validation.Required),
		validation.Field(&req.ArchiveURI, validation.Required),
		validation.Field(&req.EntryPointURI, validation.When(req.Strategy == job.StrategyDirect, validation.Required)),
	)
	if err != nil {
		return errors.InvalidArgument(EntitySageMaker, err.Error())
	}
	return nil
}

func s3Input(name, uri, localPath string) *sm.ProcessingInput {
	return &sm.ProcessingInput{
		InputName: aws.String(name),
		S3Input: &sm.ProcessingS3Input{
			S3Uri:                  aws.String(uri),
			LocalPath:              aws.String(localPath),
			S3DataType:             aws.String(sm.ProcessingS3DataTypeS3prefix),
			S3InputMode:            aws.String(sm.ProcessingS3InputModeFile),
			S3DataDistributionType: aws.String(sm.ProcessingS3DataDistributionTypeFullyReplicated),
		},
	}
}

func tags(kv map[string]string) []*sm.Tag {
	if len(kv) == 0 {
		return nil
	}
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]*sm.Tag, 0, len(keys))
	for _, k := range keys {
		result = append(result, &sm.Tag{Key: aws.String(k), Value: aws.String(kv[k])})
	}
	return result
}

func NewSubmitter(api API, logger log.Logger) *Submitter {
	return &Submitter{
		api:    api,
		logger: logger,
	}
}

// NewSubmitterFromSession creates a submitter on a real SageMaker client
func NewSubmitterFromSession(sess client.ConfigProvider, logger log.Logger) *Submitter {
	return NewSubmitter(sm.New(sess), logger)
}
