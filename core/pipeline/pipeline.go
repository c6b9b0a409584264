package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/odpf/salt/log"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/odpf/jobpack/core/archive"
	"github.com/odpf/jobpack/core/job"
	"github.com/odpf/jobpack/core/progress"
	"github.com/odpf/jobpack/core/upload"
	"github.com/odpf/jobpack/internal/errors"
)

const (
	EntityPipeline = "pipeline"

	inputName  = "input"
	outputName = "output"
)

type SourceResolver interface {
	Resolve(ctx context.Context, src string) (string, func(), error)
}

type Archiver interface {
	Validate(sourceDir string) error
	Archive(sourceDir, zipName string) (archive.Artifact, error)
}

type Uploader interface {
	Upload(ctx context.Context, localPath, key string) (upload.Object, error)
	Cleanup(localPath string) bool
}

type Submitter interface {
	Submit(ctx context.Context, req job.Request) (job.Handle, error)
}

// Result describes what one run did
type Result struct {
	Artifact   archive.Artifact
	Archive    upload.Object
	EntryPoint *upload.Object
	Cleaned    bool

	Request   job.Request
	Handle    job.Handle
	Submitted bool
	// SubmitErr is set when a submission failure was reported instead of returned
	SubmitErr error
}

type Pipeline struct {
	fs        afero.Fs
	resolver  SourceResolver
	archiver  Archiver
	uploader  Uploader
	submitter Submitter
	logger    log.Logger
	observer  progress.Observer
	now       func() time.Time
}

// Run executes validate, archive, upload, optional cleanup and submit in this
// order. Any failure aborts the run, an already uploaded archive is left in place.
func (p *Pipeline) Run(ctx context.Context, conf job.Config) (Result, error) {
	ctx, span := otel.Tracer("pipeline").Start(ctx, "Run")
	defer span.End()

	var result Result
	p.notify(&EventStepStarted{Step: StepValidate})
	if err := conf.Validate(); err != nil {
		return result, endSpan(span, err)
	}

	sourceDir, cleanupSource, err := p.resolver.Resolve(ctx, conf.SourceDir)
	if err != nil {
		return result, endSpan(span, err)
	}
	defer cleanupSource()

	if err := p.validateSource(sourceDir, conf.EntryPoint); err != nil {
		return result, endSpan(span, err)
	}

	p.notify(&EventStepStarted{Step: StepArchive})
	result.Artifact, err = p.archive(ctx, sourceDir, conf.ZipName)
	if err != nil {
		return result, endSpan(span, err)
	}

	p.notify(&EventStepStarted{Step: StepUpload})
	if err := p.upload(ctx, conf, sourceDir, &result); err != nil {
		return result, endSpan(span, err)
	}

	if !conf.KeepArchive {
		p.notify(&EventStepStarted{Step: StepCleanup})
		result.Cleaned = p.uploader.Cleanup(result.Artifact.Path)
		if result.Cleaned {
			p.notify(&EventArtifactCleaned{Path: result.Artifact.Path})
		}
	}

	p.notify(&EventStepStarted{Step: StepSubmit})
	result.Request = p.buildRequest(conf, result)
	result.Handle, err = p.submit(ctx, result.Request)
	p.notify(&EventJobSubmitted{Name: result.Request.Name, ARN: result.Handle.ARN, Err: err})
	if err != nil {
		if conf.ReportSubmitError {
			p.logger.Error("job submission failed: %s", err)
			result.SubmitErr = err
			return result, nil
		}
		return result, endSpan(span, err)
	}
	result.Submitted = true
	return result, nil
}

func (p *Pipeline) validateSource(sourceDir, entryPoint string) error {
	if err := p.archiver.Validate(sourceDir); err != nil {
		return err
	}
	entryPath := filepath.Join(sourceDir, filepath.FromSlash(entryPoint))
	info, err := p.fs.Stat(entryPath)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NotFound(EntityPipeline, fmt.Sprintf("entry point [%s] not found in [%s]", entryPoint, sourceDir))
		}
		return errors.InternalError(EntityPipeline, "unable to stat entry point "+entryPath, err)
	}
	if !info.Mode().IsRegular() {
		return errors.InvalidArgument(EntityPipeline, fmt.Sprintf("entry point [%s] is not a file", entryPoint))
	}
	return nil
}

func (p *Pipeline) archive(ctx context.Context, sourceDir, zipName string) (archive.Artifact, error) {
	_, span := otel.Tracer("pipeline").Start(ctx, "Archive")
	defer span.End()

	artifact, err := p.archiver.Archive(sourceDir, zipName)
	if err != nil {
		return artifact, endSpan(span, err)
	}
	p.notify(&EventArchiveCreated{Path: artifact.Path, Files: artifact.Files, Bytes: artifact.Bytes})
	return artifact, nil
}

func (p *Pipeline) upload(ctx context.Context, conf job.Config, sourceDir string, result *Result) error {
	ctx, span := otel.Tracer("pipeline").Start(ctx, "Upload")
	defer span.End()

	obj, err := p.uploader.Upload(ctx, result.Artifact.Path, conf.ArchiveKey())
	if err != nil {
		return endSpan(span, err)
	}
	result.Archive = obj
	p.notify(&EventObjectUploaded{LocalPath: result.Artifact.Path, URI: obj.URI()})

	if conf.Strategy != job.StrategyDirect {
		return nil
	}
	entryPath := filepath.Join(sourceDir, filepath.FromSlash(conf.EntryPoint))
	entryObj, err := p.uploader.Upload(ctx, entryPath, conf.EntryPointKey())
	if err != nil {
		return endSpan(span, err)
	}
	result.EntryPoint = &entryObj
	p.notify(&EventObjectUploaded{LocalPath: entryPath, URI: entryObj.URI()})
	return nil
}

func (p *Pipeline) submit(ctx context.Context, req job.Request) (job.Handle, error) {
	ctx, span := otel.Tracer("pipeline").Start(ctx, "Submit")
	defer span.End()

	handle, err := p.submitter.Submit(ctx, req)
	return handle, endSpan(span, err)
}

func (p *Pipeline) buildRequest(conf job.Config, result Result) job.Request {
	req := job.Request{
		Name:        job.NameFromBase(conf.BaseJobName, p.now()),
		Role:        conf.Role,
		ImageURI:    conf.ImageURI,
		Strategy:    conf.Strategy,
		EntryPoint:  conf.EntryPoint,
		ArchiveURI:  result.Archive.URI(),
		Interpreter: conf.Interpreter,
		Inputs: []job.Input{
			{Name: inputName, SourceURI: conf.InputS3Path, LocalPath: job.InputDataPath},
		},
		Outputs: []job.Output{
			{Name: outputName, LocalPath: job.OutputPath, DestinationURI: conf.OutputS3Path},
		},
		Compute: conf.Compute,
		Tags:    conf.Tags,
	}
	if result.EntryPoint != nil {
		req.EntryPointURI = result.EntryPoint.URI()
	}
	return req
}

func (p *Pipeline) notify(evt progress.Event) {
	progress.Notify(p.observer, evt)
	p.logger.Debug("%s", evt.String())
}

func endSpan(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

type Option func(*Pipeline)

func WithObserver(observer progress.Observer) Option {
	return func(p *Pipeline) {
		p.observer = observer
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

func New(fs afero.Fs, resolver SourceResolver, archiver Archiver, uploader Uploader, submitter Submitter, logger log.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		fs:        fs,
		resolver:  resolver,
		archiver:  archiver,
		uploader:  uploader,
		submitter: submitter,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}
