package submit

import (
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/google/uuid"
	"github.com/odpf/salt/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/odpf/jobpack/client/cmd/internal"
	"github.com/odpf/jobpack/client/cmd/internal/logger"
	"github.com/odpf/jobpack/client/cmd/internal/progressbar"
	"github.com/odpf/jobpack/client/cmd/internal/survey"
	"github.com/odpf/jobpack/config"
	"github.com/odpf/jobpack/core/archive"
	"github.com/odpf/jobpack/core/pipeline"
	"github.com/odpf/jobpack/core/progress"
	"github.com/odpf/jobpack/core/source"
	"github.com/odpf/jobpack/core/upload"
	"github.com/odpf/jobpack/ext/awsclient"
	"github.com/odpf/jobpack/ext/processor/sagemaker"
	"github.com/odpf/jobpack/ext/store/bucket"
	"github.com/odpf/jobpack/internal/telemetry"
)

type submitCommand struct {
	logger         log.Logger
	clientConfig   *config.ClientConfig
	configFilePath string

	role          string
	inputS3Path   string
	outputS3Path  string
	bucket        string
	zipName       string
	sourceDir     string
	entryPoint    string
	strategy      string
	instanceType  string
	instanceCount int64
	region        string
	keepZip       bool
	interactive   bool
}

// NewSubmitCommand initializes command to package a source directory and
// submit it as a processing job
func NewSubmitCommand() *cobra.Command {
	submit := &submitCommand{
		logger: logger.NewClientLogger(),
	}

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Package a source directory and submit it as a Spark processing job",
		Long: heredoc.Doc(`
			Zip the source directory, upload the archive to the bucket and submit a
			SageMaker Spark processing job running the entry point from it.

			Flags take precedence over the job section of the configuration file.`),
		Example: heredoc.Doc(`
			$ jobpack submit --role arn:aws:iam::123456789012:role/processing \
				--input_s3_path s3://my-bucket/input --output_s3_path s3://my-bucket/output \
				--bucket my-bucket --zip_name job1
			$ jobpack submit -c jobpack.yaml --strategy shell --keep_zip
		`),
		Annotations: map[string]string{
			"group:core": "true",
		},
		PreRunE: submit.PreRunE,
		RunE:    submit.RunE,
	}
	submit.injectFlags(cmd)
	return cmd
}

func (s *submitCommand) injectFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.configFilePath, "config", "c", config.EmptyPath, "File path for client configuration")

	cmd.Flags().StringVar(&s.role, "role", "", "IAM role ARN assumed by the processing job")
	cmd.Flags().StringVar(&s.inputS3Path, "input_s3_path", "", "S3 URI mounted as job input")
	cmd.Flags().StringVar(&s.outputS3Path, "output_s3_path", "", "S3 URI receiving the job output")
	cmd.Flags().StringVar(&s.bucket, "bucket", "", "Bucket the archive is uploaded to")
	cmd.Flags().StringVar(&s.zipName, "zip_name", "", "Name of the archive, .zip is appended")
	cmd.Flags().StringVar(&s.sourceDir, "source_dir", ".", "Local directory or go-getter address to package")
	cmd.Flags().StringVar(&s.entryPoint, "entry_point", "main_script.py", "Script inside the source directory to run")
	cmd.Flags().StringVar(&s.strategy, "strategy", config.StrategyDirect, "How the job runs the archive: direct or shell")
	cmd.Flags().StringVar(&s.instanceType, "instance_type", "ml.m5.xlarge", "Processing instance type")
	cmd.Flags().Int64Var(&s.instanceCount, "instance_count", 1, "Number of processing instances")
	cmd.Flags().StringVar(&s.region, "region", "", "AWS region, overrides aws.region")
	cmd.Flags().BoolVar(&s.keepZip, "keep_zip", false, "Keep the local archive after upload")
	cmd.Flags().BoolVarP(&s.interactive, "interactive", "i", false, "Ask for required values that are not set")
}

func (s *submitCommand) PreRunE(cmd *cobra.Command, _ []string) error {
	conf, err := config.LoadClientConfig(s.configFilePath)
	if err != nil {
		return err
	}
	s.applyFlags(cmd, conf)
	if err := config.Validate(conf); err != nil {
		return fmt.Errorf("invalid client configuration: %w", err)
	}
	s.clientConfig = conf
	s.logger = logger.NewClientLoggerWithWriter(conf.Log, os.Stdout)

	if s.interactive {
		if err := survey.NewJobSurvey(s.logger).AskMissing(&conf.Job); err != nil {
			return err
		}
	}

	return internal.RequireValues(map[string]string{
		"role":           conf.Job.Role,
		"input_s3_path":  conf.Job.InputS3Path,
		"output_s3_path": conf.Job.OutputS3Path,
		"bucket":         conf.Job.Bucket,
		"zip_name":       conf.Job.ZipName,
	})
}

func (s *submitCommand) RunE(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	conf := s.clientConfig

	shutdownTracing, err := telemetry.InitTracing(s.logger, conf.Telemetry)
	if err != nil {
		return err
	}
	defer shutdownTracing()

	sess, err := awsclient.NewSession(conf.AWS)
	if err != nil {
		return err
	}

	imageURI := conf.Processing.ImageURI
	if imageURI == "" {
		imageURI, err = sagemaker.SparkImageURI(awsclient.Region(sess), conf.Processing.FrameworkVersion)
		if err != nil {
			return err
		}
	}

	storageURL := conf.StorageURL(conf.Job.Bucket)
	root, err := bucket.Root(storageURL, conf.Job.Bucket)
	if err != nil {
		return err
	}
	bkt, err := bucket.NewFactory(sess).New(ctx, storageURL)
	if err != nil {
		return err
	}

	bar := progressbar.NewProgressBar()
	defer bar.Stop()
	recorder := telemetry.NewRecorder()

	fs := afero.NewOsFs()
	pwd, err := os.Getwd()
	if err != nil {
		return err
	}
	uploader := upload.NewUploader(fs, bkt, root.Bucket, s.logger,
		upload.WithKeyPrefix(root.Key),
		upload.WithByteCounter(bar.Bytes()),
	)
	defer uploader.Close()

	p := pipeline.New(
		fs,
		source.NewResolver(fs, pwd, s.logger),
		archive.NewArchiver(fs, "", s.logger),
		uploader,
		sagemaker.NewSubmitterFromSession(sess, s.logger),
		s.logger,
		pipeline.WithObserver(progress.Observers{bar, recorder}),
	)

	runID := uuid.NewString()
	jobConf := newJobConfig(conf, imageURI)
	jobConf.Tags = withRunID(jobConf.Tags, runID)

	s.logger.Info("Packaging [%s] for bucket [%s]", conf.Job.SourceDir, conf.Job.Bucket)
	result, err := p.Run(ctx, jobConf)
	bar.Stop()
	s.pushMetrics(recorder, runID)
	if err != nil {
		return err
	}

	s.logger.Info("Archive uploaded to %s", result.Archive.URI())
	if !result.Submitted {
		s.logger.Warn("Job [%s] was not submitted: %s", result.Request.Name, result.SubmitErr)
		return nil
	}
	s.logger.Info("Job submitted: %s", result.Handle.Name)
	s.logger.Info("ARN: %s", result.Handle.ARN)
	return nil
}

func (s *submitCommand) pushMetrics(recorder *telemetry.Recorder, runID string) {
	addr := s.clientConfig.Telemetry.PushgatewayAddr
	if addr == "" {
		return
	}
	if err := recorder.Push(addr, map[string]string{"run_id": runID}); err != nil {
		s.logger.Warn("unable to push metrics to %s: %s", addr, err)
	}
}
