package submit

import (
	"github.com/spf13/cobra"

	"github.com/odpf/jobpack/config"
	"github.com/odpf/jobpack/core/job"
)

const runIDTag = "jobpack:run-id"

// applyFlags overrides configuration values with the flags set on the command
// line. Flag defaults only apply when the configuration leaves a value empty.
func (s *submitCommand) applyFlags(cmd *cobra.Command, conf *config.ClientConfig) {
	flags := cmd.Flags()
	override := func(name string, target *string, value string) {
		if flags.Changed(name) || *target == "" {
			*target = value
		}
	}

	override("role", &conf.Job.Role, s.role)
	override("input_s3_path", &conf.Job.InputS3Path, s.inputS3Path)
	override("output_s3_path", &conf.Job.OutputS3Path, s.outputS3Path)
	override("bucket", &conf.Job.Bucket, s.bucket)
	override("zip_name", &conf.Job.ZipName, s.zipName)
	override("source_dir", &conf.Job.SourceDir, s.sourceDir)
	override("entry_point", &conf.Processing.EntryPoint, s.entryPoint)
	override("strategy", &conf.Processing.Strategy, s.strategy)
	override("instance_type", &conf.Processing.InstanceType, s.instanceType)
	override("region", &conf.AWS.Region, s.region)

	if flags.Changed("instance_count") || conf.Processing.InstanceCount == 0 {
		conf.Processing.InstanceCount = s.instanceCount
	}
	if flags.Changed("keep_zip") {
		conf.Job.KeepZip = s.keepZip
	}
}

func newJobConfig(conf *config.ClientConfig, imageURI string) job.Config {
	return job.Config{
		Role:         conf.Job.Role,
		InputS3Path:  conf.Job.InputS3Path,
		OutputS3Path: conf.Job.OutputS3Path,
		Bucket:       conf.Job.Bucket,
		ZipName:      conf.Job.ZipName,
		SourceDir:    conf.Job.SourceDir,
		KeyPrefix:    conf.Storage.KeyPrefix,
		KeepArchive:  conf.Job.KeepZip,

		EntryPoint:  conf.Processing.EntryPoint,
		Interpreter: conf.Processing.Interpreter,
		Strategy:    job.Strategy(conf.Processing.Strategy),
		BaseJobName: conf.Processing.BaseJobName,
		ImageURI:    imageURI,
		Compute: job.Compute{
			InstanceType:      conf.Processing.InstanceType,
			InstanceCount:     conf.Processing.InstanceCount,
			VolumeSizeGB:      conf.Processing.VolumeSizeGB,
			MaxRuntimeSeconds: conf.Processing.MaxRuntimeSeconds,
		},
		Tags:              conf.Processing.Tags,
		ReportSubmitError: conf.SubmissionFailureReported(),
	}
}

// withRunID returns a copy of tags carrying the run id of this invocation
func withRunID(tags map[string]string, runID string) map[string]string {
	result := make(map[string]string, len(tags)+1)
	for k, v := range tags {
		result[k] = v
	}
	result[runIDTag] = runID
	return result
}
