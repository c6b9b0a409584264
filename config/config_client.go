package config

import (
	"fmt"
	"strings"
)

const (
	StrategyDirect = "direct"
	StrategyShell  = "shell"

	FailurePolicyPropagate = "propagate"
	FailurePolicyReport    = "report"
)

type ClientConfig struct {
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
	AWS        AWSConfig        `mapstructure:"aws" yaml:"aws"`
	Storage    StorageConfig    `mapstructure:"storage" yaml:"storage"`
	Processing ProcessingConfig `mapstructure:"processing" yaml:"processing"`
	Submission SubmissionConfig `mapstructure:"submission" yaml:"submission"`
	Job        JobConfig        `mapstructure:"job" yaml:"job"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry" yaml:"telemetry"`
}

type AWSConfig struct {
	Region   string `mapstructure:"region" yaml:"region" default:"us-east-1"`
	Profile  string `mapstructure:"profile" yaml:"profile"`
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"` // custom endpoint, eg. localstack
}

type StorageConfig struct {
	// URL overrides the bucket location, eg. file:///tmp/bucket or mem://.
	// When empty the job bucket is opened as s3://<bucket>.
	URL       string `mapstructure:"url" yaml:"url"`
	KeyPrefix string `mapstructure:"key_prefix" yaml:"key_prefix" default:"path-to-zip"`
}

type ProcessingConfig struct {
	FrameworkVersion  string            `mapstructure:"framework_version" yaml:"framework_version" default:"3.1"`
	ImageURI          string            `mapstructure:"image_uri" yaml:"image_uri"`
	InstanceType      string            `mapstructure:"instance_type" yaml:"instance_type" default:"ml.m5.xlarge"`
	InstanceCount     int64             `mapstructure:"instance_count" yaml:"instance_count" default:"1"`
	VolumeSizeGB      int64             `mapstructure:"volume_size_gb" yaml:"volume_size_gb" default:"30"`
	MaxRuntimeSeconds int64             `mapstructure:"max_runtime_seconds" yaml:"max_runtime_seconds" default:"86400"`
	BaseJobName       string            `mapstructure:"base_job_name" yaml:"base_job_name" default:"dynamic-zip-spark-job"`
	Strategy          string            `mapstructure:"strategy" yaml:"strategy" default:"direct"` // direct, shell
	EntryPoint        string            `mapstructure:"entry_point" yaml:"entry_point" default:"main_script.py"`
	Interpreter       string            `mapstructure:"interpreter" yaml:"interpreter" default:"python3"` // used by the shell strategy
	Tags              map[string]string `mapstructure:"tags" yaml:"tags"`
}

type SubmissionConfig struct {
	OnFailure string `mapstructure:"on_failure" yaml:"on_failure" default:"propagate"` // propagate, report
}

type TelemetryConfig struct {
	JaegerAddr      string `mapstructure:"jaeger_addr" yaml:"jaeger_addr"`           // collector endpoint, eg. http://localhost:14268/api/traces
	PushgatewayAddr string `mapstructure:"pushgateway_addr" yaml:"pushgateway_addr"` // metrics of a run are pushed here when set
}

// JobConfig holds the per run values, usually passed as flags
type JobConfig struct {
	Role         string `mapstructure:"role" yaml:"role"`
	InputS3Path  string `mapstructure:"input_s3_path" yaml:"input_s3_path"`
	OutputS3Path string `mapstructure:"output_s3_path" yaml:"output_s3_path"`
	Bucket       string `mapstructure:"bucket" yaml:"bucket"`
	ZipName      string `mapstructure:"zip_name" yaml:"zip_name"`
	SourceDir    string `mapstructure:"source_dir" yaml:"source_dir" default:"."`
	KeepZip      bool   `mapstructure:"keep_zip" yaml:"keep_zip"`
}

func (c *ClientConfig) StorageURL(bucket string) string {
	if c.Storage.URL != "" {
		return c.Storage.URL
	}
	return fmt.Sprintf("s3://%s", bucket)
}

func (c *ClientConfig) SubmissionFailureReported() bool {
	return strings.EqualFold(c.Submission.OnFailure, FailurePolicyReport)
}
