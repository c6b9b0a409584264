package survey

import (
	"github.com/AlecAivazis/survey/v2"
	petname "github.com/dustinkirkland/golang-petname"
	"github.com/odpf/salt/log"

	"github.com/odpf/jobpack/config"
)

// JobSurvey asks for job values missing from flags and configuration
type JobSurvey struct {
	logger log.Logger
}

// NewJobSurvey initializes job survey
func NewJobSurvey(logger log.Logger) *JobSurvey {
	return &JobSurvey{
		logger: logger,
	}
}

type question struct {
	target  *string
	message string
	help    string
	def     string
}

// AskMissing prompts only for the empty values of conf
func (j *JobSurvey) AskMissing(conf *config.JobConfig) error {
	questions := []question{
		{target: &conf.Role, message: "IAM role ARN of the processing job:", help: "eg. arn:aws:iam::123456789012:role/processing"},
		{target: &conf.InputS3Path, message: "S3 input path:", help: "mounted at /opt/ml/processing/input/data"},
		{target: &conf.OutputS3Path, message: "S3 output path:", help: "receives /opt/ml/processing/output at end of job"},
		{target: &conf.Bucket, message: "Bucket for the archive:"},
		{target: &conf.ZipName, message: "Archive name:", def: petname.Generate(2, "-")},
	}
	for _, q := range questions {
		if *q.target != "" {
			continue
		}
		var answer string
		prompt := &survey.Input{
			Message: q.message,
			Help:    q.help,
			Default: q.def,
		}
		if err := survey.AskOne(prompt, &answer, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
		*q.target = answer
	}
	j.logger.Debug("job values completed from survey")
	return nil
}
