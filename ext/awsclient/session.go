package awsclient

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"

	"github.com/odpf/jobpack/config"
	"github.com/odpf/jobpack/internal/errors"
)

const EntityAWS = "aws"

// NewSession builds the one session shared by the storage and processing
// clients of a run; credentials come from the standard AWS chain
func NewSession(conf config.AWSConfig) (*session.Session, error) {
	awsConf := aws.NewConfig()
	if conf.Region != "" {
		awsConf = awsConf.WithRegion(conf.Region)
	}
	if conf.Endpoint != "" {
		awsConf = awsConf.WithEndpoint(conf.Endpoint).WithS3ForcePathStyle(true)
	}

	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            *awsConf,
		Profile:           conf.Profile,
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, errors.InternalError(EntityAWS, "unable to create aws session", err)
	}
	return sess, nil
}

// Region returns the region the session resolved to
func Region(sess *session.Session) string {
	if sess == nil || sess.Config == nil {
		return ""
	}
	return aws.StringValue(sess.Config.Region)
}
