package config

import (
	"errors"
	"net/url"
	"reflect"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var supportedStorageSchemes = []interface{}{"s3", "file", "mem"}

// Validate validate the config as an input. If not valid, it returns error
func Validate(conf *ClientConfig) error {
	if conf == nil {
		return errors.New("config is nil")
	}
	return validation.ValidateStruct(conf,
		nestedFields(&conf.Log,
			validation.Field(&conf.Log.Level, validation.In(
				LogLevelDebug,
				LogLevelInfo,
				LogLevelWarning,
				LogLevelError,
				LogLevelFatal,
			)),
			validation.Field(&conf.Log.Format, validation.In(LogFormatPlain, LogFormatJSON)),
		),
		nestedFields(&conf.Storage,
			validation.Field(&conf.Storage.URL, validation.By(validateStorageURL)),
		),
		nestedFields(&conf.Processing,
			validation.Field(&conf.Processing.Strategy, validation.Required, validation.In(StrategyDirect, StrategyShell)),
			validation.Field(&conf.Processing.InstanceType, validation.Required),
			validation.Field(&conf.Processing.InstanceCount, validation.Required, validation.Min(int64(1))),
			validation.Field(&conf.Processing.VolumeSizeGB, validation.Min(int64(1))),
			validation.Field(&conf.Processing.MaxRuntimeSeconds, validation.Min(int64(1))),
			validation.Field(&conf.Processing.BaseJobName, validation.Required),
			validation.Field(&conf.Processing.EntryPoint, validation.Required),
		),
		nestedFields(&conf.Submission,
			validation.Field(&conf.Submission.OnFailure, validation.In(FailurePolicyPropagate, FailurePolicyReport)),
		),
	)
}

func validateStorageURL(value interface{}) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	return validation.Validate(u.Scheme, validation.In(supportedStorageSchemes...).Error("unsupported storage scheme"))
}

// ozzo-validation helper for nested validation struct
// https://github.com/go-ozzo/ozzo-validation/issues/136
func nestedFields(target interface{}, fieldRules ...*validation.FieldRules) *validation.FieldRules {
	return validation.Field(target, validation.By(func(value interface{}) error {
		valueV := reflect.Indirect(reflect.ValueOf(value))
		if valueV.CanAddr() {
			addr := valueV.Addr().Interface()
			return validation.ValidateStruct(addr, fieldRules...)
		}
		return validation.ValidateStruct(target, fieldRules...)
	}))
}
