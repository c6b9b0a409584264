package pipeline

import "fmt"

type Step string

const (
	StepValidate Step = "validate"
	StepArchive  Step = "archive"
	StepUpload   Step = "upload"
	StepCleanup  Step = "cleanup"
	StepSubmit   Step = "submit"
)

type EventStepStarted struct {
	Step Step
}

func (e *EventStepStarted) String() string {
	return fmt.Sprintf("%s started", e.Step)
}

type EventArchiveCreated struct {
	Path  string
	Files int
	Bytes int64
}

func (e *EventArchiveCreated) String() string {
	return fmt.Sprintf("created archive %s with %d files (%d bytes)", e.Path, e.Files, e.Bytes)
}

type EventObjectUploaded struct {
	LocalPath string
	URI       string
}

func (e *EventObjectUploaded) String() string {
	return fmt.Sprintf("uploaded %s to %s", e.LocalPath, e.URI)
}

type EventArtifactCleaned struct {
	Path string
}

func (e *EventArtifactCleaned) String() string {
	return fmt.Sprintf("removed local artifact %s", e.Path)
}

type EventJobSubmitted struct {
	Name string
	ARN  string
	Err  error
}

func (e *EventJobSubmitted) String() string {
	if e.Err != nil {
		return fmt.Sprintf("submission of %s failed: %s", e.Name, e.Err)
	}
	return fmt.Sprintf("submitted job %s", e.Name)
}
