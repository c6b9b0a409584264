package job

import (
	"fmt"
	"strings"
	"time"

	"github.com/odpf/jobpack/internal/errors"
)

const (
	EntityJob = "job"

	ArchiveExtension = ".zip"

	// maximum length of a processing job name accepted by the service
	maxJobNameLength  = 63
	jobNameTimeLayout = "2006-01-02-15-04-05"
)

type Strategy string

const (
	// StrategyDirect hands the archive and entry point to the remote runtime as is
	StrategyDirect Strategy = "direct"
	// StrategyShell unzips the archive and invokes the interpreter through a shell
	StrategyShell Strategy = "shell"
)

func (s Strategy) String() string {
	return string(s)
}

func StrategyFrom(strategy string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(strategy))) {
	case StrategyDirect:
		return StrategyDirect, nil
	case StrategyShell:
		return StrategyShell, nil
	}
	return "", errors.InvalidArgument(EntityJob, fmt.Sprintf("unknown submission strategy [%s]", strategy))
}

// Compute describes the cluster provisioned for one job
type Compute struct {
	InstanceType      string
	InstanceCount     int64
	VolumeSizeGB      int64
	MaxRuntimeSeconds int64
}

type Input struct {
	Name      string
	SourceURI string
	LocalPath string
}

type Output struct {
	Name           string
	LocalPath      string
	DestinationURI string
}

// Request is everything the processing service needs to start a job
type Request struct {
	Name       string
	Role       string
	ImageURI   string
	Strategy   Strategy
	EntryPoint string

	// ArchiveURI points at the uploaded archive, EntryPointURI at the
	// separately uploaded entry script used by StrategyDirect
	ArchiveURI    string
	EntryPointURI string
	Interpreter   string

	Inputs  []Input
	Outputs []Output
	Compute Compute
	Tags    map[string]string
}

func (r Request) ArchiveName() string {
	if r.ArchiveURI == "" {
		return ""
	}
	return r.ArchiveURI[strings.LastIndex(r.ArchiveURI, "/")+1:]
}

// Handle is the acknowledgement of a submitted job, not a completion signal
type Handle struct {
	Name string
	ARN  string
}

// NameFromBase appends a millisecond UTC timestamp to base and trims base so the
// result fits the service limit
func NameFromBase(base string, now time.Time) string {
	now = now.UTC()
	suffix := fmt.Sprintf("%s-%03d", now.Format(jobNameTimeLayout), now.Nanosecond()/int(time.Millisecond))
	maxBase := maxJobNameLength - len(suffix) - 1
	base = strings.Trim(base, "-")
	if len(base) > maxBase {
		base = strings.TrimRight(base[:maxBase], "-")
	}
	return base + "-" + suffix
}

// ArchiveFileName returns the zip file name for a user given archive name
func ArchiveFileName(zipName string) string {
	if strings.HasSuffix(strings.ToLower(zipName), ArchiveExtension) {
		return zipName
	}
	return zipName + ArchiveExtension
}

// mount points of the job container used for user data
const (
	ProcessingRoot = "/opt/ml/processing"
	InputDataPath  = ProcessingRoot + "/input/data"
	OutputPath     = ProcessingRoot + "/output"
)
