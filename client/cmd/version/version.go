package version

import (
	"runtime"

	"github.com/odpf/salt/log"
	"github.com/spf13/cobra"

	"github.com/odpf/jobpack/client/cmd/internal/logger"
	"github.com/odpf/jobpack/config"
)

type versionCommand struct {
	logger log.Logger
}

// NewVersionCommand initializes command to get version
func NewVersionCommand() *cobra.Command {
	v := &versionCommand{
		logger: logger.NewClientLogger(),
	}

	return &cobra.Command{
		Use:     "version",
		Short:   "Print the client version information",
		Example: "jobpack version",
		Args:    cobra.NoArgs,
		RunE:    v.RunE,
	}
}

func (v *versionCommand) RunE(_ *cobra.Command, _ []string) error {
	v.logger.Info("Client: %s-%s", config.BuildVersion, config.BuildCommit)
	v.logger.Info("Built: %s (%s)", config.BuildDate, runtime.Version())
	return nil
}
