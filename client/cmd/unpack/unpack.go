package unpack

import (
	"github.com/odpf/salt/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/odpf/jobpack/client/cmd/internal/logger"
	"github.com/odpf/jobpack/core/archive"
)

type unpackCommand struct {
	logger log.Logger
	fs     afero.Fs
}

// NewUnpackCommand initializes command to extract an archive built by submit
func NewUnpackCommand() *cobra.Command {
	return newUnpackCommand(afero.NewOsFs(), logger.NewClientLogger())
}

func newUnpackCommand(fs afero.Fs, l log.Logger) *cobra.Command {
	unpack := &unpackCommand{
		logger: l,
		fs:     fs,
	}
	return &cobra.Command{
		Use:     "unpack <archive> <dest>",
		Short:   "Extract an archive into a directory",
		Example: "jobpack unpack job1.zip ./job1",
		Args:    cobra.ExactArgs(2),
		RunE:    unpack.RunE,
	}
}

func (u *unpackCommand) RunE(_ *cobra.Command, args []string) error {
	src, dest := args[0], args[1]
	if err := archive.NewArchiver(u.fs, "", u.logger).Extract(src, dest); err != nil {
		return err
	}
	u.logger.Info("Extracted %s into %s", src, dest)
	return nil
}
