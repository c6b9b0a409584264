package cmd

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/odpf/salt/cmdx"
	cli "github.com/spf13/cobra"

	"github.com/odpf/jobpack/client/cmd/count"
	"github.com/odpf/jobpack/client/cmd/initialize"
	"github.com/odpf/jobpack/client/cmd/status"
	"github.com/odpf/jobpack/client/cmd/submit"
	"github.com/odpf/jobpack/client/cmd/unpack"
	"github.com/odpf/jobpack/client/cmd/version"
)

// New constructs the 'root' command. It houses all other sub commands
// default output of logging should go to stdout
// interactive output like progress bars should go to stderr
// unless the stdout/err is a tty, colors/progressbar should be disabled
func New() *cli.Command {
	cmd := &cli.Command{
		Use: "jobpack <command> [flags]",
		Long: heredoc.Doc(`
			Jobpack zips a code directory, uploads it to object storage and submits a
			SageMaker Spark processing job running an entry point from the archive.

			AWS credentials are read from the usual environment variables and shared
			config files. Configuration values can be overridden with JOBPACK_ prefixed
			environment variables, eg. JOBPACK_AWS_REGION.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: heredoc.Doc(`
				$ jobpack submit --bucket my-bucket --zip_name job1 ...
				$ jobpack status dynamic-zip-spark-job-2024-03-05-07-08-09-000
				$ jobpack count --input - < words.txt
			`),
		Annotations: map[string]string{
			"group:core": "true",
			"help:learn": heredoc.Doc(`
				Use 'jobpack <command> --help' for more information about a command.
			`),
		},
	}

	cmdx.SetHelp(cmd)

	cmd.AddCommand(
		initialize.NewInitializeCommand(),
		submit.NewSubmitCommand(),
		status.NewStatusCommand(),
		count.NewCountCommand(),
		unpack.NewUnpackCommand(),
		version.NewVersionCommand(),
	)
	return cmd
}
