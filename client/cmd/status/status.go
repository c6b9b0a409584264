package status

import (
	"fmt"
	"io"
	"time"

	"github.com/odpf/salt/log"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/odpf/jobpack/client/cmd/internal"
	"github.com/odpf/jobpack/client/cmd/internal/logger"
	"github.com/odpf/jobpack/config"
	"github.com/odpf/jobpack/core/job"
	"github.com/odpf/jobpack/ext/awsclient"
	"github.com/odpf/jobpack/ext/processor/sagemaker"
)

const timeLayout = time.RFC3339

type statusCommand struct {
	logger         log.Logger
	clientConfig   *config.ClientConfig
	configFilePath string
	region         string
}

// NewStatusCommand initializes command to get the status of a processing job
func NewStatusCommand() *cobra.Command {
	status := &statusCommand{
		logger: logger.NewClientLogger(),
	}

	cmd := &cobra.Command{
		Use:     "status <job-name>",
		Short:   "Show the status of a submitted processing job",
		Example: "jobpack status dynamic-zip-spark-job-2024-03-05-07-08-09-000",
		Args:    cobra.ExactArgs(1),
		PreRunE: status.PreRunE,
		RunE:    status.RunE,
	}
	cmd.Flags().StringVarP(&status.configFilePath, "config", "c", config.EmptyPath, "File path for client configuration")
	cmd.Flags().StringVar(&status.region, "region", "", "AWS region, overrides aws.region")
	return cmd
}

func (s *statusCommand) PreRunE(cmd *cobra.Command, _ []string) error {
	conf, err := internal.LoadConfig(s.configFilePath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("region") {
		conf.AWS.Region = s.region
	}
	s.clientConfig = conf
	s.logger = logger.NewClientLoggerWithWriter(conf.Log, cmd.OutOrStdout())
	return nil
}

func (s *statusCommand) RunE(cmd *cobra.Command, args []string) error {
	sess, err := awsclient.NewSession(s.clientConfig.AWS)
	if err != nil {
		return err
	}
	st, err := sagemaker.NewSubmitterFromSession(sess, s.logger).Describe(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	printStatus(cmd.OutOrStdout(), st)
	return nil
}

func printStatus(w io.Writer, st job.Status) {
	table := tablewriter.NewWriter(w)
	table.SetBorder(false)
	table.SetHeader([]string{
		"NAME",
		"STATUS",
		"CREATED",
		"ENDED",
		"FAILURE REASON",
	})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.Append([]string{
		st.Name,
		st.State.String(),
		formatTime(st.CreatedAt),
		formatTime(st.EndedAt),
		st.FailureReason,
	})
	table.Render()
	if !st.State.IsTerminal() {
		fmt.Fprintf(w, "\njob has not reached a final state yet\n")
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(timeLayout)
}
