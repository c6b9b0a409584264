package count

import (
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/odpf/jobpack/core/job"
	"github.com/odpf/jobpack/core/wordcount"
)

const (
	stdinInput    = "-"
	defaultOutput = job.OutputPath + "/result.txt"
)

type countCommand struct {
	fs     afero.Fs
	input  string
	output string
}

// NewCountCommand initializes the word count worker run inside the processing job
func NewCountCommand() *cobra.Command {
	return newCountCommand(afero.NewOsFs())
}

func newCountCommand(fs afero.Fs) *cobra.Command {
	count := &countCommand{
		fs: fs,
	}

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count whitespace separated words of the job input",
		Long: heredoc.Doc(`
			Read every regular file under the input path, or stdin when the input is -,
			print the number of words and write it to the output file.`),
		Example: heredoc.Doc(`
			$ jobpack count
			$ echo "the quick brown fox" | jobpack count --input - --output result.txt
		`),
		Args: cobra.NoArgs,
		RunE: count.RunE,
	}
	cmd.Flags().StringVar(&count.input, "input", job.InputDataPath, "File or directory to read, - for stdin")
	cmd.Flags().StringVar(&count.output, "output", defaultOutput, "File the result is written to")
	return cmd
}

func (c *countCommand) RunE(cmd *cobra.Command, _ []string) error {
	var (
		n   int
		err error
	)
	if c.input == stdinInput {
		n, err = wordcount.CountReader(cmd.InOrStdin())
	} else {
		n, err = wordcount.CountPath(c.fs, c.input)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), wordcount.Result(n))
	return wordcount.WriteResult(c.fs, c.output, n)
}
