package cmd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odpf/jobpack/client/cmd"
)

func TestNew(t *testing.T) {
	t.Run("should register every sub command", func(t *testing.T) {
		root := cmd.New()

		var names []string
		for _, c := range root.Commands() {
			names = append(names, c.Name())
		}

		assert.Subset(t, names, []string{"init", "submit", "status", "count", "unpack", "version"})
	})
	t.Run("submit should expose pipeline flags", func(t *testing.T) {
		root := cmd.New()
		submit, _, err := root.Find([]string{"submit"})
		assert.NoError(t, err)

		for _, name := range []string{
			"role", "input_s3_path", "output_s3_path", "bucket", "zip_name",
			"source_dir", "entry_point", "strategy", "instance_type",
			"instance_count", "region", "keep_zip", "config",
		} {
			assert.NotNil(t, submit.Flags().Lookup(name), name)
		}
		assert.Equal(t, ".", submit.Flags().Lookup("source_dir").DefValue)
	})
}
