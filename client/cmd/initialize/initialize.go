package initialize

import (
	"fmt"
	"path/filepath"

	"github.com/mcuadros/go-defaults"
	"github.com/odpf/salt/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/odpf/jobpack/client/cmd/internal/logger"
	"github.com/odpf/jobpack/config"
)

const filePermission = 0o660

type initializeCommand struct {
	logger log.Logger
	fs     afero.Fs

	dirPath string
	force   bool
}

// NewInitializeCommand initializes command to write a client config with defaults
func NewInitializeCommand() *cobra.Command {
	return newInitializeCommand(afero.NewOsFs(), logger.NewClientLogger())
}

func newInitializeCommand(fs afero.Fs, l log.Logger) *cobra.Command {
	initialize := &initializeCommand{
		logger: l,
		fs:     fs,
	}
	cmd := &cobra.Command{
		Use:     "init",
		Short:   "Write a jobpack client config with default values",
		Example: "jobpack init [--dir] [--force]",
		Args:    cobra.NoArgs,
		RunE:    initialize.RunE,
	}
	cmd.Flags().StringVar(&initialize.dirPath, "dir", initialize.dirPath, "Directory where the client config will be stored")
	cmd.Flags().BoolVar(&initialize.force, "force", false, "Replace an existing client config")
	return cmd
}

func (i *initializeCommand) RunE(_ *cobra.Command, _ []string) error {
	filePath := i.getClientConfigPath()

	exists, err := afero.Exists(i.fs, filePath)
	if err != nil {
		return err
	}
	if exists && !i.force {
		return fmt.Errorf("path [%s] already exists, use --force to replace it", filePath)
	}

	clientConfig := &config.ClientConfig{}
	defaults.SetDefaults(clientConfig)
	marshalledClientConfig, err := yaml.Marshal(clientConfig)
	if err != nil {
		return err
	}
	if i.dirPath != "" {
		if err := i.fs.MkdirAll(i.dirPath, 0o750); err != nil {
			return err
		}
	}
	if err := afero.WriteFile(i.fs, filePath, marshalledClientConfig, filePermission); err != nil {
		return err
	}
	i.logger.Info("Client config is initialized successfully")
	i.logger.Info("Fill in the job section or pass its values as flags, the file is at [%s]", filePath)
	return nil
}

func (i *initializeCommand) getClientConfigPath() string {
	fileName := fmt.Sprintf("%s.%s", config.DefaultFilename, config.DefaultFileExtension)
	return filepath.Join(i.dirPath, fileName)
}
