package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mcuadros/go-defaults"
	"github.com/odpf/salt/config"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	DefaultFilename      = "jobpack"
	DefaultFileExtension = "yaml"
	DefaultEnvPrefix     = "JOBPACK"
	EmptyPath            = ""
)

var (
	FS       = afero.NewReadOnlyFs(afero.NewOsFs())
	currPath string
)

func init() {
	p, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	currPath = p
}

// LoadClientConfig load the client config from these locations:
// 1. filepath. ./jobpack <command> -c "path/to/config/jobpack.yaml"
// 2. current dir. jobpack will look at current directory if there's jobpack.yaml there, use it
// When neither exists the defaults are returned.
// Environment variables prefixed with JOBPACK_ override file values.
func LoadClientConfig(filePath string) (*ClientConfig, error) {
	cfg := &ClientConfig{}

	v := viper.New()
	v.SetFs(FS)

	opts := []config.LoaderOption{
		config.WithViper(v),
		config.WithName(DefaultFilename),
		config.WithType(DefaultFileExtension),
		config.WithEnvPrefix(DefaultEnvPrefix),
		config.WithEnvKeyReplacer(".", "_"),
	}

	if filePath != EmptyPath {
		if err := validateFilepath(FS, filePath); err != nil {
			return nil, err
		}
		opts = append(opts, config.WithFile(filePath))
	} else {
		defaultPath := filepath.Join(currPath, DefaultFilename+"."+DefaultFileExtension)
		if exists, _ := afero.Exists(FS, defaultPath); !exists {
			defaults.SetDefaults(cfg)
			return cfg, nil
		}
		opts = append(opts, config.WithPath(currPath))
	}

	l := config.NewLoader(opts...)
	if err := l.Load(cfg); err != nil {
		return nil, err
	}
	cfg.Log.Level = LogLevel(strings.ToUpper(cfg.Log.Level.String()))
	return cfg, nil
}

func validateFilepath(fs afero.Fs, fpath string) error {
	f, err := fs.Stat(fpath)
	if err != nil {
		return err
	}
	if !f.Mode().IsRegular() {
		return fmt.Errorf("%s not a file", fpath)
	}
	return nil
}
