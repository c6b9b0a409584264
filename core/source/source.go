package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	getter "github.com/hashicorp/go-getter"
	"github.com/odpf/salt/log"
	"github.com/spf13/afero"

	"github.com/odpf/jobpack/internal/errors"
)

const EntitySource = "source"

// Fetcher downloads src into the directory dst
type Fetcher func(ctx context.Context, src, dst, pwd string) error

// Resolver turns a source address into a local directory. Local paths are
// returned as they are, anything go-getter understands (git::, https://, s3::)
// is downloaded into a temporary directory.
type Resolver struct {
	fs      afero.Fs
	pwd     string
	tempDir string
	fetch   Fetcher
	logger  log.Logger
}

// Resolve returns the local directory for src and a function removing anything
// the resolver created
func (r *Resolver) Resolve(ctx context.Context, src string) (string, func(), error) {
	noop := func() {}
	if strings.TrimSpace(src) == "" {
		return "", noop, errors.InvalidArgument(EntitySource, "source is empty")
	}
	if _, err := r.fs.Stat(src); err == nil {
		return src, noop, nil
	}

	detected, err := getter.Detect(src, r.pwd, getter.Detectors)
	if err != nil {
		return "", noop, errors.InvalidArgument(EntitySource, fmt.Sprintf("unable to detect source [%s]: %s", src, err))
	}
	if strings.HasPrefix(detected, "file://") {
		// local but missing, existence is reported by the archiver
		return src, noop, nil
	}

	// go-getter always writes to the local disk
	tmp, err := os.MkdirTemp(r.tempDir, "jobpack-source-")
	if err != nil {
		return "", noop, errors.InternalError(EntitySource, "unable to create temporary directory", err)
	}
	cleanup := func() {
		if err := os.RemoveAll(tmp); err != nil {
			r.logger.Warn("unable to remove %s: %s", tmp, err)
		}
	}

	dst := filepath.Join(tmp, "src")
	r.logger.Info("fetching source %s", src)
	if err := r.fetch(ctx, detected, dst, r.pwd); err != nil {
		cleanup()
		return "", noop, errors.InternalError(EntitySource, "unable to fetch source "+src, err)
	}
	return dst, cleanup, nil
}

func getterFetch(ctx context.Context, src, dst, pwd string) error {
	client := &getter.Client{
		Ctx:  ctx,
		Src:  src,
		Dst:  dst,
		Pwd:  pwd,
		Mode: getter.ClientModeDir,
	}
	return client.Get()
}

type Option func(*Resolver)

func WithFetcher(fetch Fetcher) Option {
	return func(r *Resolver) {
		r.fetch = fetch
	}
}

func WithTempDir(dir string) Option {
	return func(r *Resolver) {
		r.tempDir = dir
	}
}

func NewResolver(fs afero.Fs, pwd string, logger log.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		fs:     fs,
		pwd:    pwd,
		fetch:  getterFetch,
		logger: logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
