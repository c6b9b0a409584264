package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/odpf/salt/log"
	"github.com/spf13/afero"
	"go.uber.org/multierr"

	"github.com/odpf/jobpack/core/job"
	"github.com/odpf/jobpack/internal/errors"
)

const EntityArchive = "archive"

// Artifact is the single zip file produced from a source directory
type Artifact struct {
	Path  string
	Files int
	Bytes int64
}

type Archiver struct {
	fs        afero.Fs
	outputDir string
	logger    log.Logger
}

// NewArchiver creates archives inside outputDir, an empty outputDir means the
// working directory
func NewArchiver(fs afero.Fs, outputDir string, logger log.Logger) *Archiver {
	return &Archiver{
		fs:        fs,
		outputDir: outputDir,
		logger:    logger,
	}
}

// Validate checks that sourceDir exists and is a directory
func (a *Archiver) Validate(sourceDir string) error {
	info, err := a.fs.Stat(sourceDir)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NotFound(EntityArchive, fmt.Sprintf("source directory [%s] does not exist", sourceDir))
		}
		return errors.InternalError(EntityArchive, "unable to stat source directory "+sourceDir, err)
	}
	if !info.IsDir() {
		return errors.InvalidArgument(EntityArchive, fmt.Sprintf("source [%s] is not a directory", sourceDir))
	}
	return nil
}

// Archive writes the full recursive content of sourceDir into <zipName>.zip
func (a *Archiver) Archive(sourceDir, zipName string) (Artifact, error) {
	if err := a.Validate(sourceDir); err != nil {
		return Artifact{}, err
	}

	archivePath := filepath.Join(a.outputDir, job.ArchiveFileName(zipName))
	out, err := a.fs.Create(archivePath)
	if err != nil {
		return Artifact{}, errors.InternalError(EntityArchive, "unable to create "+archivePath, err)
	}

	artifact := Artifact{Path: archivePath}
	zipWriter := zip.NewWriter(out)
	walkErr := a.addDir(zipWriter, sourceDir, archivePath, &artifact)

	closeErr := multierr.Combine(zipWriter.Close(), out.Close())
	if err := multierr.Append(walkErr, closeErr); err != nil {
		if rmErr := a.fs.Remove(archivePath); rmErr != nil {
			a.logger.Warn("unable to remove partial archive %s: %s", archivePath, rmErr)
		}
		return Artifact{}, errors.Wrap(EntityArchive, "unable to archive "+sourceDir, err)
	}

	if info, err := a.fs.Stat(archivePath); err != nil {
		a.logger.Warn("unable to stat archive %s: %s", archivePath, err)
	} else {
		artifact.Bytes = info.Size()
	}
	a.logger.Debug("created archive %s with %d files", archivePath, artifact.Files)
	return artifact, nil
}

func (a *Archiver) addDir(zipWriter *zip.Writer, sourceDir, archivePath string, artifact *Artifact) error {
	skipPath := absPath(archivePath)
	return afero.Walk(a.fs, sourceDir, func(filePath string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if absPath(filePath) == skipPath {
			return nil
		}
		rel, err := filepath.Rel(sourceDir, filePath)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if info.Mode()&fs.ModeSymlink != 0 {
			target, err := a.fs.Stat(filePath)
			if err != nil {
				return errors.InvalidArgument(EntityArchive, fmt.Sprintf("broken symlink [%s]: %s", filePath, err))
			}
			if !target.Mode().IsRegular() {
				a.logger.Warn("skipping symlink %s, target is not a regular file", filePath)
				return nil
			}
			info = target
		}
		if !info.IsDir() && !info.Mode().IsRegular() {
			a.logger.Warn("skipping %s, not a regular file", filePath)
			return nil
		}

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		if info.IsDir() {
			header.Name += "/"
			header.Method = zip.Store
			_, err = zipWriter.CreateHeader(header)
			return err
		}
		header.Method = zip.Deflate

		w, err := zipWriter.CreateHeader(header)
		if err != nil {
			return err
		}
		if err := a.copyFile(w, filePath); err != nil {
			return err
		}
		artifact.Files++
		return nil
	})
}

func (a *Archiver) copyFile(w io.Writer, filePath string) error {
	f, err := a.fs.Open(filePath)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}

// Extract unpacks the archive at src into dest, entries escaping dest are rejected
func (a *Archiver) Extract(src, dest string) (err error) {
	in, err := a.fs.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NotFound(EntityArchive, fmt.Sprintf("archive [%s] does not exist", src))
		}
		return errors.InternalError(EntityArchive, "unable to open "+src, err)
	}
	defer func() {
		err = multierr.Append(err, in.Close())
	}()

	info, err := in.Stat()
	if err != nil {
		return errors.InternalError(EntityArchive, "unable to stat "+src, err)
	}
	reader, err := zip.NewReader(in, info.Size())
	if err != nil {
		return errors.InvalidArgument(EntityArchive, fmt.Sprintf("[%s] is not a zip archive: %s", src, err))
	}

	if err := a.fs.MkdirAll(dest, os.ModePerm); err != nil {
		return errors.InternalError(EntityArchive, "unable to create "+dest, err)
	}
	for _, file := range reader.File {
		if err := a.extractOne(file, dest); err != nil {
			return err
		}
	}
	a.logger.Debug("extracted %d entries from %s to %s", len(reader.File), src, dest)
	return nil
}

func (a *Archiver) extractOne(file *zip.File, dest string) error {
	destFileName, err := sanitizeArchivePath(dest, file.Name)
	if err != nil {
		return errors.InvalidArgument(EntityArchive, err.Error())
	}
	if file.FileInfo().IsDir() {
		return a.fs.MkdirAll(destFileName, os.ModePerm)
	}
	if err := a.fs.MkdirAll(filepath.Dir(destFileName), os.ModePerm); err != nil {
		return err
	}

	open, err := file.Open()
	if err != nil {
		return err
	}
	defer open.Close()

	mode := file.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	create, err := a.fs.OpenFile(destFileName, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	_, err = io.Copy(create, open)
	return multierr.Append(err, create.Close())
}

func sanitizeArchivePath(d, t string) (string, error) {
	v := filepath.Join(d, filepath.FromSlash(t))
	clean := filepath.Clean(d)
	if v == clean || strings.HasPrefix(v, clean+string(os.PathSeparator)) {
		return v, nil
	}
	return "", fmt.Errorf("%s: %s", "content filepath is tainted", t)
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}
