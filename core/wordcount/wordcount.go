package wordcount

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// ResultFormat is the single line written to the result file
const ResultFormat = "Word count: %d"

const maxTokenSize = 16 * 1024 * 1024

// Count returns the number of whitespace separated tokens in text
func Count(text string) int {
	return len(strings.Fields(text))
}

// CountReader counts tokens without loading the whole stream in memory
func CountReader(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxTokenSize)
	scanner.Split(bufio.ScanWords)
	n := 0
	for scanner.Scan() {
		n++
	}
	return n, scanner.Err()
}

// CountPath counts tokens of a file, or of every regular file below a directory
func CountPath(fs afero.Fs, root string) (int, error) {
	info, err := fs.Stat(root)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return countFile(fs, root)
	}

	var files []string
	err = afero.Walk(fs, root, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.Mode().IsRegular() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	sort.Strings(files)

	total := 0
	for _, f := range files {
		n, err := countFile(fs, f)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func countFile(fs afero.Fs, p string) (int, error) {
	f, err := fs.Open(p)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return CountReader(f)
}

// Result renders the result line for n words
func Result(n int) string {
	return fmt.Sprintf(ResultFormat, n)
}

// WriteResult writes the result line to path, creating parent directories
func WriteResult(fs afero.Fs, path string, n int) error {
	if err := fs.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	return afero.WriteFile(fs, path, []byte(Result(n)), 0o644)
}
