package progressbar

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/odpf/jobpack/core/progress"
)

const (
	progressBarWidth           = 15
	progressBarRefreshDuration = 120 * time.Millisecond

	progressIndicatorEnv = "JOBPACK_PROGRESS_INDICATOR"
)

// ProgressBar shows a spinner for pipeline steps and a byte bar for uploads
type ProgressBar struct {
	spinner *spinner.Spinner
	bar     *progressbar.ProgressBar

	mu     sync.Mutex
	writer io.Writer
}

// NewProgressBar writes to stderr when it is a terminal, unless
// JOBPACK_PROGRESS_INDICATOR is false
func NewProgressBar() *ProgressBar {
	writer := io.Discard
	disableProgressIndicator := strings.ToLower(os.Getenv(progressIndicatorEnv))
	if isTerminal(os.Stderr) && disableProgressIndicator != "false" {
		writer = os.Stderr
	}
	return NewProgressBarWithWriter(writer)
}

func NewProgressBarWithWriter(w io.Writer) *ProgressBar {
	return &ProgressBar{
		writer: w,
	}
}

// Start starts the spinner with label, a running spinner only changes label
func (p *ProgressBar) Start(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.spinner != nil {
		if label == "" {
			p.spinner.Suffix = ""
		} else {
			p.spinner.Suffix = " " + label
		}
		return
	}
	sp := spinner.New(spinner.CharSets[11], progressBarRefreshDuration,
		spinner.WithWriter(p.writer), spinner.WithColor("fgCyan"))
	if label != "" {
		sp.Suffix = " " + label
	}
	sp.Start()
	p.spinner = sp
}

// Notify labels the spinner with the pipeline event
func (p *ProgressBar) Notify(evt progress.Event) {
	p.Start(evt.String())
}

// StartBytes starts a byte bar of total size with label. The returned writer
// advances the bar and must be fed the transferred bytes.
func (p *ProgressBar) StartBytes(label string, total int64) io.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.spinner != nil {
		p.spinner.Stop()
		p.spinner = nil
	}
	p.bar = progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(progressBarWidth),
		progressbar.OptionSetDescription("[cyan] "+label),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionSetPredictTime(false),
	)
	return p.bar
}

// FinishBytes completes the byte bar started by StartBytes
func (p *ProgressBar) FinishBytes() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar == nil {
		return
	}
	p.bar.Finish()
	p.bar.Close()
	p.bar = nil
}

// Stop stops progress bar
func (p *ProgressBar) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.spinner != nil {
		p.spinner.Stop()
	}
	if p.bar != nil {
		p.bar.Finish()
		p.bar.Close()
	}
	p.bar = nil
	p.spinner = nil
}

// ByteCounter feeds upload progress into the byte bar
type ByteCounter struct {
	bar *ProgressBar
}

func (b ByteCounter) Start(name string, total int64) io.Writer {
	return b.bar.StartBytes("uploading "+name, total)
}

func (b ByteCounter) Finish() {
	b.bar.FinishBytes()
}

// Bytes returns the upload counter that draws to this bar
func (p *ProgressBar) Bytes() ByteCounter {
	return ByteCounter{bar: p}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
