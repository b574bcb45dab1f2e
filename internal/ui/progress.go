package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// ProgressBar shows batch planning progress on a terminal
type ProgressBar struct {
	mu   sync.Mutex
	bar  *progressbar.ProgressBar
	done int
}

// NewProgressBar creates a progress bar for total items written to output.
// A nil output discards the bar.
func NewProgressBar(description string, total int, output io.Writer) *ProgressBar {
	if output == nil {
		output = io.Discard
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(output),
		progressbar.OptionSetDescription(fmt.Sprintf("[%s]", description)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
	)
	return &ProgressBar{bar: bar}
}

// Update moves the bar to done out of total. It matches executor.ProgressFunc, is safe for
// concurrent use and never moves the bar backwards.
func (pb *ProgressBar) Update(done, total int) {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	if int64(total) != pb.bar.GetMax64() {
		pb.bar.ChangeMax(total)
	}
	if done > pb.done {
		pb.done = done
		_ = pb.bar.Set(done)
	}
}

// Current returns the number of items done so far
func (pb *ProgressBar) Current() int {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	return pb.done
}

// Finish completes the progress bar
func (pb *ProgressBar) Finish() error {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	return pb.bar.Finish()
}
