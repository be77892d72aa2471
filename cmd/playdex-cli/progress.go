package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/schollz/progressbar/v3"
)

// Spinner shows indeterminate progress on stderr.
type Spinner struct {
	spinner *spinner.Spinner
}

// NewSpinner creates a stopped spinner with the given message.
func NewSpinner(message string) *Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	return &Spinner{spinner: s}
}

func (s *Spinner) Start() { s.spinner.Start() }
func (s *Spinner) Stop()  { s.spinner.Stop() }

// ScanProgress renders deep-scan progress. The bar is created on the first
// report, since the number of games is only known once the scan starts.
// Report is safe for concurrent use.
type ScanProgress struct {
	mu      sync.Mutex
	bar     *progressbar.ProgressBar
	before  func()
	enabled bool
}

// NewScanProgress returns a progress reporter. before runs once ahead of the
// first render, typically to stop a spinner.
func NewScanProgress(enabled bool, before func()) *ScanProgress {
	return &ScanProgress{enabled: enabled, before: before}
}

// Report updates the bar to done of total games.
func (p *ScanProgress) Report(done, total int) {
	if !p.enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		if p.before != nil {
			p.before()
		}
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetDescription("Scanning games"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetItsString("games"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "█",
				SaucerHead:    "█",
				SaucerPadding: "░",
				BarStart:      "│",
				BarEnd:        "│",
			}),
			progressbar.OptionOnCompletion(func() { fmt.Fprintln(os.Stderr) }),
		)
	}
	_ = p.bar.Set(done)
}

// Finish completes the bar if one was shown.
func (p *ScanProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
