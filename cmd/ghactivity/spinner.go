package main

import (
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// progress shows a spinner on stderr while an analysis runs. Nothing is drawn
// when output is not a terminal.
type progress struct {
	updates chan string
	done    chan struct{}
}

func startSpinner(cmd *cobra.Command) *progress {
	ctx := cmd.Context()
	isTTY := !color.NoColor

	var sp *spinner.Spinner
	if isTTY {
		sp = spinner.New(spinner.CharSets[11], 100*time.Millisecond,
			spinner.WithWriter(cmd.ErrOrStderr()),
			spinner.WithColor("green"))
		sp.Start()
	}

	p := &progress{updates: make(chan string), done: make(chan struct{})}
	go func() {
		defer close(p.done)
		if isTTY {
			defer sp.Stop()
		}
		for {
			select {
			case <-ctx.Done():
				return
			case msg, more := <-p.updates:
				if !more {
					return
				}
				if isTTY {
					// the spinner goroutine reads Suffix under the same lock
					sp.Lock()
					sp.Suffix = " " + msg
					sp.Unlock()
				}
			}
		}
	}()
	return p
}

// Update replaces the spinner text
func (p *progress) Update(msg string) {
	select {
	case p.updates <- msg:
	case <-p.done:
	}
}

// Stop clears the spinner and waits until it is gone
func (p *progress) Stop() {
	close(p.updates)
	<-p.done
}
