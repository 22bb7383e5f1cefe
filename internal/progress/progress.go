// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package progress shows that a task is still running, without a percentage.
package progress

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/elliotnunn/huffarc/internal/task"
)

var frames = []string{"|", "/", "-", "\\"}

const Interval = 100 * time.Millisecond

// Watch draws a spinner on w until t finishes, then erases it and logs the running time.
// A nil w draws nothing. It returns the task's error.
func Watch(w io.Writer, t *task.Task, interval time.Duration) error {
	if w != nil {
		tick := time.NewTicker(interval)
		defer tick.Stop()
		i := 0
	loop:
		for {
			fmt.Fprintf(w, "\r%s %s", frames[i%len(frames)], t.Name)
			i++
			select {
			case <-t.Done():
				break loop
			case <-tick.C:
			}
		}
		fmt.Fprintf(w, "\r%*s\r", len(t.Name)+2, "")
	}

	err := t.Wait()
	d := t.Elapsed()
	if err != nil {
		slog.Info("taskFailed", "task", t.Name, "duration", d.Round(10*time.Millisecond).String(), "err", err)
	} else {
		slog.Info("taskDone", "task", t.Name, "duration", d.Round(10*time.Millisecond).String())
	}
	return err
}
