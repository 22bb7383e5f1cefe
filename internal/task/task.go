// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package task runs one archive job on its own goroutine.
// A task cannot be cancelled once started.
package task

import (
	"time"
)

type Task struct {
	Name    string
	done    chan struct{}
	err     error
	start   time.Time
	elapsed time.Duration
}

// Start runs f in the background.
func Start(name string, f func() error) *Task {
	t := &Task{
		Name:  name,
		done:  make(chan struct{}),
		start: time.Now(),
	}
	go func() {
		defer close(t.done)
		t.err = f()
		t.elapsed = time.Since(t.start)
	}()
	return t
}

// Done is closed when the task has finished.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the task finishes and returns its error.
func (t *Task) Wait() error {
	<-t.done
	return t.err
}

// Elapsed is the running time so far, or the total once finished.
func (t *Task) Elapsed() time.Duration {
	select {
	case <-t.done:
		return t.elapsed
	default:
		return time.Since(t.start)
	}
}
