// Package outbox watches a drop directory: each text file that appears
// is read, sent line by line as composed messages, and removed. It
// gives scripts and other local tools a radio egress without touching
// the keypad.
package outbox

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

type Options struct {
	Dir string
	// MaxFileBytes bounds how much of a dropped file is read. Defaults
	// to 64 KiB.
	MaxFileBytes int64
}

// Sender transmits one message. Typically station.Send.
type Sender func(text string)

type Logger func(msg string)

// Start watches the directory until the context is cancelled. Returns
// a stop function releasing the watcher.
func Start(ctx context.Context, opts Options, send Sender, logf Logger) (func() error, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Dir == "" {
		return nil, errors.New("outbox dir is empty")
	}
	if send == nil {
		return nil, errors.New("outbox sender is nil")
	}
	if opts.MaxFileBytes <= 0 {
		opts.MaxFileBytes = 64 * 1024
	}
	if err := os.MkdirAll(opts.Dir, 0700); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(opts.Dir); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
					continue
				}
				info, err := os.Stat(ev.Name)
				if err != nil || info.IsDir() {
					continue
				}
				// Let the writer finish before reading.
				time.Sleep(150 * time.Millisecond)
				n, err := drainFile(ev.Name, opts.MaxFileBytes, send)
				if err != nil {
					if logf != nil {
						logf("outbox read error: " + err.Error())
					}
					continue
				}
				if logf != nil {
					logf(fmt.Sprintf("outbox sent %d line(s) from %s", n, filepath.Base(ev.Name)))
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				if err != nil && logf != nil {
					logf("outbox watcher error: " + err.Error())
				}
			}
		}
	}()

	stop := func() error {
		err := watcher.Close()
		<-done
		return err
	}
	return stop, nil
}

// drainFile sends every non-empty line of the file and removes it.
// Returns the number of messages sent.
func drainFile(path string, maxBytes int64, send Sender) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if info.Size() > maxBytes {
		return 0, errors.New("file exceeds outbox size limit")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		send(line)
		sent++
	}
	return sent, os.Remove(path)
}
