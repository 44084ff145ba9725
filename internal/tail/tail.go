// Package tail follows a growing log file and emits complete lines.
package tail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultPollInterval is used when no interval is configured.
const DefaultPollInterval = 250 * time.Millisecond

// Tailer reads lines appended to a file. fsnotify events trigger reads
// promptly; a poll ticker covers platforms and filesystems that do not
// deliver write events.
type Tailer struct {
	path      string
	poll      time.Duration
	fromStart bool
	log       *zerolog.Logger

	file    *os.File
	offset  int64
	partial []byte
}

// Option configures a Tailer.
type Option func(*Tailer)

// WithPollInterval sets the fallback polling interval.
func WithPollInterval(d time.Duration) Option {
	return func(t *Tailer) {
		if d > 0 {
			t.poll = d
		}
	}
}

// FromStart makes the first open read the existing content instead of
// starting at the end of the file.
func FromStart(v bool) Option {
	return func(t *Tailer) {
		t.fromStart = v
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(t *Tailer) {
		if logger != nil {
			t.log = logger
		}
	}
}

// New creates a tailer for path.
func New(path string, opts ...Option) *Tailer {
	nop := zerolog.Nop()
	t := &Tailer{
		path: filepath.Clean(path),
		poll: DefaultPollInterval,
		log:  &nop,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run calls handle for every non-blank line until ctx is done. A file that
// does not exist yet is waited for and then read from the start. Lines come without their line ending.
func (t *Tailer) Run(ctx context.Context, handle func(line string)) error {
	defer t.close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		t.log.Warn().Err(err).Msg("fsnotify unavailable, polling only")
	} else {
		defer watcher.Close()
		if err := watcher.Add(filepath.Dir(t.path)); err != nil {
			t.log.Warn().Err(err).Str("dir", filepath.Dir(t.path)).Msg("watch log dir failed, polling only")
		}
	}

	ticker := time.NewTicker(t.poll)
	defer ticker.Stop()

	first := true
	for {
		if t.file == nil {
			if err := t.open(first); err != nil {
				if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
				// A file created after startup is read from its beginning.
				first = false
			} else {
				first = false
			}
		}
		if t.file != nil {
			if err := t.readAvailable(handle); err != nil {
				return err
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		case ev, ok := <-events(watcher):
			if !ok {
				watcher = nil
				continue
			}
			if filepath.Clean(ev.Name) != t.path {
				continue
			}
			if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				t.log.Info().Str("path", t.path).Msg("log file moved, reopening")
				t.flush(handle)
				t.close()
			}
		case err, ok := <-watchErrors(watcher):
			if ok {
				t.log.Warn().Err(err).Msg("fsnotify error")
			}
		}
	}
}

func events(w *fsnotify.Watcher) <-chan fsnotify.Event {
	if w == nil {
		return nil
	}
	return w.Events
}

func watchErrors(w *fsnotify.Watcher) <-chan error {
	if w == nil {
		return nil
	}
	return w.Errors
}

func (t *Tailer) open(first bool) error {
	f, err := os.Open(t.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return fmt.Errorf("open log: %w", err)
	}

	var offset int64
	if first && !t.fromStart {
		offset, err = f.Seek(0, io.SeekEnd)
		if err != nil {
			f.Close()
			return fmt.Errorf("seek log: %w", err)
		}
	}
	t.file = f
	t.offset = offset
	t.partial = t.partial[:0]
	t.log.Info().Str("path", t.path).Int64("offset", offset).Msg("tailing log")
	return nil
}

func (t *Tailer) close() {
	if t.file != nil {
		t.file.Close()
		t.file = nil
	}
}

func (t *Tailer) readAvailable(handle func(string)) error {
	info, err := t.file.Stat()
	if err != nil {
		return fmt.Errorf("stat log: %w", err)
	}
	if info.Size() < t.offset {
		t.log.Info().Int64("size", info.Size()).Int64("offset", t.offset).Msg("log truncated, rewinding")
		t.offset = 0
		t.partial = t.partial[:0]
	}
	if info.Size() == t.offset {
		return nil
	}

	if _, err := t.file.Seek(t.offset, io.SeekStart); err != nil {
		return fmt.Errorf("seek log: %w", err)
	}
	chunk, err := io.ReadAll(io.LimitReader(t.file, info.Size()-t.offset))
	if err != nil {
		return fmt.Errorf("read log: %w", err)
	}
	t.offset += int64(len(chunk))

	data := append(t.partial, chunk...)
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		emit(data[:i], handle)
		data = data[i+1:]
	}
	t.partial = append(t.partial[:0], data...)
	return nil
}

// flush emits a trailing line that never got its newline.
func (t *Tailer) flush(handle func(string)) {
	if len(t.partial) > 0 {
		emit(t.partial, handle)
		t.partial = t.partial[:0]
	}
}

func emit(raw []byte, handle func(string)) {
	line := strings.ToValidUTF8(strings.TrimRight(string(raw), "\r"), "")
	if strings.TrimSpace(line) == "" {
		return
	}
	handle(line)
}
