package tail

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	mu    sync.Mutex
	lines []string
}

func (c *collector) add(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, line)
}

func (c *collector) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lines...)
}

func startTailer(t *testing.T, path string, opts ...Option) *collector {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	c := &collector{}
	done := make(chan error, 1)
	tl := New(path, append([]Option{WithPollInterval(20 * time.Millisecond)}, opts...)...)
	go func() { done <- tl.Run(ctx, c.add) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("tailer did not stop")
		}
	})
	return c
}

func appendTo(t *testing.T, path, data string) {
	t.Helper()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func waitLines(t *testing.T, c *collector, want []string) {
	t.Helper()

	require.Eventually(t, func() bool {
		return len(c.snapshot()) >= len(want)
	}, 2*time.Second, 10*time.Millisecond, "got %q", c.snapshot())
	assert.Equal(t, want, c.snapshot())
}

func TestTailFollowsAppendsFromEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.log")
	appendTo(t, path, "old line : ignored\n")

	c := startTailer(t, path)
	time.Sleep(60 * time.Millisecond)

	appendTo(t, path, "Nick : hola\r\n\n   \nEllis : gg\n")
	waitLines(t, c, []string{"Nick : hola", "Ellis : gg"})
}

func TestTailFromStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.log")
	appendTo(t, path, "first\nsecond\n")

	c := startTailer(t, path, FromStart(true))
	waitLines(t, c, []string{"first", "second"})
}

func TestTailBuffersPartialLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.log")
	appendTo(t, path, "")

	c := startTailer(t, path)
	time.Sleep(60 * time.Millisecond)

	appendTo(t, path, "Coach : half")
	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, c.snapshot())

	appendTo(t, path, " done\n")
	waitLines(t, c, []string{"Coach : half done"})
}

func TestTailWaitsForFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.log")

	c := startTailer(t, path)
	time.Sleep(60 * time.Millisecond)

	appendTo(t, path, "Rochelle : ready\n")
	waitLines(t, c, []string{"Rochelle : ready"})
}

func TestTailReadsLateFileFromStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.log")

	c := startTailer(t, path)
	time.Sleep(60 * time.Millisecond)

	// Written in one go before the tailer notices the file.
	require.NoError(t, os.WriteFile(path, []byte("Coach : first\nEllis : second\n"), 0o644))
	waitLines(t, c, []string{"Coach : first", "Ellis : second"})

	appendTo(t, path, "Nick : third\n")
	waitLines(t, c, []string{"Coach : first", "Ellis : second", "Nick : third"})
}

func TestTailHandlesTruncation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.log")
	appendTo(t, path, "")

	c := startTailer(t, path)
	time.Sleep(60 * time.Millisecond)

	appendTo(t, path, "a long line before the game clears the log\n")
	waitLines(t, c, []string{"a long line before the game clears the log"})

	require.NoError(t, os.Truncate(path, 0))
	time.Sleep(100 * time.Millisecond)
	appendTo(t, path, "new\n")
	waitLines(t, c, []string{"a long line before the game clears the log", "new"})
}
