package status

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinePrefixes(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, nil)

	r.Infof("starting with %d workers", 4)
	r.Warnf("length %d skipped", 20)
	r.Errorf("checkpoint failed")
	r.Fatalf("unexpected state")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"INFO: starting with 4 workers",
		"WARN: length 20 skipped",
		"ERROR: checkpoint failed",
		"FATAL: unexpected state",
	}, lines)
}

func TestFound(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, nil)

	r.Found("hunter2")
	assert.Equal(t, "FOUND:hunter2\n", buf.String())
}

// Concurrent writers must emit whole lines.
func TestConcurrentLinesDoNotInterleave(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				r.Infof("worker message payload")
			}
		}()
	}
	wg.Wait()

	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		assert.Equal(t, "INFO: worker message payload", line)
	}
}
