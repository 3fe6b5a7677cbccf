package document

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRunner mimics a converter binary by writing the output file.
type stubRunner struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (s *stubRunner) Run(_ context.Context, _ string, args ...string) ([]byte, []byte, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.fail {
		return nil, []byte("conversion error"), errors.New("exit status 1")
	}
	// args are: convert <in.pdf> <out.docx>
	return nil, nil, os.WriteFile(args[2], []byte("docx"), 0o644)
}

func newTestConverter(t *testing.T, runner Runner) (*Converter, string) {
	t.Helper()
	outDir := t.TempDir()
	c := NewConverter("pdf2docx", outDir, time.Minute, nil)
	c.runner = runner
	return c, outDir
}

func TestConvertProducesArtifact(t *testing.T) {
	stub := &stubRunner{}
	c, outDir := newTestConverter(t, stub)

	got, err := c.Convert(context.Background(), "/in/inv-1.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "inv-1.docx"), got)
	assert.FileExists(t, got)
	assert.Equal(t, 1, stub.calls)
}

func TestConvertReusesExistingArtifact(t *testing.T) {
	stub := &stubRunner{}
	c, outDir := newTestConverter(t, stub)
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "inv-2.docx"), []byte("cached"), 0o644))

	got, err := c.Convert(context.Background(), "/in/inv-2.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "inv-2.docx"), got)
	assert.Equal(t, 0, stub.calls, "existing artifact must not be reconverted")
}

func TestConvertFailureLeavesNoPartialFile(t *testing.T) {
	stub := &stubRunner{fail: true}
	c, outDir := newTestConverter(t, stub)

	_, err := c.Convert(context.Background(), "/in/inv-3.pdf")
	require.Error(t, err)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestConvertConcurrentCallersConvertOnce(t *testing.T) {
	stub := &stubRunner{}
	c, _ := newTestConverter(t, stub)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Convert(context.Background(), "/in/inv-4.pdf")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, stub.calls)
}
