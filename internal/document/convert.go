package document

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Converter turns a source PDF into a DOCX artifact next to its siblings
// in OutDir. Conversion is a one-time cached side effect: an artifact that
// already exists is reused. The converter is invoked as
//
//	<cmd> convert <in.pdf> <out.docx>
//
// which matches the pdf2docx CLI.
type Converter struct {
	cmd     string
	outDir  string
	timeout time.Duration
	runner  Runner
	log     *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex // per-artifact locks for concurrent batches
}

func NewConverter(cmd, outDir string, timeout time.Duration, log *slog.Logger) *Converter {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Converter{
		cmd:     cmd,
		outDir:  outDir,
		timeout: timeout,
		runner:  execRunner{},
		log:     log,
		locks:   make(map[string]*sync.Mutex),
	}
}

// Convert returns the path of the DOCX artifact for pdfPath, producing it
// if needed. The conversion writes to a temp file and renames into place,
// so concurrent callers never observe a partial artifact.
func (c *Converter) Convert(ctx context.Context, pdfPath string) (string, error) {
	key := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	dest := filepath.Join(c.outDir, key+".docx")

	lock := c.lockFor(dest)
	lock.Lock()
	defer lock.Unlock()

	if _, err := os.Stat(dest); err == nil {
		c.log.Debug("reusing converted artifact", "key", key, "path", dest)
		return dest, nil
	}

	if err := os.MkdirAll(c.outDir, 0o755); err != nil {
		return "", fmt.Errorf("create docs dir: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	tmp := dest + ".partial"
	if _, _, err := c.runner.Run(ctx, c.cmd, "convert", pdfPath, tmp); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("convert %s: %w", pdfPath, err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("finalize %s: %w", dest, err)
	}

	c.log.Info("file converted", "key", key, "path", dest)
	return dest, nil
}

func (c *Converter) lockFor(dest string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.locks[dest]; ok {
		return l
	}
	l := &sync.Mutex{}
	c.locks[dest] = l
	return l
}
