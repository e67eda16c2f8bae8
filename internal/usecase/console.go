package usecase

import (
	"fmt"
	"io"
	"os"
)

// Console carries the operator-facing output protocol: progress on stdout,
// failures on stderr. Structured logs run alongside it; these lines are what
// a human watching the crawl reads, and downstream tooling greps them.
type Console struct {
	stdout io.Writer
	stderr io.Writer
}

// NewConsole creates a console writing to the given streams. Nil writers
// fall back to the process streams.
func NewConsole(stdout, stderr io.Writer) *Console {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Console{stdout: stdout, stderr: stderr}
}

func (c *Console) Category(rawID, title string) {
	fmt.Fprintf(c.stdout, "==> Category %s: %s\n", rawID, title)
}

func (c *Console) CategoryDone(count int) {
	fmt.Fprintf(c.stdout, "    Downloaded %d prayers.\n", count)
}

func (c *Console) CategoryFailed(rawID string, err error) {
	fmt.Fprintf(c.stderr, "[error] Category %s failed: %v\n", rawID, err)
}

func (c *Console) MappingLoadFailed(path string, err error) {
	fmt.Fprintf(c.stderr, "[error] Failed to load category mapping from %s: %v\n", path, err)
}

func (c *Console) TrackFailed(url, dest string, err error) {
	fmt.Fprintf(c.stdout, "[warn] Failed to download track: %s -> %s: %v\n", url, dest, err)
}

func (c *Console) DocumentFailed(url, dest string, err error) {
	fmt.Fprintf(c.stdout, "[warn] Failed to download document: %s -> %s: %v\n", url, dest, err)
}

func (c *Console) PDFCorrupted(path string) {
	fmt.Fprintf(c.stdout, "pdf file %s is corrupted\n", path)
}

func (c *Console) AllDone(total int) {
	fmt.Fprintf(c.stdout, "All done. Total prayers processed: %d\n", total)
}
