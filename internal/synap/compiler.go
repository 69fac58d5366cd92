package synap

import (
	"fmt"
	"io"
	"os"
)

// Compiler is the external graph compiler. Setup must succeed before the
// two-phase NBG protocol: NBGSize reports the blob size, GenerateNBG fills a
// buffer of exactly that size.
type Compiler interface {
	Setup() error
	NBGSize() (int, error)
	GenerateNBG(buf []byte) error
}

// FileCompiler serves a graph that was compiled ahead of time to an NBG file.
type FileCompiler struct {
	Path string
}

var _ Compiler = (*FileCompiler)(nil)

func (c *FileCompiler) Setup() error {
	fi, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("nbg file: %w", err)
	}
	if fi.IsDir() {
		return fmt.Errorf("nbg file %s is a directory", c.Path)
	}
	return nil
}

func (c *FileCompiler) NBGSize() (int, error) {
	fi, err := os.Stat(c.Path)
	if err != nil {
		return 0, fmt.Errorf("nbg file: %w", err)
	}
	return int(fi.Size()), nil
}

func (c *FileCompiler) GenerateNBG(buf []byte) error {
	f, err := os.Open(c.Path)
	if err != nil {
		return fmt.Errorf("nbg file: %w", err)
	}
	defer f.Close()
	if _, err := io.ReadFull(f, buf); err != nil {
		return fmt.Errorf("reading nbg file %s: %w", c.Path, err)
	}
	return nil
}
