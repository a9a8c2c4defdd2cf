package export

import (
	"bufio"
	"fmt"
	"github.com/Geniuskaa/race_results/pkg/parser"
	"io"
	"os"
)

type PipeWriter struct {
	out  io.Writer
	echo io.Writer
}

// NewPipeWriter writes pipe lines to out and, when echo is not nil, repeats them there.
func NewPipeWriter(out io.Writer, echo io.Writer) *PipeWriter {
	return &PipeWriter{out: out, echo: echo}
}

// Write puts one pipe line per result line and returns how many it wrote.
func (w *PipeWriter) Write(lines []parser.Line) (int, error) {
	bw := bufio.NewWriter(w.out)

	for i, l := range lines {
		pipe := l.Pipe()
		if w.echo != nil {
			fmt.Fprintln(w.echo, pipe)
		}
		if _, err := bw.WriteString(pipe + "\n"); err != nil {
			return i, fmt.Errorf("bw.WriteString failed: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return 0, fmt.Errorf("bw.Flush failed: %w", err)
	}
	return len(lines), nil
}

// WriteFile replaces path with the pipe lines.
func WriteFile(path string, lines []parser.Line, echo io.Writer) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("os.Create failed: %w", err)
	}

	n, err := NewPipeWriter(f, echo).Write(lines)
	if err != nil {
		_ = f.Close()
		return n, err
	}
	if err := f.Close(); err != nil {
		return n, fmt.Errorf("f.Close failed: %w", err)
	}
	return n, nil
}
