package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// Long PDF exports put a whole page on one line now and then.
const MAX_LINE_SIZE = 1024 * 1024

type Impl struct {
}

type Line struct {
	Number int
	Fields []string
}

func (l Line) Pipe() string {
	return JoinFields(l.Fields)
}

type Response struct {
	Layout      Layout
	Lines       []Line
	Total       int // non-empty input lines
	Skipped     int // blank lines
	Rejected    int
	PercentErrs int
	Errs        []error
}

// ParseText reads result lines from r and transforms every non-empty one.
// Rejected lines, over-long ones included, are counted and kept in Errs, they never stop the parse.
func (i Impl) ParseText(r io.Reader, opts Options) (*Response, error) {
	c := newCollector(opts)
	br := bufio.NewReader(r)

	n := 0
	for {
		raw, tooLong, err := readLine(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("br.ReadLine failed: %w", err)
		}
		n++

		if tooLong {
			c.resp.Total++
			c.reject(&LineError{Line: n, Err: ErrLineTooLong})
			continue
		}
		if err := c.add(n, raw); err != nil {
			return nil, fmt.Errorf("ParseText failed: %w", err)
		}
	}

	return c.response(), nil
}

// readLine returns the next line without its line ending. Past MAX_LINE_SIZE the rest of
// the line is read and dropped, and tooLong is set.
func readLine(br *bufio.Reader) (line string, tooLong bool, err error) {
	var buf []byte
	read := false
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			// a last line without a newline that filled the buffer exactly
			if err == io.EOF && read {
				return string(buf), tooLong, nil
			}
			return "", false, err
		}
		read = true

		if !tooLong {
			if len(buf)+len(chunk) > MAX_LINE_SIZE {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			return string(buf), tooLong, nil
		}
	}
}

type collector struct {
	opts Options
	resp *Response
}

func newCollector(opts Options) *collector {
	if opts.Layout == "" {
		opts.Layout = LayoutText
	}
	return &collector{opts: opts, resp: &Response{Layout: opts.Layout}}
}

// add returns an error only for problems that concern every line, like an unknown layout.
func (c *collector) add(number int, raw string) error {
	if Normalize(raw) == "" {
		c.resp.Skipped++
		return nil
	}
	c.resp.Total++

	fields, err := TransformLine(raw, c.opts)
	if err != nil {
		var lineErr *LineError
		if !errors.As(err, &lineErr) {
			return err
		}
		lineErr.Line = number
		c.reject(lineErr)
		return nil
	}

	c.resp.Lines = append(c.resp.Lines, Line{Number: number, Fields: fields})
	return nil
}

func (c *collector) reject(err *LineError) {
	c.resp.Rejected++
	c.resp.Errs = append(c.resp.Errs, err)
}

func (c *collector) response() *Response {
	if c.resp.Total > 0 {
		c.resp.PercentErrs = c.resp.Rejected * 100 / c.resp.Total
	}
	return c.resp
}
