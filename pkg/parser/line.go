package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type Layout string

const (
	// Old text results: place, bib, last, first, grade, school,...., avg, time, score
	LayoutText Layout = "text"
	// PDF extracted results: place, first, last, grade, school,...., time, score
	LayoutPDF Layout = "pdf"
)

const (
	FIELD_SEPARATOR = "|"

	// School name starts at column 5. 9 is min, so if len is 10, 2 part school name.
	TEXT_MIN_COLS     = 9
	TEXT_LEADING_COLS = 5

	// PDF rows have no bib and no avg column. Bib is made from the place.
	PDF_MIN_COLS       = 7
	PDF_REQUIRED_COLS  = 5
	PDF_SCHOOL_COL     = 4
	PDF_BIB_MULTIPLIER = 10

	TRAILING_COLS = 2
)

var (
	ErrShortLine     = errors.New("line has fewer columns than the layout needs")
	ErrUnknownLayout = errors.New("unknown layout")
	ErrBadPlace      = errors.New("place is not a number")
	ErrTooManyRows   = errors.New("too many rows")
	ErrLineTooLong   = errors.New("line is too long")
)

// LineError reports a line that could not be transformed.
type LineError struct {
	Line int
	Cols int
	Err  error
}

func (e *LineError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%d cols: %v", e.Cols, e.Err)
	}
	return fmt.Sprintf("line %d (%d cols): %v", e.Line, e.Cols, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

type Options struct {
	Layout Layout
	// Strict rejects lines shorter than the layout minimum instead of emitting fewer fields.
	Strict bool
}

func ParseLayout(s string) (Layout, error) {
	switch Layout(strings.ToLower(strings.TrimSpace(s))) {
	case LayoutText, "":
		return LayoutText, nil
	case LayoutPDF:
		return LayoutPDF, nil
	default:
		return "", fmt.Errorf("ParseLayout failed: %q: %w", s, ErrUnknownLayout)
	}
}

var spaceRun = regexp.MustCompile("[ \t]+")

var dropChars = strings.NewReplacer("#", "", ",", "")

// Normalize strips the line, removes '#' and ',' and collapses runs of blanks to one space.
func Normalize(line string) string {
	line = dropChars.Replace(strings.TrimSpace(line))
	line = spaceRun.ReplaceAllString(line, " ")
	return strings.TrimSpace(line)
}

// Columns returns the space separated tokens of a normalized line.
func Columns(line string) []string {
	n := Normalize(line)
	if n == "" {
		return nil
	}
	return strings.Split(n, " ")
}

// TransformLine turns one result line into the ordered output fields:
// place, bib, last, first, grade, school, time, score.
func TransformLine(line string, opts Options) ([]string, error) {
	cols := Columns(line)

	switch opts.Layout {
	case LayoutText, "":
		if opts.Strict && len(cols) < TEXT_MIN_COLS {
			return nil, &LineError{Cols: len(cols), Err: ErrShortLine}
		}
		return textFields(cols), nil
	case LayoutPDF:
		if len(cols) < PDF_REQUIRED_COLS || (opts.Strict && len(cols) < PDF_MIN_COLS) {
			return nil, &LineError{Cols: len(cols), Err: ErrShortLine}
		}
		return pdfFields(cols)
	default:
		return nil, fmt.Errorf("TransformLine failed: %q: %w", opts.Layout, ErrUnknownLayout)
	}
}

func JoinFields(fields []string) string {
	return strings.Join(fields, FIELD_SEPARATOR)
}

func textFields(cols []string) []string {
	fields := make([]string, 0, 8)
	fields = append(fields, head(cols, TEXT_LEADING_COLS)...)

	nameCols := 1
	if len(cols) > TEXT_MIN_COLS {
		nameCols = len(cols) - TEXT_MIN_COLS + 1
	}

	// the variable number of school name words
	fields = append(fields, strings.Join(span(cols, TEXT_LEADING_COLS, TEXT_LEADING_COLS+nameCols), " "))
	fields = append(fields, tail(cols, TRAILING_COLS)...)

	return fields
}

func pdfFields(cols []string) ([]string, error) {
	place, err := strconv.Atoi(cols[0])
	if err != nil {
		return nil, &LineError{Cols: len(cols), Err: fmt.Errorf("%q: %w", cols[0], ErrBadPlace)}
	}

	fields := make([]string, 0, 8)
	fields = append(fields, cols[0], strconv.Itoa(place*PDF_BIB_MULTIPLIER), cols[2], cols[1], cols[3])

	nameCols := 1
	if len(cols) > PDF_MIN_COLS {
		nameCols = len(cols) - PDF_MIN_COLS + 1
	}

	fields = append(fields, strings.Join(span(cols, PDF_SCHOOL_COL, PDF_SCHOOL_COL+nameCols), " "))
	fields = append(fields, tail(cols, TRAILING_COLS)...)

	return fields, nil
}

// head, span and tail never panic on short input, they return what is there.

func head(cols []string, n int) []string {
	if n > len(cols) {
		n = len(cols)
	}
	return cols[:n]
}

func span(cols []string, from, to int) []string {
	if from > len(cols) {
		from = len(cols)
	}
	if to > len(cols) {
		to = len(cols)
	}
	return cols[from:to]
}

func tail(cols []string, n int) []string {
	if n > len(cols) {
		n = len(cols)
	}
	return cols[len(cols)-n:]
}
