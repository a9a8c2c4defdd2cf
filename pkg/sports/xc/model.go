package xc

import (
	"errors"
	"fmt"
	"github.com/Geniuskaa/race_results/pkg/parser"
	"strconv"
	"strings"
	"time"
)

// Columns of a pipe record: place, bib, last, first, grade, school, time, score.
const (
	PLACE = iota
	BIB
	LAST_NAME
	FIRST_NAME
	GRADE
	SCHOOL
	TIME
	SCORE

	COUNT_OF_FIELDS
)

var ErrFieldCount = errors.New("record does not have 8 fields")

type Result struct {
	Place     int    `json:"place"`
	Bib       int    `json:"bib"`
	LastName  string `json:"last_name"`
	FirstName string `json:"first_name"`
	Grade     int    `json:"grade"`
	School    string `json:"school"`
	Time      string `json:"time"`
	Score     string `json:"score"`
}

// NewResult types the fields of one transformed line.
func NewResult(fields []string) (Result, error) {
	if len(fields) != COUNT_OF_FIELDS {
		return Result{}, fmt.Errorf("NewResult failed: got %d: %w", len(fields), ErrFieldCount)
	}

	place, err := strconv.Atoi(fields[PLACE])
	if err != nil {
		return Result{}, fmt.Errorf("place %q: %w", fields[PLACE], err)
	}
	bib, err := strconv.Atoi(fields[BIB])
	if err != nil {
		return Result{}, fmt.Errorf("bib %q: %w", fields[BIB], err)
	}
	grade, err := strconv.Atoi(fields[GRADE])
	if err != nil {
		return Result{}, fmt.Errorf("grade %q: %w", fields[GRADE], err)
	}

	return Result{
		Place:     place,
		Bib:       bib,
		LastName:  fields[LAST_NAME],
		FirstName: fields[FIRST_NAME],
		Grade:     grade,
		School:    fields[SCHOOL],
		Time:      fields[TIME],
		Score:     fields[SCORE],
	}, nil
}

func (r Result) FullName() string {
	return r.FirstName + " " + r.LastName
}

// FinishDuration reads the minutes:seconds.tenths finish time.
func (r Result) FinishDuration() (time.Duration, error) {
	d, err := time.ParseDuration(strings.Replace(r.Time, ":", "m", 1) + "s")
	if err != nil {
		return 0, fmt.Errorf("time.ParseDuration failed: %w", err)
	}
	return d, nil
}

// Results types every transformed line that has a full record.
// The returned errors name the input line that could not be typed.
func Results(lines []parser.Line) ([]Result, []error) {
	results := make([]Result, 0, len(lines))
	var errs []error

	for _, l := range lines {
		r, err := NewResult(l.Fields)
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", l.Number, err))
			continue
		}
		results = append(results, r)
	}

	return results, errs
}
