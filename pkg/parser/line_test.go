package parser

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims", "  1 101 Smith  \n", "1 101 Smith"},
		{"collapses spaces", "1     101   Smith", "1 101 Smith"},
		{"collapses tabs", "1\t\t101 \tSmith", "1 101 Smith"},
		{"drops hash", "1 #101 Smith", "1 101 Smith"},
		{"drops comma", "1 101 Smith, John", "1 101 Smith John"},
		{"only junk", " # , ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestTransformLine_Text(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "nine columns",
			in:   "1 #1234 Smith, John 12 Central 5:21.0 16:42.3 1",
			want: []string{"1", "1234", "Smith", "John", "12", "Central", "16:42.3", "1"},
		},
		{
			name: "two word school",
			in:   "2 1301 Doe Jane 11 North Valley 5:25.4 16:55.1 2",
			want: []string{"2", "1301", "Doe", "Jane", "11", "North Valley", "16:55.1", "2"},
		},
		{
			name: "eleven columns",
			in:   "3   1402   Lee   Sam   10   St.   Mary   Academy   5:30.0   17:10.2   3",
			want: []string{"3", "1402", "Lee", "Sam", "10", "St. Mary Academy", "17:10.2", "3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TransformLine(tt.in, Options{Layout: LayoutText})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransformLine_NineColumnsGiveEightFields(t *testing.T) {
	got, err := TransformLine("a b c d e f g h i", Options{})
	require.NoError(t, err)

	pipe := JoinFields(got)
	assert.Equal(t, "a|b|c|d|e|f|h|i", pipe)
	assert.Len(t, strings.Split(pipe, FIELD_SEPARATOR), 8)
}

func TestTransformLine_ShortLineLenient(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"eight columns", "1 2 3 4 5 6 7 8", []string{"1", "2", "3", "4", "5", "6", "7", "8"}},
		{"six columns", "1 2 3 4 5 6", []string{"1", "2", "3", "4", "5", "6", "5", "6"}},
		{"three columns", "1 2 3", []string{"1", "2", "3", "", "2", "3"}},
		{"one column", "1", []string{"1", "", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TransformLine(tt.in, Options{Layout: LayoutText})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransformLine_ShortLineStrict(t *testing.T) {
	_, err := TransformLine("1 2 3 4 5 6 7 8", Options{Layout: LayoutText, Strict: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShortLine))

	var lineErr *LineError
	require.True(t, errors.As(err, &lineErr))
	assert.Equal(t, 8, lineErr.Cols)
}

func TestTransformLine_PDF(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "seven columns",
			in:   "4 John Smith 12 Central 16:42.3 4",
			want: []string{"4", "40", "Smith", "John", "12", "Central", "16:42.3", "4"},
		},
		{
			name: "three word school",
			in:   "12 Ann Park 9 Mount Saint Joseph 18:01.9 10",
			want: []string{"12", "120", "Park", "Ann", "9", "Mount Saint Joseph", "18:01.9", "10"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TransformLine(tt.in, Options{Layout: LayoutPDF})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransformLine_PDFErrors(t *testing.T) {
	_, err := TransformLine("DNF John Smith 12 Central 16:42.3 4", Options{Layout: LayoutPDF})
	assert.True(t, errors.Is(err, ErrBadPlace))

	_, err = TransformLine("4 John Smith", Options{Layout: LayoutPDF})
	assert.True(t, errors.Is(err, ErrShortLine))

	_, err = TransformLine("4 John Smith 12 Central 16:42.3", Options{Layout: LayoutPDF, Strict: true})
	assert.True(t, errors.Is(err, ErrShortLine))
}

func TestTransformLine_UnknownLayout(t *testing.T) {
	_, err := TransformLine("1 2 3 4 5 6 7 8 9", Options{Layout: "csv"})
	assert.True(t, errors.Is(err, ErrUnknownLayout))
}

func TestParseLayout(t *testing.T) {
	l, err := ParseLayout("")
	require.NoError(t, err)
	assert.Equal(t, LayoutText, l)

	l, err = ParseLayout(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, LayoutPDF, l)

	_, err = ParseLayout("csv")
	assert.True(t, errors.Is(err, ErrUnknownLayout))
}
