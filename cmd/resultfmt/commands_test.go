package main

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "2019_d2_boys.txt")
	out := filepath.Join(dir, "2019_d2_boys_events.txt")
	xlsx := filepath.Join(dir, "2019_d2_boys.xlsx")

	input := "1 #1234 Smith, John 12 Central 5:21.0 16:42.3 1\n\n2 1301 Doe Jane 11 North Valley 5:25.4 16:55.1 2\n"
	require.NoError(t, os.WriteFile(in, []byte(input), 0o644))

	rootCmd.SetArgs([]string{"convert", in, out, "--echo=false", "--log-file=", "--xlsx-out", xlsx})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "1|1234|Smith|John|12|Central|16:42.3|1\n2|1301|Doe|Jane|11|North Valley|16:55.1|2\n", string(data))

	_, err = os.Stat(xlsx)
	assert.NoError(t, err)
}
