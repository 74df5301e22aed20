package main

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampsCmd(t *testing.T) {
	dir := t.TempDir()
	tsInput = writeCSV(t, dir, "in.csv", "name,seen\nalpha,2023-06-27 14:30:45\n")
	tsOutput = dir + "/out.csv"
	defer func() { tsInput, tsOutput = "", "" }()

	require.NoError(t, timestampsCmd.RunE(timestampsCmd, nil))

	out, err := os.ReadFile(tsOutput)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2)

	header := strings.Split(lines[0], ",")
	assert.NotContains(t, header, "seen")
	assert.Contains(t, header, "name")
	assert.Contains(t, header, "seen_year")
	assert.Contains(t, header, "seen_is_afternoon")
	assert.Contains(t, lines[1], "alpha")
}
