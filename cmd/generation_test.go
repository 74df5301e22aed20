package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerationCmd_SingleYear(t *testing.T) {
	var out bytes.Buffer
	generationCmd.SetOut(&out)
	defer generationCmd.SetOut(nil)

	require.NoError(t, generationCmd.Flags().Set("year", "1984"))
	defer func() { genYear = 0 }()

	require.NoError(t, generationCmd.RunE(generationCmd, nil))
	assert.Equal(t, "Xennials\n", out.String())
}

func TestGenerationCmd_Table(t *testing.T) {
	dir := t.TempDir()
	genInput = writeCSV(t, dir, "in.csv", "name,birth_year\nalice,1950\nbob,2030\n")
	genOutput = filepath.Join(dir, "out.csv")
	genColumn = "birth_year"
	genName = "generation"
	defer func() { genInput, genOutput = "", "" }()

	require.NoError(t, generationCmd.RunE(generationCmd, nil))

	raw, err := os.ReadFile(genOutput)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Equal(t, "name,birth_year,generation", lines[0])
	assert.Equal(t, "alice,1950,Baby Boomers", lines[1])
	assert.Equal(t, "bob,2030,Unknown", lines[2])
}
