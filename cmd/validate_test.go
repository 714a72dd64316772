package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeModelFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestValidateCommand_ValidSpec(t *testing.T) {
	path := writeModelFile(t, `
name: island
pop_sizes: [7.0, 7.0]
rates: [0.1, 0.1]
`)

	out, err := runCommand(t, "validate", "--model", path)
	require.NoError(t, err)
	assert.Contains(t, out, "name:\tisland")
	assert.Contains(t, out, "demes:\t2")
	assert.Contains(t, out, "layout:\tasymmetric")
	assert.Contains(t, out, "mu:\t0.1")
}

func TestValidateCommand_WarnsOnZeroMu(t *testing.T) {
	path := writeModelFile(t, `
pop_sizes: [1.0, 1.0]
rates: [0.0, 0.0]
`)

	out, err := runCommand(t, "validate", "--model", path)
	require.NoError(t, err)
	assert.Contains(t, out, "mu = 0")
}

func TestValidateCommand_InvalidSpec(t *testing.T) {
	path := writeModelFile(t, `
pop_sizes: [1.0, 1.0, 1.0]
rates: [0.1, 0.1]
`)

	_, err := runCommand(t, "validate", "--model", path)
	assert.Error(t, err)
}

func TestProbsCommand_PermutationChain(t *testing.T) {
	path := writeModelFile(t, `
pop_sizes: [7.0, 7.0]
rates: [0.1, 0.1]
`)

	out, err := runCommand(t, "probs", "--model", path, "--time", "0")
	require.NoError(t, err)
	assert.Equal(t, "1\t0\n0\t1\n", out)
}

func TestProbsCommand_RejectsZeroMu(t *testing.T) {
	path := writeModelFile(t, `
pop_sizes: [1.0, 1.0]
rates: [0.0, 0.0]
`)

	_, err := runCommand(t, "probs", "--model", path, "--time", "1")
	assert.Error(t, err)
}

func TestSimulateCommand_RowPerLineage(t *testing.T) {
	path := writeModelFile(t, `
pop_sizes: [1.0, 1.0]
rates: [0.2, 0.1]
`)

	out, err := runCommand(t, "simulate", "--model", path,
		"--time", "2", "--lineages", "5", "--seed", "7")
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimRight([]byte(out), "\n"), []byte("\n"))
	require.Len(t, lines, 6)
	assert.Equal(t, "lineage\tstart\tjumps\tend", string(lines[0]))
}

func TestChainCommand_WritesTrace(t *testing.T) {
	path := writeModelFile(t, `
pop_sizes: [1.0, 1.0]
rates: [0.5, 1.5]
`)
	tracePath := filepath.Join(t.TempDir(), "trace.tsv")

	out, err := runCommand(t, "chain", "--model", path,
		"--steps", "200", "--log-every", "20", "--out", tracePath)
	require.NoError(t, err)
	assert.Contains(t, out, "rateScale")

	trace, err := os.ReadFile(tracePath)
	require.NoError(t, err)
	assert.Contains(t, string(trace), "migModel.rateMatrixBackward_0_1")
}
