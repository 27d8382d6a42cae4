package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetlens/internal/analytics"
	"sheetlens/internal/errors"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

const prices = "item,price\na,10\nb,12\nc,\nd,11\ne,400\n"

func TestLoadPipeline(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "pipeline.yaml", `
remediate:
  impute_continuous_method: median
  remove_foreign: true
outliers:
  selected_columns: [price]
  imputation_method: mean
export: out
`)

	p, err := LoadPipeline(path)
	require.NoError(t, err)
	require.NotNil(t, p.Remediate)
	assert.Equal(t, analytics.MethodMedian, p.Remediate.ContinuousMethod)
	assert.True(t, p.Remediate.RemoveForeign)
	assert.Equal(t, analytics.MethodMode, p.Remediate.CategoricalMethod)
	require.NotNil(t, p.Outliers)
	assert.Nil(t, p.Outliers.WhiskerFactor)
	assert.Equal(t, 1.3, p.Outliers.Options(1.3).WhiskerFactor)
	assert.Equal(t, "out", p.Export)

	_, err = LoadPipeline(filepath.Join(dir, "absent.yaml"))
	assert.Error(t, err)

	bad := writeFile(t, dir, "bad.yaml", "remediate: [1, 2")
	_, err = LoadPipeline(bad)
	assert.Error(t, err)
}

func TestPartialRemediateKeepsDefaultMethods(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "pipeline.yaml", "remediate:\n  remove_foreign: false\n")
	file := writeFile(t, dir, "gaps.csv", "x,c\n1,a\n,b\n3,\n")

	p, err := LoadPipeline(path)
	require.NoError(t, err)
	require.NotNil(t, p.Remediate)
	assert.Equal(t, analytics.DefaultRemediationOptions(), *p.Remediate)
	assert.Nil(t, p.Outliers)

	engine := analytics.NewEngine()
	steps := RunPipeline(engine, file, p, analytics.DefaultWhiskerFactor)
	require.Len(t, steps, 2)
	assert.Equal(t, errors.CodeOK, steps[1].ErrorCode)

	data := engine.Data().Output
	for _, name := range []string{"x", "c"} {
		col, _ := data.Column(name)
		assert.Zero(t, col.Missing(), name)
	}
}

func TestPipelineWithoutRemediateSkipsIt(t *testing.T) {
	path := writeFile(t, t.TempDir(), "pipeline.yaml", "export: out\n")

	p, err := LoadPipeline(path)
	require.NoError(t, err)
	assert.Nil(t, p.Remediate)
	assert.Equal(t, "out", p.Export)
}

func TestRunPipeline(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "prices.csv", prices)
	zero := 0.0

	p := &Pipeline{
		Remediate: &analytics.RemediationOptions{ContinuousMethod: analytics.MethodMedian},
		Outliers:  &PipelineOutliers{Columns: []string{"price"}, WhiskerFactor: &zero},
		Export:    filepath.Join(dir, "out"),
	}
	engine := analytics.NewEngine()
	steps := RunPipeline(engine, file, p, analytics.DefaultWhiskerFactor)

	require.Len(t, steps, 4)
	for _, s := range steps {
		assert.Equal(t, errors.CodeOK, s.ErrorCode, s.Step)
	}
	assert.FileExists(t, filepath.Join(dir, "out", "file.xlsx"))
}

func TestRunPipelineStopsAtFailure(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "prices.csv", prices)

	p := &Pipeline{
		Outliers: &PipelineOutliers{Columns: []string{"item"}},
		Export:   filepath.Join(dir, "out"),
	}
	steps := RunPipeline(analytics.NewEngine(), file, p, analytics.DefaultWhiskerFactor)

	require.Len(t, steps, 2)
	assert.Equal(t, "outliers", steps[1].Step)
	assert.Equal(t, errors.CodeOutlierRemediation, steps[1].ErrorCode)
	assert.NoFileExists(t, filepath.Join(dir, "out", "file.xlsx"))

	steps = RunPipeline(analytics.NewEngine(), filepath.Join(dir, "missing.csv"), p, 1.3)
	require.Len(t, steps, 1)
	assert.Equal(t, errors.CodeLoad, steps[0].ErrorCode)
}

func TestSummarizeFiles(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeFile(t, dir, "a.csv", prices),
		writeFile(t, dir, "b.txt", "nope"),
		writeFile(t, dir, "c.csv", "x,y,z\n1,a,\n2,b,\n"),
	}

	rows, err := summarizeFiles(context.Background(), files, 2, func() *analytics.Engine { return analytics.NewEngine() })
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, BatchRow{File: files[0], Rows: 5, Continuous: 1, Categorical: 1, Missing: 1}, rows[0])
	assert.NotEmpty(t, rows[1].Error)
	assert.Equal(t, 2, rows[2].Missing)
	assert.Equal(t, 2, rows[2].Continuous)
}

func TestExpandGlobs(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", prices)
	b := writeFile(t, dir, "b.csv", prices)

	files := expandGlobs([]string{filepath.Join(dir, "*.csv"), a})
	assert.Equal(t, []string{a, b}, files)
	assert.Empty(t, expandGlobs([]string{filepath.Join(dir, "none-*.xlsx")}))
}

func TestWriteStructured(t *testing.T) {
	rows := []BatchRow{{File: "a.csv", Rows: 2}}

	var js bytes.Buffer
	require.NoError(t, writeStructured(&js, "json", rows))
	assert.Contains(t, js.String(), `"missing_cells": 0`)

	var ys bytes.Buffer
	require.NoError(t, writeStructured(&ys, "yaml", rows))
	assert.Contains(t, ys.String(), "file: a.csv")

	assert.Error(t, writeStructured(&bytes.Buffer{}, "xml", rows))
}

func TestRunCommandRemovalFlags(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "gaps.csv", "item,price\na,10\n,12\nc,\nd,11\n")
	out := filepath.Join(dir, "out")

	prev := outputFormat
	outputFormat = "json"
	t.Cleanup(func() { outputFormat = prev })

	var buf bytes.Buffer
	cmd := newRunCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{file, "--remove-missing-continuous", "--remove-missing-categorical", "--export", out})
	require.NoError(t, cmd.Execute())

	var steps []StepOutcome
	require.NoError(t, json.Unmarshal(buf.Bytes(), &steps))
	require.Len(t, steps, 3)
	assert.Contains(t, steps[1].StatusMsg, " Missing rows have been removed from continuous features.")
	assert.Contains(t, steps[1].StatusMsg, " Missing rows have been removed from categorical features.")

	engine := analytics.NewEngine()
	require.True(t, engine.LoadFile(filepath.Join(out, "file.xlsx")).OK())
	assert.Equal(t, 2, engine.Data().Output.NumRows())
}
