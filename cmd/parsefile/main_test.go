package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"resume-parser/internal/models"
	"resume-parser/internal/pdftext/pdftexttest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRunUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no file", nil},
		{"two files", []string{"a.pdf", "b.pdf"}},
		{"bad format", []string{"-format", "xml", "a.pdf"}},
		{"empty divider", []string{"-divider", "", "a.pdf"}},
		{"unknown flag", []string{"-nope", "a.pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, exitUsage, run(tt.args, &stdout, &stderr))
			assert.Empty(t, stdout.String())
		})
	}
}

func TestRunMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{filepath.Join(t.TempDir(), "missing.pdf")}, &stdout, &stderr)

	assert.Equal(t, exitRejected, code)
	assert.NotEmpty(t, stderr.String())
}

func TestRunNotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.pdf")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o600))

	var stdout, stderr bytes.Buffer
	code := run([]string{path}, &stdout, &stderr)

	assert.Equal(t, exitRejected, code)
	assert.Contains(t, stderr.String(), "decode_error")
	assert.Empty(t, stdout.String())
}

func TestRunParsesResume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.pdf")
	require.NoError(t, os.WriteFile(path, pdftexttest.Build("tyfyc", pdftexttest.SampleResume...), 0o600))

	var stdout, stderr bytes.Buffer
	code := run([]string{path}, &stdout, &stderr)

	require.Equal(t, exitOK, code, stderr.String())
	require.NoError(t, models.ValidateJSON(stdout.Bytes()))

	var got models.ParsedResume
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	assert.Equal(t, "Jane", got.Personal.FirstName)
	assert.Equal(t, "Austin", got.Personal.City)
	assert.Equal(t, []models.SkillEntry{
		{Label: "Go", Value: "go"},
		{Label: "PostgreSQL", Value: "postgresql"},
	}, got.Skills)
	assert.Equal(t, []models.JobEntry{
		{Title: "Senior Engineer", Company: "Acme Corp", Location: "Remote", Start: "Jan 2020", End: "Present", Description: "Built the billing pipeline."},
		{Title: "Engineer", Company: "Globex", Location: "Austin", Start: "2017", End: "2019"},
	}, got.Jobs)
	assert.Equal(t, []models.EducationEntry{
		{Degree: "BSc Computer Science", School: "University of Texas", GradYear: "2017"},
		{Degree: "MSc Software Engineering", School: "Georgia Tech", GradYear: "2020"},
	}, got.Education)
}

func TestRunRejectsOtherTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.pdf")
	require.NoError(t, os.WriteFile(path, pdftexttest.Build("Microsoft Word", pdftexttest.SampleResume...), 0o600))

	var stdout, stderr bytes.Buffer
	code := run([]string{path}, &stdout, &stderr)

	assert.Equal(t, exitRejected, code)
	assert.Contains(t, stderr.String(), "wrong_template: Can only accept TYFYC resumes")
	assert.Empty(t, stdout.String())
}

func TestEncodeYAML(t *testing.T) {
	result := &models.ParsedResume{
		Personal: models.PersonalInfo{FirstName: "Jane"},
		Skills:   []models.SkillEntry{{Label: "Go", Value: "go"}},
	}

	var out bytes.Buffer
	require.NoError(t, encode(&out, "yaml", result))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "Jane", decoded["personal"].(map[string]any)["firstName"])
	assert.Len(t, decoded["skills"], 1)
}

func TestEncodeJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, encode(&out, "json", &models.ParsedResume{}))

	assert.NoError(t, models.ValidateJSON(out.Bytes()))
}
