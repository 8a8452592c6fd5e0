package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passim-search/passim/internal/core/domain"
	"github.com/passim-search/passim/internal/core/ports/driving"
)

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest [path]", ingestCmd.Use)
}

func TestIngestCmd_HasTitleFlag(t *testing.T) {
	flag := ingestCmd.Flags().Lookup("title")
	require.NotNil(t, flag, "title flag should exist")
}

func TestIngestCmd_File(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", path})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "ok (2 chunks)")
}

func TestIngestCmd_Directory(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	ingestionService = &mockIngestionService{reports: []driving.FileReport{
		{File: "a.txt", Result: &domain.IngestResult{DocID: "a", ChunkCount: 3, Outcome: domain.IngestOK}},
		{File: "b.txt", Skipped: true},
		{File: "c.bin", Error: "unsupported format"},
	}}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", t.TempDir()})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "a.txt: ok (3 chunks)")
	assert.Contains(t, out, "b.txt: skipped (unchanged)")
	assert.Contains(t, out, "c.bin: FAILED: unsupported format")
}

func TestIngestCmd_MissingPath(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest", filepath.Join(t.TempDir(), "missing.txt")})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "stat")
}
