package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/insuregenie/internal/testutil"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "json", "warn")
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown", "doc_id", 7)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"doc_id":7`)

	_, err = newLogger(&buf, "xml", "info")
	assert.Error(t, err)
	_, err = newLogger(&buf, "text", "loud")
	assert.Error(t, err)
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := newRootCmd()
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"analyze", "extract", "summarize", "batch", "watch", "export", "migrate", "dbhealth", "serve"} {
		assert.Contains(t, names, want)
	}
}

func TestExtractCmd_TextLayer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.pdf")
	require.NoError(t, os.WriteFile(path, testutil.BuildTextPDF("Policy No: ABC12345 issued by HDFC"), 0o600))

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"--env-file", "", "--log-level", "error", "extract", "--detailed", path})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.Contains(t, out.String(), `"kind": "PDF"`)
	assert.Contains(t, out.String(), "Policy No: ABC12345 issued by HDFC")
}

func TestAnalyzeCmd_RequiresAPIKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--env-file", "", "analyze", "whatever.pdf"})
	assert.ErrorContains(t, cmd.ExecuteContext(context.Background()), "GROQ_API_KEY")
}
