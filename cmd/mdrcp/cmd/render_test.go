package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mdrcp/mdrcp/internal/service/deploy"
)

func sampleSummary() *deploy.Summary {
	return &deploy.Summary{
		Status:         deploy.StatusPartial,
		CopiedCount:    1,
		TargetDir:      "/deploy/bin",
		OverrideUsed:   true,
		CopiedBinaries: []string{"demo"},
		FailedBinaries: []deploy.FailedCopy{
			{Binary: "other", Error: "copy failed"},
		},
		Warnings: []string{"something looked off"},
	}
}

func TestRenderSummaryText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, renderSummary(&buf, sampleSummary(), formatText, false))

	out := buf.String()
	require.Contains(t, out, "Copied 1 executable(s) to /deploy/bin")
	require.Contains(t, out, "  demo")
	require.Contains(t, out, "Warning: something looked off")
	require.Contains(t, out, "  other: copy failed")
}

func TestRenderSummaryTextQuiet(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, renderSummary(&buf, sampleSummary(), formatText, true))
	require.Empty(t, buf.String())
}

func TestRenderSummaryJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	// Quiet must not suppress machine-readable output.
	require.NoError(t, renderSummary(&buf, sampleSummary(), formatJSON, true))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "partial", decoded["status"])
	require.Equal(t, float64(1), decoded["copied_count"])
	require.Equal(t, "/deploy/bin", decoded["target_dir"])
	require.Equal(t, true, decoded["override_used"])

	// The spawn marker is internal, not part of the reported schema.
	require.NotContains(t, decoded, "self_update_spawned")
}

func TestRenderSummaryJSONPretty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, renderSummary(&buf, sampleSummary(), formatJSONPretty, false))
	require.True(t, strings.HasPrefix(buf.String(), "{\n  \"status\""))
}

func TestRenderSummaryUnknownFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.Error(t, renderSummary(&buf, sampleSummary(), "yaml", false))
}
