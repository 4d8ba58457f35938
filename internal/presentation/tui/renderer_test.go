package tui_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/cmdgraph/internal/presentation/tui"
	"github.com/aretw0/cmdgraph/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpMarkdown(t *testing.T) {
	md := tui.HelpMarkdown([]domain.HelpTopic{
		{Name: "/warp", ShortText: "Teleport", FullText: "Usage: /warp <target>", Permission: "warps.use"},
	})
	assert.Contains(t, md, "## `/warp`")
	assert.Contains(t, md, "Usage: /warp <target>")
	assert.Contains(t, md, "Permission: `warps.use`")

	assert.Contains(t, tui.HelpMarkdown(nil), "No help topics")
}

func TestRenderHelp(t *testing.T) {
	out, err := tui.RenderHelp([]domain.HelpTopic{{Name: "/warp"}}, tui.NewRenderer())
	require.NoError(t, err)
	assert.Contains(t, out, "/warp")

	_, err = tui.RenderHelp(nil, func(string) (string, error) { return "", errors.New("boom") })
	assert.ErrorContains(t, err, "failed to render help")
}

func TestPhaseLabel(t *testing.T) {
	for _, p := range []domain.Phase{domain.PhasePreLoad, domain.PhaseCanRegister, domain.PhaseLoaded} {
		assert.Contains(t, tui.PhaseLabel(p), p.String())
	}
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.Equal(t, 8, strings.Count(buf.String(), "\n"))
}
