package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	app := NewCLIApp("1.0.0")
	require.NoError(t, app.rootCmd.ParseFlags([]string{
		"-m", "7", "--year", "2025",
		"-t", "csv,pdf",
		"--inner", "none",
		"--skip-rows", "0",
		"--chart",
		"-C", "usage.yaml",
	}))

	args, err := app.parseArgs([]string{"a.zip", "s3://bucket/b.zip"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.zip", "s3://bucket/b.zip"}, args.Sources)
	assert.Equal(t, 7, args.Month)
	assert.Equal(t, 2025, args.Year)
	assert.Equal(t, []string{"csv", "pdf"}, args.ReportType)
	assert.Equal(t, "none", args.InnerArchive)
	require.NotNil(t, args.SkipRows)
	assert.Zero(t, *args.SkipRows)
	assert.True(t, args.Chart)
	assert.Equal(t, "usage.yaml", args.ConfigFile)
}

func TestParseArgs_UnsetFlagsStayZero(t *testing.T) {
	app := NewCLIApp("1.0.0")
	require.NoError(t, app.rootCmd.ParseFlags(nil))

	args, err := app.parseArgs(nil)
	require.NoError(t, err)

	assert.Nil(t, args.SkipRows)
	assert.Zero(t, args.Month)
	assert.Empty(t, args.ReportType)
	assert.Empty(t, args.Dir)
	assert.False(t, args.Quiet)
}
