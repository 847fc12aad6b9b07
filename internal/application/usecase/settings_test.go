package usecase

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/billing-usage-report-go/internal/domain/entity"
	"github.com/diillson/billing-usage-report-go/internal/shared/types"
)

var january = time.Date(2026, time.January, 12, 8, 0, 0, 0, time.UTC)

func TestResolveSettings_Defaults(t *testing.T) {
	s, err := ResolveSettings(&types.CLIArgs{Sources: []string{"a.zip"}}, nil, nil, january)
	require.NoError(t, err)

	assert.Equal(t, entity.Period{Month: time.December, Year: 2025}, s.Period)
	assert.Equal(t, DefaultPrefix, s.Prefix)
	assert.Equal(t, DefaultInnerArchive, s.InnerArchive)
	assert.Equal(t, DefaultReportName, s.ReportName)
	assert.Equal(t, []string{"csv"}, s.ReportTypes)
	assert.Equal(t, entity.DefaultRecordLayout(), s.Layout)
	assert.True(t, filepath.IsAbs(s.Dir))
	assert.Equal(t, "ZertoBilling_12_2025.csv", s.Target())
}

func TestResolveSettings_Precedence(t *testing.T) {
	one, three := 1, 3
	env := &types.Config{Prefix: "EnvPrefix", ReportName: "env_name", S3Region: "eu-west-3", Month: 2, SkipRows: &one}
	file := &types.Config{Sources: []string{"file.zip"}, Prefix: "FilePrefix", Month: 3, Year: 2024, ToColumn: "End"}
	args := &types.CLIArgs{Month: 4, SkipRows: &three, ReportType: []string{"JSON", "pdf", "json"}}

	s, err := ResolveSettings(args, file, env, january)
	require.NoError(t, err)

	assert.Equal(t, []string{"file.zip"}, s.Sources)
	assert.Equal(t, "FilePrefix", s.Prefix)
	assert.Equal(t, "env_name", s.ReportName)
	assert.Equal(t, "eu-west-3", s.S3Region)
	assert.Equal(t, entity.Period{Month: time.April, Year: 2024}, s.Period)
	assert.Equal(t, 3, s.Layout.SkipRows)
	assert.Equal(t, "End", s.Layout.ToColumn)
	assert.Equal(t, "From Date", s.Layout.FromColumn)
	assert.Equal(t, []string{"json", "pdf"}, s.ReportTypes)
}

func TestResolveSettings_MonthWithoutYear(t *testing.T) {
	s, err := ResolveSettings(&types.CLIArgs{Sources: []string{"a.zip"}, Month: 12}, nil, nil, january)
	require.NoError(t, err)
	assert.Equal(t, entity.Period{Month: time.December, Year: 2026}, s.Period)
}

func TestResolveSettings_NoneValues(t *testing.T) {
	s, err := ResolveSettings(&types.CLIArgs{
		Sources:      []string{"a.zip"},
		InnerArchive: "none",
		ReportType:   []string{"csv", "none"},
	}, nil, nil, january)
	require.NoError(t, err)
	assert.Empty(t, s.InnerArchive)
	assert.Empty(t, s.ReportTypes)
}

func TestResolveSettings_Errors(t *testing.T) {
	negative := -1
	tests := []struct {
		name string
		args *types.CLIArgs
		want error
		msg  string
	}{
		{name: "no sources", args: &types.CLIArgs{}, want: types.ErrNoSources},
		{name: "bad report type", args: &types.CLIArgs{Sources: []string{"a.zip"}, ReportType: []string{"xlsx"}}, want: types.ErrUnsupportedReport},
		{name: "bad month", args: &types.CLIArgs{Sources: []string{"a.zip"}, Month: 13}, msg: "invalid month 13"},
		{name: "negative skip rows", args: &types.CLIArgs{Sources: []string{"a.zip"}, SkipRows: &negative}, msg: "skip rows"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveSettings(tt.args, nil, nil, january)
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
			if tt.msg != "" {
				assert.ErrorContains(t, err, tt.msg)
			}
		})
	}
}
