package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withVersion(t *testing.T, v, commit, built string) {
	t.Helper()
	oldV, oldC, oldB := Version, Commit, BuildTime
	Version, Commit, BuildTime = v, commit, built
	t.Cleanup(func() { Version, Commit, BuildTime = oldV, oldC, oldB })
}

func TestFormatVersion(t *testing.T) {
	withVersion(t, "1.2.3", "", "")
	assert.Equal(t, "1.2.3 (development)", FormatVersion())

	withVersion(t, "1.2.3", "abc1234", "")
	assert.Equal(t, "1.2.3 (commit: abc1234)", FormatVersion())

	withVersion(t, "", "abc1234", "2025-10-23T10:20:30Z")
	assert.Equal(t, "0.0.0-dev (commit: abc1234, built at: 2025-10-23T10:20:30Z)", FormatVersion())
}

func TestPopulateFromBuildInfo(t *testing.T) {
	withVersion(t, "0.0.0-dev", "", "")
	old := buildSettings
	t.Cleanup(func() { buildSettings = old })

	buildSettings = func() ([]debug.BuildSetting, bool) {
		return []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2025-10-23T10:20:30+02:00"},
			{Key: "vcs.tag", Value: "v1.4.0"},
			{Key: "vcs.modified", Value: "true"},
		}, true
	}
	populateFromBuildInfo()

	assert.Equal(t, "1.4.0-dirty", Version)
	assert.Equal(t, "0123456", Commit)
	assert.Equal(t, "2025-10-23T08:20:30Z", BuildTime)
}

func TestPopulateFromBuildInfo_KeepsLdflags(t *testing.T) {
	withVersion(t, "2.0.0", "", "")
	old := buildSettings
	t.Cleanup(func() { buildSettings = old })
	buildSettings = func() ([]debug.BuildSetting, bool) {
		return []debug.BuildSetting{{Key: "vcs.tag", Value: "v9.9.9"}}, true
	}

	populateFromBuildInfo()
	assert.Equal(t, "2.0.0", Version)
}
