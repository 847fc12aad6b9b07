package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

// Valores padrão (sobrescritos por ldflags ou por build info)
var Version = "0.0.0-dev"
var Commit = ""
var BuildTime = ""

// buildSettings é a fonte das informações de build; substituível em testes.
var buildSettings = func() ([]debug.BuildSetting, bool) {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi == nil {
		return nil, false
	}
	return bi.Settings, true
}

// populateFromBuildInfo preenche Version/Commit/BuildTime a partir das
// configurações vcs.* embutidas pelo Go, sem sobrescrever valores de ldflags.
func populateFromBuildInfo() {
	if Version != "" && Version != "0.0.0-dev" {
		return
	}

	settings, ok := buildSettings()
	if !ok {
		return
	}

	values := make(map[string]string, len(settings))
	for _, s := range settings {
		values[s.Key] = s.Value
	}

	if Commit == "" {
		if rev := values["vcs.revision"]; len(rev) >= 7 {
			Commit = rev[:7]
		}
	}

	if BuildTime == "" && values["vcs.time"] != "" {
		if ts, err := time.Parse(time.RFC3339, values["vcs.time"]); err == nil {
			BuildTime = ts.UTC().Format("2006-01-02T15:04:05Z")
		}
	}

	if tag := values["vcs.tag"]; tag != "" {
		Version = strings.TrimPrefix(tag, "v")
		if strings.EqualFold(values["vcs.modified"], "true") {
			Version += "-dirty"
		}
	}
}

func init() {
	populateFromBuildInfo()
}

// FormatVersion retorna a versão formatada com commit e build time.
// Ex.: "1.2.3 (commit: abc1234, built at: 2025-10-23T10:20:30Z)"
func FormatVersion() string {
	ver := Version
	if ver == "" {
		ver = "0.0.0-dev"
	}

	if Commit == "" {
		return fmt.Sprintf("%s (development)", ver)
	}

	if BuildTime != "" {
		return fmt.Sprintf("%s (commit: %s, built at: %s)", ver, Commit, BuildTime)
	}

	return fmt.Sprintf("%s (commit: %s)", ver, Commit)
}
