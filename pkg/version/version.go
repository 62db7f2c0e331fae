package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

const devVersion = "0.0.0-dev"

// Valores padrão, sobrescritos por ldflags:
//
//	-X github.com/diillson/revenue-forecast-go/pkg/version.Version=1.2.3
var (
	Version   = devVersion
	Commit    = ""
	BuildTime = ""
)

func init() {
	populateFromBuildInfo(debug.ReadBuildInfo)
}

// populateFromBuildInfo preenche Commit, BuildTime e Version com os dados de
// VCS embutidos pelo toolchain quando ldflags não os definiu.
func populateFromBuildInfo(read func() (*debug.BuildInfo, bool)) {
	if Version != "" && Version != devVersion {
		return
	}

	bi, ok := read()
	if !ok || bi == nil {
		return
	}

	settings := make(map[string]string, len(bi.Settings))
	for _, s := range bi.Settings {
		settings[s.Key] = s.Value
	}

	if rev := settings["vcs.revision"]; Commit == "" && len(rev) >= 7 {
		Commit = rev[:7]
	}

	if t := settings["vcs.time"]; BuildTime == "" && t != "" {
		if ts, err := time.Parse(time.RFC3339, t); err == nil {
			BuildTime = ts.UTC().Format("2006-01-02T15:04:05Z")
		}
	}

	if tag := settings["vcs.tag"]; tag != "" {
		Version = strings.TrimPrefix(tag, "v")
		if strings.EqualFold(settings["vcs.modified"], "true") {
			Version += "-dirty"
		}
	}
}

// FormatVersion retorna a versão com commit e horário de build.
// Ex.: "1.2.3 (commit: abc1234, built at: 2025-10-23T10:20:30Z)"
func FormatVersion() string {
	ver := Version
	if ver == "" {
		ver = devVersion
	}

	switch {
	case Commit == "" && BuildTime == "":
		return fmt.Sprintf("%s (development)", ver)
	case Commit == "":
		return fmt.Sprintf("%s (commit: development, built at: %s)", ver, BuildTime)
	case BuildTime == "":
		return fmt.Sprintf("%s (commit: %s)", ver, Commit)
	default:
		return fmt.Sprintf("%s (commit: %s, built at: %s)", ver, Commit, BuildTime)
	}
}
