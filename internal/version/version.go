package version

import (
	"runtime/debug"
	"strings"
	"time"
)

const defaultModule = "pkt.systems/emoteoverlay"

// buildVersion is set via -ldflags "-X pkt.systems/emoteoverlay/internal/version.buildVersion=...".
var buildVersion = ""

// Info describes the running build.
type Info struct {
	Module   string
	Version  string
	Revision string
	Time     time.Time
	Modified bool
}

// Read collects build details from ldflags and the embedded build info.
func Read() Info {
	info, _ := debug.ReadBuildInfo()
	return fromBuildInfo(info, buildVersion)
}

// String renders "module version", marking modified trees.
func (i Info) String() string {
	v := i.Version
	if i.Modified && !strings.HasSuffix(v, "+dirty") {
		v += "+dirty"
	}
	return i.Module + " " + v
}

// Clean returns the version without any dirty marker.
func (i Info) Clean() string {
	return strings.TrimSuffix(i.Version, "+dirty")
}

func fromBuildInfo(bi *debug.BuildInfo, override string) Info {
	out := Info{Module: defaultModule, Version: "v0.0.0-unknown"}
	if bi != nil {
		if path := strings.TrimSpace(bi.Main.Path); path != "" {
			out.Module = path
		}
		for _, setting := range bi.Settings {
			switch setting.Key {
			case "vcs.revision":
				out.Revision = setting.Value
			case "vcs.time":
				if ts, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					out.Time = ts.UTC()
				}
			case "vcs.modified":
				out.Modified = setting.Value == "true"
			}
		}
	}
	switch {
	case strings.TrimSpace(override) != "":
		out.Version = strings.TrimSpace(override)
		out.Modified = out.Modified || strings.HasSuffix(out.Version, "+dirty")
	case bi != nil && bi.Main.Version != "" && bi.Main.Version != "(devel)":
		out.Version = bi.Main.Version
	case out.Revision != "" && !out.Time.IsZero():
		rev := out.Revision
		if len(rev) > 12 {
			rev = rev[:12]
		}
		out.Version = "v0.0.0-" + out.Time.Format("20060102150405") + "-" + rev
	}
	return out
}
