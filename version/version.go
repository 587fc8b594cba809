package version

import "os"

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

type BuildInfo struct {
	Version   string
	GitCommit string
	BuildDate string
}

func (b BuildInfo) IsDev() bool {
	return b.Version == "dev"
}

// UserAgent is sent with every outbound GitHub request.
func (b BuildInfo) UserAgent() string {
	return "OpenGOAL-Manager/" + b.Version
}

func Get() BuildInfo {
	v := Version
	if override := os.Getenv("OPENGOAL_MANAGER_VERSION"); override != "" {
		v = override
	}
	return BuildInfo{
		Version:   v,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
	}
}
