package glossa

import "runtime/debug"

// Build metadata. Release builds set these with ldflags:
//
//	go build -ldflags "-X github.com/ZaguanLabs/glossa.GitCommit=$(git rev-parse HEAD)"
var (
	GitCommit = ""
	BuildDate = ""
)

const (
	Name        = "glossa"
	Description = "Glossary-aware prompt assembly for LLM translation"
	Version     = "0.1.0"
)

// FullVersion returns Version, suffixed with the short commit when known.
// Without ldflags the commit is taken from the module's VCS stamp.
func FullVersion() string {
	commit := GitCommit
	if commit == "" {
		commit = vcsRevision()
	}
	if commit == "" {
		return Version
	}
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return Version + "+" + commit
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}

// UserAgent is sent with every HTTP request to a backend.
func UserAgent() string {
	return Name + "/" + Version
}
