package shell

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ProtonInstall is one discovered Proton distribution.
type ProtonInstall struct {
	Path      string // path to the proton entry script
	Version   string
	Timestamp string
}

// ProtonFinder scans the Steam compatibility-tool directories for installed
// Proton versions, newest first. GE-Proton builds outrank stock ones.
type ProtonFinder struct {
	steamDir string
}

func NewProtonFinder(homeDir string) *ProtonFinder {
	return &ProtonFinder{steamDir: filepath.Join(homeDir, ".steam", "steam")}
}

func (this *ProtonFinder) Latest() (ProtonInstall, bool) {
	community := this.scan(filepath.Join(this.steamDir, "compatibilitytools.d"), "GE-Proton")
	if len(community) > 0 {
		return community[0], true
	}
	stock := this.scan(filepath.Join(this.steamDir, "steamapps", "common"), "Proton")
	if len(stock) > 0 {
		return stock[0], true
	}
	return ProtonInstall{}, false
}

func (this *ProtonFinder) scan(directory, prefix string) (installs []ProtonInstall) {
	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil
	}
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		protonPath := filepath.Join(directory, entry.Name(), "proton")
		versionPath := filepath.Join(directory, entry.Name(), "version")
		raw, err := os.ReadFile(versionPath)
		if err != nil {
			continue
		}
		if _, err = os.Stat(protonPath); err != nil {
			continue
		}
		fields := strings.Fields(strings.TrimSpace(string(raw)))
		if len(fields) < 2 {
			continue
		}
		installs = append(installs, ProtonInstall{
			Path:      protonPath,
			Timestamp: fields[0],
			Version:   fields[1],
		})
	}
	sort.Slice(installs, func(i, j int) bool { return installs[i].Timestamp > installs[j].Timestamp })
	return installs
}
