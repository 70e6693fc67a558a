package shell

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/xiaobai01111/SSMT4-Linux/contracts"
)

const patchToolBaseURL = "https://gitee.com/tiz/LutheringLaves/raw/main/tools/"

type toolFetcher interface {
	Fetch(address, destPath string, overwrite bool, expectedSize int64, sink contracts.ProgressSink) bool
}

// HpatchzTool wraps the external diff-apply executable. The platform-specific
// binary is fetched from the tool-distribution URL on first use and granted
// execute permission on POSIX.
type HpatchzTool struct {
	toolDir string
	baseURL string
	fetcher toolFetcher
	logger  zerolog.Logger
}

func NewHpatchzTool(toolDir string, fetcher toolFetcher, logger zerolog.Logger) *HpatchzTool {
	return &HpatchzTool{toolDir: toolDir, baseURL: patchToolBaseURL, fetcher: fetcher, logger: logger}
}

// Apply reconstructs outputTree from originalTree plus patchFile, forcing
// overwrite of anything already under outputTree.
func (this *HpatchzTool) Apply(originalTree, patchFile, outputTree string) error {
	toolPath, err := this.ensure()
	if err != nil {
		return err
	}
	command := exec.Command(toolPath, originalTree, patchFile, outputTree, "-f")
	output, err := command.CombinedOutput()
	if err != nil {
		this.logger.Error().Str("tool", toolPath).Bytes("output", output).Err(err).Msg("diff-apply invocation failed")
		return &contracts.ToolError{Tool: toolPath, Err: err}
	}
	return nil
}

func (this *HpatchzTool) ensure() (string, error) {
	name := binaryName()
	toolPath := filepath.Join(this.toolDir, name)
	if _, err := os.Stat(toolPath); err == nil {
		return toolPath, nil
	}

	this.logger.Info().Str("tool", name).Msg("fetching diff-apply tool")
	if !this.fetcher.Fetch(this.baseURL+name, toolPath, false, 0, nil) {
		return "", &contracts.ToolError{Tool: name, Err: os.ErrNotExist}
	}
	if runtime.GOOS != "windows" {
		if err := os.Chmod(toolPath, 0755); err != nil {
			return "", &contracts.ToolError{Tool: name, Err: err}
		}
	}
	return toolPath, nil
}

func binaryName() string {
	if runtime.GOOS == "windows" {
		return "hpatchz.exe"
	}
	return "hpatchz"
}
