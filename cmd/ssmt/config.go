package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

const (
	defaultLauncherAPI = "https://prod-cn-alicdn-gamestarter.kurogame.com/launcher/game/G152/10003_Y8xXrXk65DqFHEDgApn3cpK5lfczpFx5/index.json"
	defaultDownloadAPI = "https://prod-cn-alicdn-gamestarter.kurogame.com/launcher/launcher/10003_Y8xXrXk65DqFHEDgApn3cpK5lfczpFx5/G152/index.json"
	backgroundInfoURL  = "https://prod-cn-alicdn-gamestarter.kurogame.com/launcher/10003_Y8xXrXk65DqFHEDgApn3cpK5lfczpFx5/G152/background/%s/zh-Hans.json"

	defaultGameFolder = "Wuthering Waves Game"
	defaultGameExe    = "Wuthering Waves.exe"
	defaultPackedDir  = "Client/Content/Paks"
)

type Config struct {
	API        string
	BaseDir    string
	GameFolder string
	GameExe    string
	PackedDir  string
	Verbose    bool
}

func parseConfig(args []string) (config Config) {
	flags := flag.NewFlagSet("ssmt", flag.ExitOnError)
	flags.StringVar(&config.API,
		"api",
		defaultLauncherAPI,
		"Launcher manifest endpoint.",
	)
	flags.StringVar(&config.BaseDir,
		"base",
		defaultBaseDir(),
		"Launcher base directory (game folder, tools, settings live under it).",
	)
	flags.StringVar(&config.GameFolder,
		"folder",
		defaultGameFolder,
		"Name of the game client directory under the base directory.",
	)
	flags.StringVar(&config.GameExe,
		"exe",
		defaultGameExe,
		"Name of the game executable inside the game client directory.",
	)
	flags.StringVar(&config.PackedDir,
		"packed-dir",
		defaultPackedDir,
		"Manifest prefix of the packed-resource directory pruned during verify.",
	)
	flags.BoolVar(&config.Verbose,
		"verbose",
		false,
		"Log at debug level.",
	)

	flags.Usage = func() {
		output := flags.Output()
		_, _ = fmt.Fprintf(output, "Usage of %s:\n", os.Args[0])
		flags.PrintDefaults()
		_, _ = fmt.Fprintln(output)
		_, _ = fmt.Fprintln(output, "  Subcommands:")
		_, _ = fmt.Fprintln(output, "	install	Download the full client tree, then verify it.")
		_, _ = fmt.Fprintln(output, "	update	Repair resources against the current manifest, then verify.")
		_, _ = fmt.Fprintln(output, "	patch	Apply an incremental patch when the local version is eligible.")
		_, _ = fmt.Fprintln(output, "	verify	Check every resource digest, self-healing mismatches once.")
		_, _ = fmt.Fprintln(output, "	launch	Start the installed game through Proton.")
		_, _ = fmt.Fprintln(output, "	version	Print the build version.")
		_, _ = fmt.Fprintln(output)
	}

	_ = flags.Parse(args)
	return config
}

func defaultBaseDir() string {
	executable, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(executable)
}
