package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

func main() {
	if isSubCommand("version") {
		fmt.Printf("ssmt [%s]\n", ldflagsSoftwareVersion)
		return
	}

	subcommand, args := "", os.Args[1:]
	if len(os.Args) > 1 && !strings.HasPrefix(os.Args[1], "-") {
		subcommand, args = os.Args[1], os.Args[2:]
	}
	config := parseConfig(args)
	logger := newLogger(config)
	app := newApp(config, logger)

	switch subcommand {
	case "", "sync":
		os.Exit(app.RunAuto())
	case "install":
		os.Exit(app.RunInstall())
	case "update":
		os.Exit(app.RunUpdate())
	case "patch":
		os.Exit(app.RunPatch())
	case "verify":
		os.Exit(app.RunVerify())
	case "launch":
		os.Exit(app.RunLaunch())
	default:
		logger.Fatal().Str("subcommand", subcommand).Msg("unknown subcommand")
	}
}

func isSubCommand(name string) bool {
	return len(os.Args) > 1 && os.Args[1] == name
}

func newLogger(config Config) zerolog.Logger {
	level := zerolog.InfoLevel
	if config.Verbose {
		level = zerolog.DebugLevel
	}
	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}}
	logFile, err := os.OpenFile(
		filepath.Join(config.BaseDir, "launcher.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		writers = append(writers, logFile)
	}
	return zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp().Logger()
}

var ldflagsSoftwareVersion = "debug"
