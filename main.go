// updrift checks a Sparkle-style appcast for application updates.
package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/updrift/updrift/internal/checker"
	"github.com/updrift/updrift/internal/config"
	"github.com/updrift/updrift/internal/download"
	"github.com/updrift/updrift/internal/logging"
	"github.com/updrift/updrift/internal/notify"
	"github.com/updrift/updrift/internal/settings"
)

var version = "dev"

//go:embed docs/quickstart.txt
var quickstartDoc string

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("updrift", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "path to check config JSON")
	appcastURL := fs.String("appcast", "", "appcast feed URL (overrides config)")
	appVersion := fs.String("app-version", "", "installed application version (overrides config)")
	manual := fs.Bool("manual", false, "user-initiated check: bypass caches, ignore a skipped version")
	skipVersion := fs.String("skip", "", "record version as skipped and exit")
	doDownload := fs.Bool("download", false, "download the update artifact when one is found")
	destDir := fs.String("dest-dir", "", "directory for downloaded artifacts")
	minisignKey := fs.String("minisign-key", "", "minisign public key (literal or .pub file) for artifact verification")
	statePath := fs.String("state", "", "path to the persistent state file")
	jsonOut := fs.Bool("json", false, "JSON output for CI")
	verbose := fs.Bool("verbose", false, "debug logging")
	versionFlag := fs.Bool("version", false, "print version")
	extendedHelp := fs.Bool("helpextended", false, "print quickstart & examples")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *versionFlag {
		fmt.Fprintln(stdout, version)
		return 0
	}
	if *extendedHelp {
		fmt.Fprint(stdout, quickstartDoc)
		return 0
	}

	logging.Setup(*verbose)

	// A .env in the working directory feeds the UPDRIFT_* overlay below.
	if err := godotenv.Load(); err == nil {
		logging.Debugf("loaded environment from .env")
	}

	cfg := &config.Config{}
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "updrift: %v\n", err)
			return 1
		}
		cfg = loaded
	}
	cfg.ApplyEnv(os.Getenv)

	// Flags win over environment, environment over file.
	if *appcastURL != "" {
		cfg.AppcastURL = *appcastURL
	}
	if *appVersion != "" {
		cfg.AppVersion = *appVersion
	}
	if *minisignKey != "" {
		cfg.MinisignKey = *minisignKey
	}
	if *destDir != "" {
		cfg.DownloadDir = *destDir
	}
	if *statePath != "" {
		cfg.StatePath = *statePath
	}

	if cfg.AppcastURL == "" || cfg.AppVersion == "" {
		fmt.Fprintln(stderr, "updrift: an appcast URL and the installed app version are required (flags, config file, or UPDRIFT_* environment)")
		fs.Usage()
		return 2
	}

	if cfg.StatePath == "" {
		p, err := settings.DefaultPath()
		if err != nil {
			fmt.Fprintf(stderr, "updrift: %v\n", err)
			return 1
		}
		cfg.StatePath = p
	}

	client := download.NewClient(version)
	client.SetUserAgent(cfg.UserAgent)

	chk := &checker.Checker{
		AppcastURL:  cfg.AppcastURL,
		AppVersion:  cfg.AppVersion,
		Manual:      *manual,
		MinisignKey: cfg.MinisignKey,
		Downloader:  client,
		Settings:    settings.Open(cfg.StatePath),
		Notifier:    &notify.Console{Out: stdout, JSON: *jsonOut},
	}

	if *skipVersion != "" {
		if err := chk.SkipVersion(*skipVersion); err != nil {
			fmt.Fprintf(stderr, "updrift: %v\n", err)
			return 1
		}
		if !*jsonOut {
			fmt.Fprintf(stdout, "Version %s will stay quiet on scheduled checks.\n", *skipVersion)
		}
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	outcome, err := chk.Check(ctx)
	if err != nil {
		return 1
	}

	if outcome.UpdateFound && *doDownload {
		dir := cfg.DownloadDir
		if dir == "" {
			dir = "."
		}
		dest, err := chk.Download(ctx, outcome.Cast, dir)
		if err != nil {
			fmt.Fprintf(stderr, "updrift: %v\n", err)
			return 1
		}
		logging.Infof("update saved to %s", dest)
		if !*jsonOut {
			fmt.Fprintf(stdout, "Saved to %s\n", dest)
		}
	}
	return 0
}
