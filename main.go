package main

import (
	"log"
	"os"

	"github.com/tphakala/pcmring/cmd"
	"github.com/tphakala/pcmring/internal/conf"
	"github.com/tphakala/pcmring/internal/logging"
)

func main() {
	settings, err := conf.Load()
	if err != nil {
		log.Fatalf("error loading configuration: %v", err)
	}

	logging.Init()

	if settings.Log.Enabled {
		closeLog, err := logging.SetFileOutput(settings.Log.Path,
			settings.Log.MaxSize, settings.Log.MaxBackups, settings.Log.MaxAge)
		if err != nil {
			log.Fatalf("error opening log file: %v", err)
		}
		defer closeLog() //nolint:errcheck
	}

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
