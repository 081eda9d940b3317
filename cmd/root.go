// Package cmd assembles the pcmring command line interface.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/pcmring/cmd/devices"
	"github.com/tphakala/pcmring/cmd/play"
	"github.com/tphakala/pcmring/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pcmring",
		Short: "Growable ring buffer playback pipeline for PCM audio",
	}

	setupFlags(rootCmd, settings)

	subcommands := []*cobra.Command{
		play.Command(settings),
		devices.Command(),
	}
	rootCmd.AddCommand(subcommands...)

	return rootCmd
}

// setupFlags defines global flags and binds them over the config file
// values so command line arguments take precedence.
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) {
	rootCmd.PersistentFlags().BoolVar(&settings.Debug, "debug", settings.Debug, "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.Audio.Device, "device", settings.Audio.Device, "Playback device name substring, empty for system default")
	rootCmd.PersistentFlags().IntVar(&settings.Audio.BufferSize, "buffersize", settings.Audio.BufferSize, "Initial ring buffer capacity in bytes")
	rootCmd.PersistentFlags().BoolVar(&settings.Telemetry.Enabled, "telemetry", settings.Telemetry.Enabled, "Enable the Prometheus telemetry endpoint")
	rootCmd.PersistentFlags().StringVar(&settings.Telemetry.Listen, "telemetry-listen", settings.Telemetry.Listen, "Telemetry endpoint listen address")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("audio.device", rootCmd.PersistentFlags().Lookup("device"))
	_ = viper.BindPFlag("audio.buffersize", rootCmd.PersistentFlags().Lookup("buffersize"))
	_ = viper.BindPFlag("telemetry.enabled", rootCmd.PersistentFlags().Lookup("telemetry"))
	_ = viper.BindPFlag("telemetry.listen", rootCmd.PersistentFlags().Lookup("telemetry-listen"))
}
