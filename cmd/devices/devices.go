// Package devices implements the subcommand that lists playback devices.
package devices

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tphakala/pcmring/internal/playback"
)

// Command creates the devices subcommand.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List available playback devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := playback.ListAudioDevices()
			if err != nil {
				return err
			}

			if len(infos) == 0 {
				fmt.Println("No playback devices found")
				return nil
			}

			for _, info := range infos {
				marker := " "
				if info.IsDefault {
					marker = "*"
				}
				fmt.Printf("%s %d: %s (%s)\n", marker, info.Index, info.Name, info.ID)
			}
			return nil
		},
	}
}
