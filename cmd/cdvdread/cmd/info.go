package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <image>",
	Short: "Print what the drive reports for an image.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cd, unmount, err := mount(args[0])
		if err != nil {
			return err
		}
		defer unmount()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "image:      %s\n", args[0])
		fmt.Fprintf(out, "disc type:  %s\n", cd.DiscType())
		fmt.Fprintf(out, "tray:       %s\n", cd.TrayStatus())
		fmt.Fprintf(out, "media type: %d\n", cd.MediaType())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
