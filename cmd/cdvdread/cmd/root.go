// Package cmd provides the command-line interface for cdvdread.
package cmd

import (
	"os"

	"github.com/infinivision/cdvdcache/cdvd"
	"github.com/infinivision/cdvdcache/disk"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var configPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cdvdread",
	Short: "Read sectors from a disc image through the CDVD sector cache.",
	Long: `cdvdread mounts an ISO (2048-byte) or BIN (2352-byte) image and ` +
		`reads sectors from it the way an emulated drive would, through the ` +
		`block cache and its prefetching worker.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"JSONC file overriding the default cache settings")
}

func loadConfig() (cdvd.Config, error) {
	if configPath == "" {
		return cdvd.DefaultConfig(), nil
	}
	return cdvd.LoadConfig(configPath)
}

// mount opens the image and starts the subsystem on it. The returned func
// stops both.
func mount(path string) (cdvd.CDVD, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	d, err := disk.New(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open image %s", path)
	}
	cd, err := cdvd.Open(d, cfg)
	if err != nil {
		d.Close()
		return nil, nil, err
	}
	return cd, func() {
		cd.Close()
		d.Close()
	}, nil
}
