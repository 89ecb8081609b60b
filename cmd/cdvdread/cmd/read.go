package cmd

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/infinivision/cdvdcache/cdvd"
	"github.com/infinivision/cdvdcache/sector"
	"github.com/natefinch/atomic"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read <image>",
	Short: "Read a run of sectors and dump them.",
	Long: "`read <image> --sector N --count C` reads C sectors starting at N. " +
		"Sectors go through the request channel unless --direct is given. " +
		"The bytes are hex dumped, or written to --out atomically.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		start, _ := flags.GetUint32("sector")
		count, _ := flags.GetUint32("count")
		name, _ := flags.GetString("mode")
		direct, _ := flags.GetBool("direct")
		out, _ := flags.GetString("out")

		mode, err := sector.ParseMode(name)
		if err != nil {
			return err
		}
		if uint64(start)+uint64(count) > math.MaxUint32+1 {
			return errors.Errorf("%d sectors from %d overflow the sector address", count, start)
		}
		cd, unmount, err := mount(args[0])
		if err != nil {
			return err
		}
		defer unmount()

		var buf bytes.Buffer
		for i := uint32(0); i < count; i++ {
			if err := readSector(cd, start+i, mode, direct, &buf); err != nil {
				return err
			}
		}
		if out != "" {
			return atomic.WriteFile(out, &buf)
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), hex.Dump(buf.Bytes()))
		return err
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().Uint32("sector", 0, "first sector to read")
	readCmd.Flags().Uint32("count", 1, "number of sectors to read")
	readCmd.Flags().String("mode", "2048", "sector layout: 2048, 2328, 2340 or 2352")
	readCmd.Flags().Bool("direct", false, "bypass the request channel")
	readCmd.Flags().String("out", "", "write the sectors to this file instead of dumping them")
}

func readSector(cd cdvd.CDVD, lsn uint32, mode sector.Mode, direct bool, w *bytes.Buffer) error {
	if direct {
		b := make([]byte, mode.Size())
		if err := cd.DirectReadSector(lsn, mode, b); err != nil {
			return err
		}
		w.Write(b)
		return nil
	}
	if err := cd.RequestSector(lsn, mode); err != nil {
		return err
	}
	v, err := cd.GetSector(lsn, mode)
	if err != nil {
		return err
	}
	w.Write(v.Bytes())
	return nil
}
