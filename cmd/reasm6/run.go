package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/packetkit/reasm6/internal/capture"
	"github.com/packetkit/reasm6/internal/config"
	"github.com/packetkit/reasm6/internal/logging"
	"github.com/packetkit/reasm6/internal/reasm"
)

var (
	runOverlapDropOnConflict bool
	runLogLevel              string
)

var runCmd = &cobra.Command{
	Use:   "run <pcap-file>",
	Short: "Replay a pcap file through the reassembly engine",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(configFile)
		if err != nil {
			exitWithError("loading config", err)
		}
		if runLogLevel != "" {
			cfg.LogLevel = runLogLevel
		}
		log := logging.New(cfg.LogLevel)

		engine, err := reasm.New(cfg, log)
		if err != nil {
			exitWithError("constructing engine", err)
		}
		if runOverlapDropOnConflict {
			engine.OverlapPolicy = reasm.OverlapDropOnConflict
		}
		defer engine.Destroy()

		src, err := capture.OpenFile(args[0], engine, log)
		if err != nil {
			exitWithError("opening capture", err)
		}
		defer src.Close()

		start := time.Now()
		count := 0
		err = src.Run(clockSince(start), func(runID uuid.UUID, datagram []byte) {
			count++
			log.WithField("run", runID.String()).Debugf("reassembled datagram: %d bytes", len(datagram))
		})
		if err != nil {
			exitWithError("running capture", err)
		}
		fmt.Printf("reassembled %d datagrams, %d bytes still held\n", count, engine.TotalUsedMem())
	},
}

func init() {
	runCmd.Flags().BoolVar(&runOverlapDropOnConflict, "drop-on-conflict", false,
		"reject fragments whose overlap disagrees with already-stored bytes, instead of letting the newest win")
	runCmd.Flags().StringVar(&runLogLevel, "log-level", "", "override the configured log level")
}

// clockSince returns a monotonically non-decreasing "now" in seconds
// since start, the abstract clock the engine's timeout accounting runs
// against.
func clockSince(start time.Time) func() uint32 {
	return func() uint32 {
		return uint32(time.Since(start).Seconds())
	}
}
