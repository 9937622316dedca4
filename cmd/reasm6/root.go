package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:     "reasm6",
	Short:   "IPv6 fragment reassembly for offline pcap captures",
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"path to a reasm6 config file (YAML/JSON/TOML, viper-loaded)")
	rootCmd.AddCommand(runCmd)
}

func exitWithError(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "reasm6: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "reasm6: %s\n", msg)
	}
	os.Exit(1)
}
