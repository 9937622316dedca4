// Command reasm6 drives the IPv6 fragment reassembly engine over a
// pcap capture from the command line.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
