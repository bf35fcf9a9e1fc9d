// Package main is the entry point for the Modbus/TCP frame gateway.
package main

import (
	"fmt"
	"os"

	"github.com/gammahazard/protocol-gateway-sandbox/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
