// Package main provides the chatctl operator CLI.
package main

import (
	"fmt"
	"os"

	"github.com/iyunix/go-chatrelay/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
