// Package main provides the sheet command line.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/louisbranch/savagesheet/internal/platform/config"

	sheetcmd "github.com/louisbranch/savagesheet/internal/cmd/sheet"
)

func main() {
	cfg, err := sheetcmd.ParseConfig()
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sheetcmd.Run(ctx, cfg, os.Args[1:], os.Stdout); err != nil {
		config.Exitf("Error: %v", err)
	}
}
