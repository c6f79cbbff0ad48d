// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

// Package main provides the CLI entry point for iconpick.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/janderssonse/iconpick/internal/cli"
	"github.com/janderssonse/iconpick/internal/domain"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewCLI().Run(ctx, os.Args); err != nil {
		exitErr := &domain.ExitError{}
		if errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "%s\n", exitErr.Message)

			return exitErr.Code
		}

		fmt.Fprintf(os.Stderr, "Unexpected error: %v\n", err)

		return cli.ExitGeneralError
	}

	return cli.ExitSuccess
}
