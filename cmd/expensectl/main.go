// Command expensectl drives the expense screens from a terminal.
//
//	expensectl list
//	expensectl recent
//	expensectl add -amount 12.50 -date 2024-05-01 -description "Coffee"
//	expensectl edit -amount 9 <id>
//	expensectl delete <id>
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"expenses/internal/cli"
	applog "expenses/internal/log"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	// Keep stdout for command output.
	logger := applog.New(applog.Config{Level: cfg.SlogLevel(), Component: applog.ComponentCLI, Output: os.Stderr})

	ctx, stop := cli.SignalContext(context.Background(), logger)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	err = run(ctx, app.Service, os.Args[1:], os.Stdout)
	if cerr := app.Close(); cerr != nil {
		logger.Error("Cleanup failed", applog.FieldError, cerr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
