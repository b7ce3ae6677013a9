package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if coder, ok := err.(cli.ExitCoder); ok {
		return coder.ExitCode()
	}
	return 1
}

func newApp() *cli.App {
	app := &cli.App{}
	app.Name = "sqisign-verify"
	app.Usage = "Verify SQISign signature bundles"
	app.UsageText = "sqisign-verify [options] BUNDLE [BUNDLE...]"
	app.HideVersion = true
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "loglevel",
			Value:   "info",
			Usage:   "Application logging level {debug, info, warn, error}",
			EnvVars: []string{"SQISIGN_LOGLEVEL"},
		},
		&cli.StringFlag{
			Name:  "log-format",
			Value: "default",
			Usage: "Log output format {default, json}",
		},
		&cli.StringFlag{
			Name:  "strategy",
			Value: "balanced",
			Usage: "Isogeny chain strategy {balanced, naive}",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Maximum number of concurrent verifications (default: GOMAXPROCS)",
		},
		&cli.BoolFlag{
			Name:  "metrics",
			Usage: "Log field operation totals when done",
		},
	}
	app.Action = verifyAction
	// Exit codes are handled in main.
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app
}
