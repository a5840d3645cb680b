package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"ziptool/pkg/cli"
	"ziptool/pkg/core"
	"ziptool/pkg/progress"
)

const name = "ziptool"

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one invocation and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	opts, err := cli.Parse(args)
	if errors.Is(err, flag.ErrHelp) {
		cli.Usage(stdout)
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	if opts.Version {
		fmt.Fprintf(stdout, "%s %s\n", name, version)
		return 0
	}

	tracker := progress.New(stdout, opts.Quiet)
	tracker.Logger().Info("Settings", opts.Settings()...)

	if opts.Compress {
		err = handleCompress(opts, tracker)
	} else {
		err = handleExtract(opts, tracker)
	}
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

// handleCompress handles the compression operation
func handleCompress(opts *cli.Options, tracker *progress.Tracker) error {
	tracker.Start("Compressing")
	if err := core.Compress(opts.CompressOptions(), tracker); err != nil {
		return err
	}
	tracker.Stop()
	return nil
}

// handleExtract handles the extraction operation
func handleExtract(opts *cli.Options, tracker *progress.Tracker) error {
	tracker.Start("Extracting")
	if err := core.Extract(opts.ExtractOptions(), tracker); err != nil {
		return err
	}
	tracker.Stop()
	return nil
}
