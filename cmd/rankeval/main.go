// Command rankeval measures how well a distance metric ranks the points of
// each labeled group ahead of all other points.
//
// Usage:
//
//	rankeval --dataset points.json.zst --root ./data --metric euclidean
//	rankeval --config rankeval.toml --format json
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flags "github.com/jessevdk/go-flags"
)

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
			// go-flags already printed the error.
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "rankeval:", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, opts, os.Stdout)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "rankeval:", err)
		os.Exit(1)
	}
}
