package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sift/internal/prof"
)

// profilingSession starts the profilers selected by the persistent flags.
// The returned stop function is safe to call multiple times.
func profilingSession(cmd *cobra.Command) (func(), error) {
	flags := cmd.Root().PersistentFlags()

	var opts prof.Options
	var err error
	if opts.CPUPath, err = flags.GetString("cpu-profile"); err != nil {
		return nil, err
	}
	if opts.MemPath, err = flags.GetString("mem-profile"); err != nil {
		return nil, err
	}
	if opts.TracePath, err = flags.GetString("runtime-trace"); err != nil {
		return nil, err
	}

	session, err := prof.Start(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to start profiling: %w", err)
	}

	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write profile: %v\n", err)
		}
	}, nil
}
