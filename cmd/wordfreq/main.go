package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"wordfreq/mapreduce/aggregator"
	"wordfreq/mapreduce/coordinator"
	"wordfreq/mapreduce/reducer"
	"wordfreq/mapreduce/worker"
)

func printUsage(w io.Writer, name string) {
	fmt.Fprintf(w, `Usage of %s: %s [OPTIONS] <file1> [file2 ... fileN]
Options:
  -format <text|json|proto>  Output format (default text).
  -header <label>            Header line of the listing (default %q).
  -o <path>                  Write the listing to a file instead of stdout.
  -v                         Log progress to stderr.
  -h                         Print this help message.
`, name, name, reducer.DefaultHeader)
}

type options struct {
	format  reducer.Format
	header  string
	output  string
	verbose bool
	files   []string
}

func parseArgs(args []string) (*options, error) {
	name := args[0]
	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	formatFlag := flagSet.String("format", string(reducer.FormatText), "Output format")
	header := flagSet.String("header", reducer.DefaultHeader, "Header line")
	output := flagSet.String("o", "", "Output file")
	verbose := flagSet.Bool("v", false, "Verbose logging")
	// usage is printed by run, once
	flagSet.Usage = func() {}
	if err := flagSet.Parse(args[1:]); err != nil {
		return nil, err
	}
	format, err := reducer.ParseFormat(*formatFlag)
	if err != nil {
		return nil, err
	}
	if flagSet.NArg() == 0 {
		return nil, coordinator.ErrNoInput
	}
	return &options{
		format:  format,
		header:  *header,
		output:  *output,
		verbose: *verbose,
		files:   flagSet.Args(),
	}, nil
}

// run is main without the os.Exit, returning the exit status.
func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args)
	if errors.Is(err, flag.ErrHelp) {
		printUsage(stdout, args[0])
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		printUsage(stderr, args[0])
		return 1
	}

	out := stdout
	if opts.output != "" {
		file, err := os.Create(opts.output)
		if err != nil {
			fmt.Fprintf(stderr, "cannot create output file: %v\n", err)
			return 1
		}
		defer file.Close()
		out = file
	}

	logger := log.New(stderr, "", 0)
	agg := aggregator.New()
	w := worker.New(agg, logger)
	w.SetVerbose(opts.verbose)
	c := coordinator.New(agg, func(path string) error {
		_, err := w.Process(path)
		return err
	}, logger)
	c.SetVerbose(opts.verbose)

	r := reducer.New(out, reducer.WithFormat(opts.format), reducer.WithHeader(opts.header))
	if _, err := c.Run(opts.files, r); err != nil {
		fmt.Fprintf(stderr, "word count failed: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}
