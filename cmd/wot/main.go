/*
Wot builds and reads the grammar-based byte codec's artifacts.

In encode mode it reads an input file (or stdin), builds a Sequitur grammar
over its bytes, Huffman-codes the grammar, and writes the resulting
artifact. In decode mode it reads an artifact and writes back the original
bytes. In batch mode it builds one grammar per input file and folds them
together with the grammar-join primitive before encoding a single artifact.

When reading a named file rather than stdin and -o is not given, the
output path defaults to the input path with the configured output suffix
(".wot" unless overridden) appended on encode, or stripped on decode if
present; otherwise output goes to stdout.

Usage:

	wot [flags] [FILE]

The flags are:

	-d, --decode
		Decode FILE (or stdin) as an artifact and write the original bytes,
		instead of encoding.

	-c, --config FILE
		Read CLI defaults from the given TOML file instead of the
		hardcoded defaults.

	-o, --output FILE
		Write to FILE instead of stdout.

	--stats FILE
		Additionally write a run-stats sidecar record to FILE.

	--batch FILES
		Encode mode only. Comma-separated list of input files; builds one
		grammar per file and joins them together before encoding.

	-v, --version
		Print the current version and exit.
*/
package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dekarrin/rosed"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/dekarrin/wot"
	"github.com/dekarrin/wot/internal/config"
	"github.com/dekarrin/wot/internal/stats"
	"github.com/dekarrin/wot/internal/version"
	"github.com/dekarrin/wot/internal/woterr"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitUsageError indicates bad flags or arguments.
	ExitUsageError

	// ExitIOError indicates a problem reading input or writing output.
	ExitIOError

	// ExitArtifactError indicates a malformed artifact on decode.
	ExitArtifactError
)

var (
	returnCode  = ExitSuccess
	flagVersion = pflag.BoolP("version", "v", false, "Print the current version and exit")
	flagDecode  = pflag.BoolP("decode", "d", false, "Decode the input as an artifact instead of encoding it")
	flagConfig  = pflag.StringP("config", "c", "", "Read CLI defaults from the given TOML file")
	flagOutput  = pflag.StringP("output", "o", "", "Write to FILE instead of stdout")
	flagStats   = pflag.String("stats", "", "Additionally write a run-stats sidecar record to FILE")
	flagBatch   = pflag.String("batch", "", "Comma-separated input files to build and join into one artifact (encode mode only)")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Usage = printUsage

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	cfg := config.Default()
	if *flagConfig != "" {
		var err error
		cfg, err = config.Load(*flagConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: loading config: %s\n", err.Error())
			returnCode = ExitUsageError
			return
		}
	}

	if *flagBatch != "" {
		runBatch(cfg, strings.Split(*flagBatch, ","))
		return
	}

	runSingle(cfg, pflag.Args())
}

func runSingle(cfg config.Defaults, args []string) {
	start := time.Now()

	var input io.Reader = os.Stdin
	outputPath := *flagOutput
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: opening input: %s\n", err.Error())
			returnCode = ExitIOError
			return
		}
		defer f.Close()
		input = f

		if outputPath == "" {
			if p, ok := defaultOutputPath(cfg, args[0], *flagDecode); ok {
				outputPath = p
			}
		}
	}

	var out []byte
	var liveRules, maxSymbol int

	if *flagDecode {
		data, err := io.ReadAll(input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: reading artifact: %s\n", err.Error())
			returnCode = ExitIOError
			return
		}
		decoded, err := wot.Decode(data)
		if err != nil {
			reportArtifactErr(err)
			return
		}
		out = decoded
	} else {
		gr, err := wot.BuildChunked(input, cfg.ChunkSize)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: reading input: %s\n", err.Error())
			returnCode = ExitIOError
			return
		}
		encoded, err := wot.Encode(gr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: encoding: %s\n", err.Error())
			returnCode = ExitArtifactError
			return
		}
		out = encoded
		liveRules = len(gr.Rules())
		if liveRules > 0 {
			maxSymbol = gr.Rules()[liveRules-1].Number
		}
	}

	if err := writeOutput(out, outputPath); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: writing output: %s\n", err.Error())
		returnCode = ExitIOError
		return
	}

	writeStatsIfRequested(len(out), liveRules, maxSymbol, time.Since(start))
	printSummary(cfg, len(out))
}

// defaultOutputPath derives the output path the CLI falls back to when
// -o/--output is not given and the input is a named file rather than
// stdin (there's nothing to derive a name from in the stdin case, so
// callers keep writing to stdout then). Encoding appends cfg.OutputSuffix
// to the input path; decoding strips it, and only applies when the input
// name actually carries that suffix, so decoding an arbitrarily-named
// artifact still falls back to stdout instead of erroring.
func defaultOutputPath(cfg config.Defaults, inputPath string, decode bool) (path string, ok bool) {
	if cfg.OutputSuffix == "" {
		return "", false
	}
	if decode {
		if !strings.HasSuffix(inputPath, cfg.OutputSuffix) || len(inputPath) == len(cfg.OutputSuffix) {
			return "", false
		}
		return strings.TrimSuffix(inputPath, cfg.OutputSuffix), true
	}
	return inputPath + cfg.OutputSuffix, true
}

func runBatch(cfg config.Defaults, files []string) {
	start := time.Now()

	if *flagDecode {
		fmt.Fprintln(os.Stderr, "ERROR: -batch is only valid in encode mode")
		returnCode = ExitUsageError
		return
	}

	runID := uuid.New()

	var combined *wot.Grammar
	for _, name := range files {
		f, err := os.Open(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: opening %s: %s\n", name, err.Error())
			returnCode = ExitIOError
			return
		}
		gr, err := wot.BuildChunked(f, cfg.ChunkSize)
		f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: reading %s: %s\n", name, err.Error())
			returnCode = ExitIOError
			return
		}

		if combined == nil {
			combined = gr
			fmt.Fprintf(os.Stderr, "[%s] %s -> root rule 0\n", runID, name)
			continue
		}
		root := combined.Join(gr)
		fmt.Fprintf(os.Stderr, "[%s] %s -> root rule %d\n", runID, name, root)
	}

	if combined == nil {
		fmt.Fprintln(os.Stderr, "ERROR: -batch requires at least one file")
		returnCode = ExitUsageError
		return
	}

	encoded, err := wot.Encode(combined)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: encoding: %s\n", err.Error())
		returnCode = ExitArtifactError
		return
	}

	if err := writeOutput(encoded, *flagOutput); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: writing output: %s\n", err.Error())
		returnCode = ExitIOError
		return
	}

	rules := combined.Rules()
	maxSymbol := 0
	if len(rules) > 0 {
		maxSymbol = rules[len(rules)-1].Number
	}
	writeStatsIfRequested(len(encoded), len(rules), maxSymbol, time.Since(start))
	printSummary(cfg, len(encoded))
}

func writeOutput(data []byte, path string) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func writeStatsIfRequested(outputBytes, liveRules, maxSymbol int, dur time.Duration) {
	if *flagStats == "" {
		return
	}
	record := stats.Run{
		OutputBytes: outputBytes,
		LiveRules:   liveRules,
		MaxSymbol:   maxSymbol,
		Duration:    dur,
	}
	if err := os.WriteFile(*flagStats, stats.Encode(record), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: could not write stats file: %s\n", err.Error())
	}
}

// printSummary writes a human-readable byte count to stderr when either the
// config asks for it explicitly or stderr looks like an interactive
// terminal (so piping the artifact itself to a file or another process
// doesn't also get this commentary mixed in, per cfg.Verbose's doc).
func printSummary(cfg config.Defaults, outputBytes int) {
	if !cfg.Verbose && !isatty.IsTerminal(os.Stderr.Fd()) {
		return
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", humanize.Bytes(uint64(outputBytes)))
}

const usageWidth = 80

// printUsage writes a terminal-width-wrapped summary ahead of pflag's own
// per-flag listing.
func printUsage() {
	summary := "wot builds and reads grammar-based byte codec artifacts. " +
		"Give it a file (or pipe one in on stdin) to encode, or pass -d to decode an artifact back to its original bytes."
	fmt.Fprintln(os.Stderr, rosed.Edit(summary).Wrap(usageWidth).String())
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Flags:")
	pflag.PrintDefaults()
}

func reportArtifactErr(err error) {
	if kind, ok := woterr.KindOf(err); ok {
		fmt.Fprintf(os.Stderr, "ERROR: %s: %s\n", kind, err.Error())
	} else {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
	}
	returnCode = ExitArtifactError
}
