// Command arcrack drives the archive password search from the command
// line. It validates arguments, locates the 7-Zip verifier, loads or
// builds the skip-list filter, and hands control to the run
// controller, mapping the outcome to a process exit status.
package main

import (
	"context"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/arcrack"
	"github.com/hupe1980/arcrack/internal/archive"
	"github.com/hupe1980/arcrack/internal/status"
)

// Exit statuses understood by front-ends.
const (
	exitFound           = 0
	exitNotFound        = 1
	exitUsage           = 2
	exitVerifierMissing = 3
	exitNoExecutableDir = 4
)

var (
	errVerifierMissing = errors.New("verifier binary not found")
	errNoExecutableDir = errors.New("could not determine executable directory")
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	logger := arcrack.NewLogger(nil)
	reporter := status.New(stdout, logger.Logger)

	code := exitNotFound
	if args == nil {
		// cobra falls back to os.Args on nil.
		args = []string{}
	}
	cmd := newRootCommand(logger, reporter, &code, args)
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	if err := cmd.Execute(); err != nil {
		switch {
		case errors.Is(err, errVerifierMissing):
			return exitVerifierMissing
		case errors.Is(err, errNoExecutableDir):
			return exitNoExecutableDir
		default:
			reporter.Errorf("%v", err)
			return exitUsage
		}
	}
	return code
}

func newRootCommand(logger *arcrack.Logger, reporter *status.Reporter, code *int, rawArgs []string) *cobra.Command {
	var (
		skipFile           string
		checkpointInterval int
		patternArg         string
	)

	cmd := &cobra.Command{
		Use:           "arcrack <charset> <min_length> <max_length> <archive_path> <ascending|descending|random>",
		Short:         "Brute-force a forgotten archive password",
		Args:          cobra.MinimumNArgs(5),
		SilenceUsage:  true,
		SilenceErrors: true,
		// Unknown flags are tolerated; they are warned about below
		// instead of failing the launch.
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		RunE: func(cmd *cobra.Command, args []string) error {
			warnUnknownFlags(cmd, reporter, rawArgs)
			for _, extra := range args[5:] {
				reporter.Warnf("Ignoring unknown or misplaced optional argument: %q", extra)
			}

			minLength, err := strconv.Atoi(args[1])
			if err != nil || minLength <= 0 {
				reporter.Errorf("Invalid min_length argument provided (%q).", args[1])
				return arcrack.ErrInvalidConfig
			}
			maxLength, err := strconv.Atoi(args[2])
			if err != nil || maxLength <= 0 {
				reporter.Errorf("Invalid max_length argument provided (%q).", args[2])
				return arcrack.ErrInvalidConfig
			}
			if minLength > maxLength {
				reporter.Errorf("min_length (%d) cannot be greater than max_length (%d).", minLength, maxLength)
				return arcrack.ErrInvalidConfig
			}

			mode, err := arcrack.ParseMode(args[4])
			if err != nil {
				reporter.Errorf("Invalid mode argument provided (%q). Use 'ascending', 'descending', or 'random'.", args[4])
				return arcrack.ErrInvalidConfig
			}

			if checkpointInterval < 0 {
				reporter.Warnf("Checkpoint interval cannot be negative, using 0 (disabled).")
				checkpointInterval = 0
			}
			if patternArg != "" {
				reporter.Infof("Using pattern: %s", patternArg)
			}

			cfg := arcrack.Config{
				Charset:            args[0],
				MinLength:          minLength,
				MaxLength:          maxLength,
				ArchivePath:        args[3],
				Mode:               mode,
				Pattern:            patternArg,
				SkipFilePath:       skipFile,
				CheckpointInterval: time.Duration(checkpointInterval) * time.Second,
			}

			if err := cfg.Validate(); err != nil {
				reporter.Errorf("Invalid configuration: %v", err)
				return arcrack.ErrInvalidConfig
			}

			verifierPath, err := locateVerifier(reporter)
			if err != nil {
				return err
			}

			filter := initFilter(&cfg, reporter)

			cracker, err := arcrack.New(cfg,
				arcrack.WithLogger(logger),
				arcrack.WithStatus(reporter),
				arcrack.WithTester(&archive.SevenZip{Path: verifierPath, Status: reporter}),
				arcrack.WithFilter(filter),
			)
			if err != nil {
				reporter.Errorf("%v", err)
				return arcrack.ErrInvalidConfig
			}

			password, err := cracker.Run(context.Background())
			if err != nil {
				return err
			}

			if password != "" {
				reporter.Found(password)
				reporter.Infof("Password found!")
				*code = exitFound
			} else {
				reporter.Infof("Password not found within the specified constraints.")
				*code = exitNotFound
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&skipFile, "skip-file", "s", "", "path of the skip-list filter file")
	cmd.Flags().IntVarP(&checkpointInterval, "checkpoint-interval", "c", 0, "seconds between skip-list checkpoints (0 disables)")
	cmd.Flags().StringVarP(&patternArg, "pattern", "p", "", "wildcard pattern constraining candidate shape")

	return cmd
}

// warnUnknownFlags reports flag-shaped arguments the command does not
// define. pflag already skipped them via the whitelist; this keeps the
// original warn-and-ignore contract visible to the user.
func warnUnknownFlags(cmd *cobra.Command, reporter *status.Reporter, rawArgs []string) {
	known := func(name string) bool {
		if strings.HasPrefix(name, "--") {
			return cmd.Flags().Lookup(strings.TrimPrefix(name, "--")) != nil
		}
		return cmd.Flags().ShorthandLookup(strings.TrimPrefix(name, "-")) != nil
	}

	for _, arg := range rawArgs {
		if !strings.HasPrefix(arg, "-") || arg == "-" || arg == "--" {
			continue
		}
		if _, err := strconv.Atoi(arg); err == nil {
			// Negative number, e.g. a checkpoint-interval value.
			continue
		}
		name, _, _ := strings.Cut(arg, "=")
		if len(name) > 2 && !strings.HasPrefix(name, "--") {
			// Shorthand cluster: check the first letter only.
			name = name[:2]
		}
		if !known(name) {
			reporter.Warnf("Ignoring unknown or misplaced optional argument: %q", arg)
		}
	}
}
