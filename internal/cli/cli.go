package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Load   *LoadCommand
	Filter *FilterCommand
	Frame  *FrameCommand
	Peak   *PeakCommand
	Status *StatusCommand
	Purge  *PurgeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "memeframe"
	parser.LongDescription = "Temporal framing and filtering for MemeTracker quote clusters."

	cmds := &commands{
		Load:   &LoadCommand{globals: &globals, version: version},
		Filter: &FilterCommand{globals: &globals, version: version},
		Frame:  &FrameCommand{globals: &globals, version: version},
		Peak:   &PeakCommand{globals: &globals, version: version},
		Status: &StatusCommand{globals: &globals, version: version},
		Purge:  &PurgeCommand{globals: &globals, version: version},
	}

	parser.AddCommand("load", "Load a MemeTracker dataset file", "Parse a MemeTracker dataset file and store its clusters in the database.", cmds.Load)
	parser.AddCommand("filter", "Filter loaded clusters", "Apply token, span, and language filtering to every loaded cluster and store the surviving copies.", cmds.Filter)
	parser.AddCommand("frame", "Frame a cluster around its peak", "Restrict a cluster to a time window around its day of peak activity.", cmds.Frame)
	parser.AddCommand("peak", "Locate a cluster's peak day", "Locate the 24-hour window with the most occurrences in a cluster.", cmds.Peak)
	parser.AddCommand("status", "Show database statistics", "Show database statistics and configuration summary.", cmds.Status)
	parser.AddCommand("purge", "Delete ALL stored data", "Delete ALL stored data. Destructive operation with safety prompt.", cmds.Purge)

	return parser, &globals, cmds
}

// Run is the main entry point for the memeframe CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("memeframe %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
