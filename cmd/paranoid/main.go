// Command paranoid inserts spaces between CJK and half-width characters in
// text and source files.
//
//	paranoid [flags] [files...]
//
// Without files, or with "-", standard input is processed and written to
// standard output. Exit status is 0 on success, 1 if a file could not be
// processed, 2 on usage errors and 3 if --check finds files which would
// change.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	paranoid "github.com/kookyleo/paranoid-space"
	"github.com/kookyleo/paranoid-space/internal/config"
	"github.com/kookyleo/paranoid-space/registry"
)

var version = "0.1.0-dev"

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
	exitChanged = 3
)

// errUsage marks errors in the invocation.
var errUsage = errors.New("usage error")

type options struct {
	write, diff, check bool
	format             string
	eastAsian          string
	logLevel           string
	color              string
	jobs               int
	list               bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	code := exitOK
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "paranoid [flags] [files...]",
		Short: "Insert spaces between CJK and half-width characters",
		Long: `paranoid inserts a space between full-width (CJK) and half-width
(Latin, digits, symbols) characters. Structured files (HTML, CSS,
JavaScript, JSON, JSON5, Markdown, PHP, Rust and other programming
languages) are parsed, and only comments, strings and text are touched.

Settings may also be given in the environment or in a .env file:
PARANOID_EAST_ASIAN, PARANOID_LOG_LEVEL, PARANOID_COLOR, PARANOID_JOBS.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, files []string) error {
			c, err := execute(cmd, opts, files, stdin, stdout, stderr)
			code = c
			return err
		},
	}
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	flags := rootCmd.Flags()
	flags.BoolVarP(&opts.write, "write", "w", false, "write result back to the files")
	flags.BoolVarP(&opts.diff, "diff", "d", false, "print a diff instead of the result")
	flags.BoolVarP(&opts.check, "check", "c", false, "list files which would change and exit with status 3")
	flags.StringVarP(&opts.format, "format", "f", "", "force a format (see --list-formats)")
	flags.StringVar(&opts.eastAsian, "east-asian", "", "width of ambiguous characters: narrow|wide|auto")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: error|info|debug")
	flags.StringVar(&opts.color, "color", "", "colored diff output: auto|always|never")
	flags.IntVarP(&opts.jobs, "jobs", "j", 0, "number of files processed concurrently")
	flags.BoolVar(&opts.list, "list-formats", false, "list the built-in formats and exit")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "paranoid: %v\n", err)
		if code == exitOK {
			// flag parsing errors never reach execute
			code = exitUsage
		}
	}
	return code
}

// execute merges configuration and flags and processes the files.
func execute(cmd *cobra.Command, opts *options, files []string, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	if opts.list {
		fmt.Fprintln(stdout, strings.Join(registry.Names(), "\n"))
		return exitOK, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return exitUsage, err
	}
	flags := cmd.Flags()
	if flags.Changed("east-asian") {
		cfg.EastAsian = strings.ToLower(opts.eastAsian)
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = strings.ToLower(opts.logLevel)
	}
	if flags.Changed("color") {
		cfg.Color = strings.ToLower(opts.color)
	}
	if flags.Changed("jobs") {
		cfg.Jobs = opts.jobs
	}
	if err := cfg.Validate(); err != nil {
		return exitUsage, err
	}
	level, _ := cfg.TraceLevel()
	gtrace.CoreTracer = gologadapter.New()
	gtrace.CoreTracer.SetOutput(stderr)
	gtrace.CoreTracer.SetTraceLevel(level)
	switch cfg.Color {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	}
	ctx, _ := cfg.WidthContext()
	p := &processor{
		spacer: paranoid.NewSpacer(ctx),
		opts:   opts,
		stdout: stdout,
		stderr: stderr,
	}
	if opts.format != "" {
		w, ok := registry.Lookup(opts.format)
		if !ok {
			return exitUsage, fmt.Errorf("%w: unknown format %q", errUsage, opts.format)
		}
		p.forced = w
	}
	if len(files) == 0 || (len(files) == 1 && files[0] == "-") {
		if opts.write {
			return exitUsage, fmt.Errorf("%w: --write needs files", errUsage)
		}
		if f, ok := stdin.(*os.File); ok && len(files) == 0 && term.IsTerminal(int(f.Fd())) {
			return exitUsage, fmt.Errorf("%w: no files given and standard input is a terminal", errUsage)
		}
		return p.stdin(stdin), nil
	}
	for _, f := range files {
		if f == "-" {
			return exitUsage, fmt.Errorf("%w: standard input cannot be mixed with files", errUsage)
		}
	}
	paranoid.CT().Infof("processing %d files with %d workers", len(files), cfg.Jobs)
	return p.files(files, cfg.Jobs), nil
}
