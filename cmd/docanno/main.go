package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/toyz/docanno/internal/cli"
	"github.com/toyz/docanno/internal/server"
	"github.com/toyz/docanno/internal/source"
	"github.com/toyz/docanno/internal/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code. The
// report goes to stdout, everything else to stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("docanno", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var (
		typeFlag      = flags.String("type", "", "Only report this type (Name or pkg.Name)")
		propertyFlag  = flags.String("property", "", "Only report this property of -type")
		formatFlag    = flags.String("format", cli.FormatText, "Output format: text or json")
		packagesFlag  = flags.Bool("packages", false, "Treat arguments as package patterns and load them with the go tool")
		strictFlag    = flags.Bool("strict", false, "Report malformed annotations instead of guessing")
		stripFlag     = flags.String("strip", "legacy", "Comment delimiter handling: legacy or delimiters")
		valuesFlag    = flags.String("values", "truncate", "Handling of k=v=w arguments: truncate or remainder")
		trimFlag      = flags.Bool("trim-decoration", false, "Drop leading '*' and '//' decoration from comment lines")
		moduleFlag    = flags.String("module", "", "Custom module path for reported types (defaults to go.mod module)")
		serveFlag     = flags.String("serve", "", "Serve annotations over HTTP on this address instead of printing them")
		frameworkFlag = flags.String("framework", "gin", "HTTP framework for -serve: "+strings.Join(server.Frameworks(), ", "))
		verboseFlag   = flags.Bool("verbose", false, "Enable verbose output and detailed error reporting")
		quietFlag     = flags.Bool("quiet", false, "Only show errors and the report")
		helpFlag      = flags.Bool("help", false, "Show help information")
	)

	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: docanno [options] <directory-paths...>\n\n")
		fmt.Fprintf(stderr, "Doc Comment Annotation Reader\n")
		fmt.Fprintf(stderr, "Parses @Annotation(key=value) markers from the doc comments of Go types and fields.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(stderr, "\nDirectory Patterns:\n")
		fmt.Fprintf(stderr, "  ./...              Scan current directory and all subdirectories recursively\n")
		fmt.Fprintf(stderr, "  ./pkg/models       Scan only the specific directory (no recursion)\n")
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  docanno ./...                               # Report every type\n")
		fmt.Fprintf(stderr, "  docanno -type User -format json ./models    # One type as JSON\n")
		fmt.Fprintf(stderr, "  docanno -strict -trim-decoration ./...      # Fail on malformed annotations\n")
		fmt.Fprintf(stderr, "  docanno -packages ./...                     # Resolve packages with the go tool\n")
		fmt.Fprintf(stderr, "  docanno -serve :8080 -framework echo ./...  # Serve lookups over HTTP\n")
	}

	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if *helpFlag {
		flags.Usage()
		return 0
	}

	config := &cli.Config{
		Targets:        flags.Args(),
		TypeName:       *typeFlag,
		Property:       *propertyFlag,
		Format:         *formatFlag,
		UsePackages:    *packagesFlag,
		Strict:         *strictFlag,
		StripMode:      *stripFlag,
		ValueMode:      *valuesFlag,
		TrimDecoration: *trimFlag,
		ModuleName:     *moduleFlag,
		Serve:          *serveFlag,
		Framework:      *frameworkFlag,
		Verbose:        *verboseFlag,
		Quiet:          *quietFlag,
	}

	diagnostics := utils.NewDiagnosticSystemWithWriters(config.DiagnosticLevel(), stderr, stderr)
	reporter := cli.NewDiagnosticReporter(stderr, config.Verbose, diagnostics.UseColors())

	if err := config.Validate(); err != nil {
		reporter.ReportError(err)
		if len(config.Targets) == 0 {
			flags.Usage()
		}
		return 1
	}

	diagnostics.Section("Docanno")
	if config.Verbose {
		diagnostics.Subsection("Configuration")
		diagnostics.List("Targets: %s", strings.Join(config.Targets, ", "))
		diagnostics.List("Strip mode: %s, value mode: %s", config.StripMode, config.ValueMode)
		if config.Strict {
			diagnostics.List("Strict mode: enabled")
		}
		if config.ModuleName != "" {
			diagnostics.List("Custom module: %s", config.ModuleName)
		}
	}

	inspector, err := cli.NewInspector(config, diagnostics)
	if err != nil {
		reporter.ReportError(err)
		return 1
	}

	idx, err := inspector.Load(ctx)
	if err != nil {
		reporter.ReportError(err)
		return 1
	}

	if config.Serve != "" {
		return serve(ctx, config, inspector, idx, diagnostics, reporter)
	}

	report, err := inspector.Inspect(idx)
	if err != nil {
		reporter.ReportError(err)
		return 1
	}

	formatter, err := cli.NewFormatter(config.Format, diagnostics.UseColors())
	if err != nil {
		reporter.ReportError(err)
		return 1
	}
	if err := formatter.Format(stdout, report); err != nil {
		reporter.ReportError(err)
		return 1
	}

	summary := inspector.Summary()
	keys := []string{"Packages scanned", "Types found", "Types annotated", "Problems"}
	diagnostics.Summary("Inspection Complete!", keys, map[string]interface{}{
		"Packages scanned": summary.PackagesScanned,
		"Types found":      summary.TypesFound,
		"Types annotated":  summary.TypesAnnotated,
		"Problems":         summary.Problems,
	})

	if summary.Problems > 0 {
		return 1
	}
	return 0
}

// serve runs the HTTP lookup service until ctx is cancelled
func serve(ctx context.Context, config *cli.Config, inspector *cli.Inspector, idx *source.Index,
	diagnostics *utils.DiagnosticSystem, reporter *cli.DiagnosticReporter) int {
	web, err := server.NewWebServer(config.Framework)
	if err != nil {
		reporter.ReportError(err)
		return 1
	}

	server.NewService(idx, inspector.Parser(), diagnostics).Mount(web)
	diagnostics.Info("Serving %d types with %s on %s", idx.Len(), web.Name(), config.Serve)

	errCh := make(chan error, 1)
	go func() { errCh <- web.Start(config.Serve) }()

	select {
	case err := <-errCh:
		if err != nil {
			reporter.ReportError(err)
			return 1
		}
		return 0
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := web.Stop(shutdownCtx); err != nil {
		reporter.ReportError(err)
		return 1
	}
	diagnostics.Success("Server stopped")
	return 0
}
