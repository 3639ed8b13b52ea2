// Command parsefile parses a resume PDF from disk and prints the result.
//
//	parsefile [-strict] [-divider X] [-author A] [-format json|yaml] resume.pdf
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	apperrors "resume-parser/internal/errors"
	"resume-parser/internal/models"
	"resume-parser/internal/parser"
	"resume-parser/internal/resume"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	exitOK       = 0
	exitRejected = 1
	exitUsage    = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("parsefile", flag.ContinueOnError)
	flags.SetOutput(stderr)

	strict := flags.Bool("strict", false, "return empty sections when their markers are missing")
	divider := flags.String("divider", parser.DefaultDivider, "line separating entries within a section")
	author := flags.String("author", "tyfyc", "required PDF author metadata")
	format := flags.String("format", "json", "output format: json or yaml")
	verbose := flags.Bool("v", false, "log to stderr")

	if err := flags.Parse(args); err != nil {
		return exitUsage
	}
	if flags.NArg() != 1 || (*format != "json" && *format != "yaml") {
		flags.Usage()
		return exitUsage
	}

	logger := zap.NewNop()
	if *verbose {
		if dev, err := zap.NewDevelopment(); err == nil {
			logger = dev
		}
	}
	defer logger.Sync()

	service, err := resume.NewDefaultService(parser.Options{Divider: *divider, StrictMarkers: *strict}, *author, logger)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	data, err := os.ReadFile(flags.Arg(0))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitRejected
	}

	result, err := service.Parse(context.Background(), data)
	if err != nil {
		if r, ok := apperrors.AsRejection(err); ok {
			fmt.Fprintf(stderr, "%s: %s\n", r.Kind, r.Message)
		} else {
			fmt.Fprintln(stderr, err)
		}
		return exitRejected
	}

	if err := encode(stdout, *format, result); err != nil {
		fmt.Fprintln(stderr, err)
		return exitRejected
	}
	return exitOK
}

func encode(w io.Writer, format string, result *models.ParsedResume) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}
