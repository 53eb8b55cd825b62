package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/jessevdk/go-flags"
	perrors "github.com/pkg/errors"
	"github.com/viant/afs"

	"contract-mapper/internal/analyze"
	"contract-mapper/internal/diagnostic"
	"contract-mapper/internal/gen"
	"contract-mapper/internal/host"
	"contract-mapper/internal/mapping"
	"contract-mapper/internal/plan"
	"contract-mapper/internal/schedule"
)

// New parses args and runs the selected command, writing reports to out.
func New(ctx context.Context, args []string, out io.Writer) error {
	opts := NewOptions(args)
	parser := flags.NewParser(opts, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return nil
		}

		return err
	}

	var command string
	if parser.Active != nil {
		command = parser.Active.Name
	}

	input, err := opts.Input(command)
	if err != nil {
		return err
	}

	logger := newLogger(input, os.Stderr)
	fs := afs.New()

	ex, err := load(ctx, fs, input)
	if err != nil {
		return err
	}

	config := schedule.Config{
		MaxRounds: input.MaxRounds,
		Plan:      plan.Config{MaxDepth: input.MaxDepth},
	}

	switch command {
	case "gen":
		return runGen(ctx, fs, ex, opts.Gen, config, logger, out)
	case "plan":
		return runPlan(ctx, ex, opts.Plan, config, logger, out)
	default:
		return runCheck(ctx, ex, config, logger, out)
	}
}

func newLogger(input *Input, w io.Writer) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: input.Level()}
	if input.LogJSON {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}

	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

func load(ctx context.Context, fs afs.Service, input *Input) (*mapping.Extraction, error) {
	mf, err := mapping.Load(ctx, fs, input.MapperURL)
	if err != nil {
		return nil, err
	}

	var base *analyze.TypeTable

	if len(input.Packages) > 0 {
		base, err = analyze.NewAnalyzer().LoadPackages(input.Packages...)
		if err != nil {
			return nil, perrors.Wrapf(err, "failed to load packages %v", input.Packages)
		}
	}

	ex, err := mapping.Extract(mf, base)
	if err != nil {
		return nil, perrors.Wrapf(err, "invalid mapper file %v", input.MapperURL)
	}

	return ex, nil
}

func runGen(ctx context.Context, fs afs.Service, ex *mapping.Extraction, opts *Gen, config schedule.Config, logger *slog.Logger, out io.Writer) error {
	genConfig := gen.DefaultGeneratorConfig()
	genConfig.PackageName = ex.Package
	genConfig.PackagePath = opts.PackagePath
	genConfig.OutputDir = opts.Output
	genConfig.GenerateComments = !opts.NoComments

	if opts.Package != "" {
		genConfig.PackageName = opts.Package
	}

	emitter := gen.NewFileEmitter(gen.NewGenerator(genConfig, ex.Types, fs), logger)

	s, err := host.New(ex, emitter, logger).Run(ctx, config)
	if err != nil {
		return err
	}

	if err := emitter.Finish(ctx, opts.DryRun); err != nil {
		return err
	}

	for _, f := range emitter.Files() {
		fmt.Fprintln(out, f.Filename)
	}

	return failures(s, out)
}

func runPlan(ctx context.Context, ex *mapping.Extraction, opts *Plan, config schedule.Config, logger *slog.Logger, out io.Writer) error {
	s, err := host.New(ex, nil, logger).Run(ctx, config)
	if err != nil {
		return err
	}

	if opts.Dump {
		dump := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
		for _, e := range s.Entries() {
			fmt.Fprintf(out, "# %s (%s)\n", e.Contract.ID(), e.State)
			dump.Fdump(out, e.Plan)
		}

		return failures(s, io.Discard)
	}

	var data []byte
	if opts.Format == "json" {
		data, err = plan.ExportJSON(s.Report())
	} else {
		data, err = plan.ExportYAML(s.Report())
	}

	if err != nil {
		return perrors.Wrap(err, "failed to export plans")
	}

	if _, err := out.Write(data); err != nil {
		return err
	}

	return failures(s, io.Discard)
}

func runCheck(ctx context.Context, ex *mapping.Extraction, config schedule.Config, logger *slog.Logger, out io.Writer) error {
	s, err := host.New(ex, nil, logger).Run(ctx, config)
	if err != nil {
		return err
	}

	diags := s.Diagnostics()
	printDiagnostics(out, diags.Warnings)
	printDiagnostics(out, diags.Errors)

	return failures(s, io.Discard)
}

func printDiagnostics(out io.Writer, diags []diagnostic.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(out, "%s: %s\n", d.Severity, d)
	}
}

// failures reports failed contracts and returns an error when there are any.
func failures(s *schedule.Scheduler, out io.Writer) error {
	failed := s.Failed()
	if len(failed) == 0 {
		return nil
	}

	for _, e := range failed {
		fmt.Fprintf(out, "%s: %v\n", e.Contract.ID(), e.Err)
	}

	return fmt.Errorf("%d of %d contracts failed", len(failed), len(s.Entries()))
}
