package main

import (
	"fmt"
	"log/slog"
	"strings"

	"contract-mapper/internal/common"
)

// Options are the command line options. Exactly one command is set after parsing.
type Options struct {
	Gen   *Gen   `command:"gen" description:"resolve contracts and generate Go mappers"`
	Plan  *Plan  `command:"plan" description:"resolve contracts and print the conversion plans"`
	Check *Check `command:"check" description:"resolve contracts and report diagnostics only"`
}

// Input selects the mapper file and the Go packages it refers to.
type Input struct {
	MapperURL string   `short:"m" long:"mappers" description:"mapper file location (path, file://, mem://, s3://)" required:"true"`
	Packages  []string `short:"p" long:"pkg" description:"Go package patterns providing declared types"`
	MaxRounds int      `long:"max-rounds" description:"maximum scheduling rounds" default:"16"`
	MaxDepth  int      `long:"max-depth" description:"maximum conversion nesting depth" default:"64"`
	LogLevel  string   `long:"log-level" description:"log level" choice:"debug" choice:"info" choice:"warn" choice:"error" default:"warn"`
	LogJSON   bool     `long:"log-json" description:"log as JSON"`
}

// Gen generates mapper source files.
type Gen struct {
	Input
	Output      string `short:"o" long:"out" description:"output location" default:"./generated"`
	Package     string `long:"package" description:"generated package name, overrides the mapper file"`
	PackagePath string `long:"package-path" description:"import path of the generated package"`
	NoComments  bool   `long:"no-comments" description:"omit doc comments in generated code"`
	DryRun      bool   `long:"dry-run" description:"render files without writing them"`
}

// Plan prints resolved plans.
type Plan struct {
	Input
	Format string `short:"f" long:"format" description:"report format" choice:"yaml" choice:"json" default:"yaml"`
	Dump   bool   `long:"dump" description:"dump raw plans instead of the report"`
}

// Check resolves contracts without generating code.
type Check struct {
	Input
}

// NewOptions preallocates the command named by the first argument so that
// go-flags can populate it.
func NewOptions(args []string) *Options {
	ret := &Options{}

	command, _ := common.First(args)
	switch command {
	case "gen":
		ret.Gen = &Gen{}
	case "plan":
		ret.Plan = &Plan{}
	case "check":
		ret.Check = &Check{}
	}

	return ret
}

// Input returns the input options of the named command.
func (o *Options) Input(command string) (*Input, error) {
	switch {
	case command == "gen" && o.Gen != nil:
		return &o.Gen.Input, nil
	case command == "plan" && o.Plan != nil:
		return &o.Plan.Input, nil
	case command == "check" && o.Check != nil:
		return &o.Check.Input, nil
	}

	return nil, fmt.Errorf("expected one of: gen, plan, check")
}

// Level returns the slog level named by LogLevel.
func (i *Input) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(i.LogLevel))); err != nil {
		return slog.LevelWarn
	}

	return level
}
