package gen

import (
	"context"
	"log/slog"

	"github.com/viant/afs"

	"contract-mapper/internal/common"
	"contract-mapper/internal/mapping"
	"contract-mapper/internal/plan"
)

// FileEmitter renders each complete mapper as it is emitted and writes the
// files, plus the Mappers wiring, on Finish.
type FileEmitter struct {
	gen     *Generator
	fs      afs.Service
	logger  *slog.Logger
	mappers []*mapping.Mapper
	files   []GeneratedFile
}

// NewFileEmitter creates a FileEmitter writing to gen's output directory.
func NewFileEmitter(gen *Generator, logger *slog.Logger) *FileEmitter {
	if logger == nil {
		logger = slog.Default()
	}

	return &FileEmitter{gen: gen, fs: gen.fs, logger: logger}
}

// EmitMapper renders m.
func (e *FileEmitter) EmitMapper(ctx context.Context, m *mapping.Mapper, plans []*plan.Plan) error {
	f, err := e.gen.GenerateMapper(ctx, m, plans)
	if err != nil {
		return err
	}

	e.mappers = append(e.mappers, m)
	e.files = append(e.files, *f)
	e.logger.Debug("mapper rendered", "mapper", m.Name, "file", f.Filename)

	return nil
}

// Files returns the rendered files in emission order.
func (e *FileEmitter) Files() []GeneratedFile {
	return e.files
}

// Finish renders the wiring for all emitted mappers and, unless dryRun is
// set, writes every file to the output directory.
func (e *FileEmitter) Finish(ctx context.Context, dryRun bool) error {
	if common.IsEmpty(e.mappers) {
		return nil
	}

	wiring, err := e.gen.GenerateWiring(ctx, e.mappers)
	if err != nil {
		return err
	}

	e.files = append(e.files, *wiring)

	if dryRun {
		return nil
	}

	if err := WriteFiles(ctx, e.fs, e.files, e.gen.config.OutputDir); err != nil {
		return err
	}

	e.logger.Info("files written", "dir", e.gen.config.OutputDir, "count", len(e.files))

	return nil
}
