package gen

import (
	"bytes"
	"context"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// writeDebugUnformatted writes code that failed to format next to the
// intended output. It is best-effort.
func writeDebugUnformatted(ctx context.Context, fs afs.Service, outDir, filename string, content []byte) error {
	if outDir == "" || filename == "" {
		return nil
	}

	// Keep a .go suffix for syntax highlighting without colliding with real output.
	name := strings.TrimSuffix(filename, ".go") + ".unformatted.go"

	return fs.Upload(ctx, url.Join(outDir, name), file.DefaultFileOsMode, bytes.NewReader(content))
}
