package gen

import (
	"bytes"
	"context"

	"github.com/pkg/errors"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// WriteFiles uploads generated files under outputDir, which may be any
// location afs can resolve (local path, mem://, s3://, gs://).
func WriteFiles(ctx context.Context, fs afs.Service, files []GeneratedFile, outputDir string) error {
	for _, f := range files {
		URL := url.Join(outputDir, f.Filename)
		if err := fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(f.Content)); err != nil {
			return errors.Wrapf(err, "failed to write %v", URL)
		}
	}

	return nil
}
