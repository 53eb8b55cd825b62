package mapping

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"gopkg.in/yaml.v3"
)

// DefaultPackage is the generated package name when the file does not set one.
const DefaultPackage = "mappers"

// Load reads and parses a mapper file from any location afs can resolve
// (local path, file://, mem://, s3://, gs://).
func Load(ctx context.Context, fs afs.Service, URL string) (*MapperFile, error) {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read mapper file %v", URL)
	}

	mf, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %v", URL)
	}

	return mf, nil
}

// Parse parses YAML data into a MapperFile.
func Parse(data []byte) (*MapperFile, error) {
	var mf MapperFile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&mf); err != nil {
		return nil, fmt.Errorf("failed to parse mapper YAML: %w", err)
	}

	applyDefaults(&mf)

	return &mf, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(mf *MapperFile) {
	if mf.Version == "" {
		mf.Version = "1"
	}

	if mf.Package == "" {
		mf.Package = DefaultPackage
	}

	for i := range mf.Types {
		td := &mf.Types[i]
		if td.Kind == "" {
			td.Kind = "class"
		}

		if td.Kind == "class" && td.Constructor == nil {
			td.Constructor = append(FieldDecls{}, td.Members...)
		}

		for j := range td.Constants {
			if td.Constants[j].Ident == "" {
				td.Constants[j].Ident = td.Constants[j].Name
			}
		}
	}
}

// Marshal serializes a MapperFile to YAML.
func Marshal(mf *MapperFile) ([]byte, error) {
	return yaml.Marshal(mf)
}

// Write stores a MapperFile at URL.
func Write(ctx context.Context, fs afs.Service, mf *MapperFile, URL string) error {
	data, err := Marshal(mf)
	if err != nil {
		return fmt.Errorf("failed to marshal mapper file: %w", err)
	}

	if err := fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return errors.Wrapf(err, "failed to write mapper file %v", URL)
	}

	return nil
}
