package wall

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/matzehuels/myseum/pkg/errors"
)

// Format is a wall document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension. Unknown
// extensions default to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseFormat parses "json" or "yaml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidInput, "unknown format %q (want json or yaml)", s)
}

// Read decodes a wall document from r and validates it.
//
// The document is the wall record itself:
//
//	{
//	  "id": "7d3f...",
//	  "name": "Hallway",
//	  "unit_inches": 2,
//	  "width": 60,
//	  "height": 40,
//	  "items": [
//	    {"id": "a", "position": {"x": 0, "y": 0}, "size": {"width": 12, "height": 16},
//	     "payload": {"title": "Study in Blue"}}
//	  ]
//	}
//
// Read fails with INVALID_FORMAT when the document cannot be decoded, and
// with INVALID_INPUT or INVALID_PLACEMENT when it decodes to an invalid wall.
// Read does not close r.
func Read(r io.Reader, f Format) (*Wall, error) {
	var w Wall
	var err error
	switch f {
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&w)
	default:
		err = json.NewDecoder(r).Decode(&w)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode %s", f)
	}
	if w.Items == nil {
		w.Items = []Item{}
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &w, nil
}

// Write encodes w to out in the given format.
// The output can be re-imported with [Read].
func Write(w *Wall, out io.Writer, f Format) error {
	var err error
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		err = enc.Encode(w)
		if err == nil {
			err = enc.Close()
		}
	default:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(w)
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "encode %s", f)
	}
	return nil
}

// Import reads a wall document from path, picking the format from its
// extension.
func Import(path string) (*Wall, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return Read(f, FormatFromPath(path))
}

// Export writes w to path, picking the format from its extension.
func Export(w *Wall, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "create %s", path)
	}
	if err := Write(w, f, FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
