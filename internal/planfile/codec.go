package planfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/goalfund/internal/model"
)

// Format selects the document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from a file extension. Anything that is not
// .yaml or .yml is treated as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Decode parses a plan document. Legacy documents whose sources are plain
// strings are upgraded with a return of 0.
func Decode(r io.Reader, f Format) (model.Plan, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return model.Plan{}, fmt.Errorf("reading plan: %w", err)
	}

	var raw map[string]any
	switch f {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return model.Plan{}, &MalformedPlanError{Reason: "invalid yaml", Err: err}
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return model.Plan{}, &MalformedPlanError{Reason: "invalid json", Err: err}
		}
	}
	if raw == nil {
		return model.Plan{}, malformed("empty document")
	}
	return fromGeneric(raw)
}

// Encode writes the plan in the given format. The plan is reconciled first
// so every goal record carries exactly one column per source.
func Encode(w io.Writer, p model.Plan, f Format) error {
	doc := toDocument(p)
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	}
}

// Marshal is Encode into a byte slice.
func Marshal(p model.Plan, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, p, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Load reads a plan file, choosing the format from its extension.
func Load(path string) (model.Plan, error) {
	fh, err := os.Open(path)
	if err != nil {
		return model.Plan{}, fmt.Errorf("opening plan: %w", err)
	}
	defer func() { _ = fh.Close() }()

	p, err := Decode(fh, FormatFor(path))
	if err != nil {
		return model.Plan{}, fmt.Errorf("loading %s: %w", path, err)
	}
	return p, nil
}

// Exists reports whether a plan file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Save writes the plan atomically: a temp file in the same directory is
// renamed over the target once fully written.
func Save(path string, p model.Plan) error {
	data, err := Marshal(p, FormatFor(path))
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating plan dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".plan-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("writing plan: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("closing plan: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		cleanup()
		return fmt.Errorf("setting plan mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("replacing plan: %w", err)
	}
	return nil
}
