package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aqlanhadi/slipscan/extractor/common"
	"github.com/aqlanhadi/slipscan/extractor/csv_import"
	"github.com/aqlanhadi/slipscan/logger"
)

// Dialects of inputs that were not read from OCR text.
const (
	DialectStructured common.Dialect = "Structured"
	DialectCSV        common.Dialect = "CSV"
)

// SupportedExtension reports whether ProcessReader can read the file.
func SupportedExtension(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".pdf", ".json", ".csv":
		return true
	}
	return false
}

// ProcessReader reads one input by extension: OCR text (.txt), e-slip PDFs,
// pre-structured field maps (.json, object or array) and CSV exports.
func (r *Registry) ProcessReader(ctx context.Context, reader io.Reader, filename string) ([]Result, error) {
	log := logger.FromContext(ctx).With().Str("file", filename).Logger()

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		rows, err := common.ExtractRowsFromPDFReader(reader)
		if err != nil {
			return nil, fmt.Errorf("read pdf %s: %w", filename, err)
		}
		res := r.Analyze(common.Document{Source: filename, Lines: rows})
		log.Debug().Str("dialect", string(res.Dialect)).Msg("extracted pdf slip")
		return []Result{res}, nil

	case ".json":
		maps, err := decodeFieldMaps(reader)
		if err != nil {
			return nil, fmt.Errorf("read json %s: %w", filename, err)
		}
		out := make([]Result, 0, len(maps))
		for _, m := range maps {
			out = append(out, NewResult(filename, DialectStructured, Finalize(common.FieldsFromAny(m), DialectStructured)))
		}
		return out, nil

	case ".csv":
		rows, err := csv_import.Extract(ctx, reader)
		if err != nil {
			return nil, fmt.Errorf("read csv %s: %w", filename, err)
		}
		out := make([]Result, 0, len(rows))
		for _, f := range rows {
			out = append(out, NewResult(filename, DialectCSV, Finalize(f, DialectCSV)))
		}
		log.Debug().Int("rows", len(out)).Msg("extracted csv rows")
		return out, nil

	default:
		b, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filename, err)
		}
		res := r.Analyze(common.Document{Source: filename, Lines: common.SplitLines(string(b))})
		log.Debug().Str("dialect", string(res.Dialect)).Msg("extracted text slip")
		return []Result{res}, nil
	}
}

func (r *Registry) ProcessFile(ctx context.Context, path string) ([]Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return r.ProcessReader(ctx, file, filepath.Base(path))
}

// ProcessPath extracts a file, or every supported file directly inside a
// directory. Files that fail are logged and skipped.
func (r *Registry) ProcessPath(ctx context.Context, path string) ([]Result, error) {
	log := logger.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		log.Info().Str("path", path).Msg("scanning file")
		return r.ProcessFile(ctx, path)
	}

	log.Info().Str("path", path).Msg("scanning directory")
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	results := []Result{}
	for _, e := range entries {
		if e.IsDir() || !SupportedExtension(e.Name()) {
			continue
		}
		res, err := r.ProcessFile(ctx, filepath.Join(path, e.Name()))
		if err != nil {
			log.Warn().Err(err).Str("file", e.Name()).Msg("skipping file")
			continue
		}
		results = append(results, res...)
	}
	return results, nil
}

func decodeFieldMaps(reader io.Reader) ([]map[string]any, error) {
	b, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var list []map[string]any
		if err := json.Unmarshal(b, &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var one map[string]any
	if err := json.Unmarshal(b, &one); err != nil {
		return nil, err
	}
	return []map[string]any{one}, nil
}
