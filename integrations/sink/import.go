package sink

import (
	"context"
	"fmt"
	"strings"

	"github.com/aqlanhadi/slipscan/extractor"
	"github.com/aqlanhadi/slipscan/extractor/common"
	"github.com/aqlanhadi/slipscan/ledger"
	"github.com/aqlanhadi/slipscan/logger"
)

// ImportResult tracks the outcome of an import operation
type ImportResult struct {
	Processed int
	Skipped   int
	Failed    int
	Errors    []string
}

// Import extracts every slip under path, builds transactions and writes them
// to store. Slips that cannot become transactions are counted as failed;
// repeats of a reference id already seen in this run are skipped.
func Import(ctx context.Context, registry *extractor.Registry, store Store, path string) (*ImportResult, error) {
	log := logger.FromContext(ctx)

	results, err := registry.ProcessPath(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	result := &ImportResult{}
	seen := map[string]bool{}
	var txns []common.Transaction

	for _, res := range results {
		tx, err := ledger.Build(res.Fields, ledger.SourceImport)
		if err != nil {
			result.Failed++
			msg := fmt.Sprintf("%s: %s", res.Source, strings.Join(common.Problems(err), ", "))
			result.Errors = append(result.Errors, msg)
			log.Debug().Str("file", res.Source).Msg("FAIL " + msg)
			continue
		}
		if tx.RefID != "" && seen[tx.RefID] {
			result.Skipped++
			log.Debug().Str("file", res.Source).Str("ref_id", tx.RefID).Msg("SKIP duplicate reference")
			continue
		}
		if tx.RefID != "" {
			seen[tx.RefID] = true
		}
		txns = append(txns, tx)
		result.Processed++
	}

	if len(txns) == 0 {
		return result, nil
	}
	if err := store.Write(ctx, txns); err != nil {
		return nil, fmt.Errorf("failed to write transactions: %w", err)
	}

	log.Info().
		Int("processed", result.Processed).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("import complete")
	return result, nil
}
