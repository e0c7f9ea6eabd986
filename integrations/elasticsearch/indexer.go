// Package elasticsearch indexes transactions for search.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aqlanhadi/slipscan/extractor/common"
	"github.com/aqlanhadi/slipscan/logger"
	"github.com/cenkalti/backoff/v4"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
)

const (
	DefaultIndex = "slipscan"
	esFlush      = 2048
)

// document is the indexed shape. Amounts are stored as numbers so range
// queries work.
type document struct {
	ID          string    `json:"id"`
	RefID       string    `json:"ref_id,omitempty"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Sender      string    `json:"sender,omitempty"`
	Receiver    string    `json:"receiver,omitempty"`
	Bank        string    `json:"bank,omitempty"`
	Category    string    `json:"category"`
	Source      string    `json:"source"`
	Note        string    `json:"note,omitempty"`
}

func toDocument(tx common.Transaction) document {
	return document{
		ID:          tx.ID,
		RefID:       tx.RefID,
		Type:        string(tx.Type),
		Amount:      tx.Amount.InexactFloat64(),
		Description: tx.Description,
		Date:        tx.Date,
		Sender:      tx.Sender,
		Receiver:    tx.Receiver,
		Bank:        tx.Bank,
		Category:    tx.Category,
		Source:      tx.Source,
		Note:        tx.Note,
	}
}

// documentID keys documents by reference id so re-indexing a slip replaces
// it.
func documentID(tx common.Transaction) string {
	if tx.RefID != "" {
		return tx.RefID
	}
	return tx.ID
}

type Indexer struct {
	client *elasticsearch.Client
	index  string
}

func New(index string, addresses ...string) (*Indexer, error) {
	if index == "" {
		index = DefaultIndex
	}
	if len(addresses) == 0 {
		addresses = []string{"http://localhost:9200"}
	}

	retryBackoff := backoff.NewExponentialBackOff()
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     addresses,
		RetryOnStatus: []int{502, 503, 504, 429},
		RetryBackoff: func(i int) time.Duration {
			if i == 1 {
				retryBackoff.Reset()
			}
			return retryBackoff.NextBackOff()
		},
		MaxRetries: 5,
	})
	if err != nil {
		return nil, err
	}
	return &Indexer{client: es, index: index}, nil
}

// Write bulk-indexes txns and fails if any document was rejected.
func (i *Indexer) Write(ctx context.Context, txns []common.Transaction) error {
	log := logger.FromContext(ctx)

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         i.index,
		FlushBytes:    esFlush,
		Client:        i.client,
		NumWorkers:    4,
		FlushInterval: 10 * time.Second,
	})
	if err != nil {
		return err
	}

	res, err := i.client.Indices.Create(i.index)
	if err != nil {
		log.Debug().Err(err).Str("index", i.index).Msg("create index")
	} else {
		res.Body.Close()
	}

	for _, tx := range txns {
		data, err := json.Marshal(toDocument(tx))
		if err != nil {
			return err
		}

		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: documentID(tx),
			Body:       bytes.NewReader(data),
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				if err != nil {
					log.Error().Err(err).Str("id", item.DocumentID).Msg("index transaction")
					return
				}
				log.Error().Str("id", item.DocumentID).Str("type", res.Error.Type).Msg(res.Error.Reason)
			},
		})
		if err != nil {
			return err
		}
	}

	if err := bi.Close(ctx); err != nil {
		return err
	}

	stats := bi.Stats()
	if stats.NumFailed > 0 {
		return fmt.Errorf("failed indexing %d of %d documents", stats.NumFailed, stats.NumAdded)
	}
	log.Info().Uint64("indexed", stats.NumFlushed).Str("index", i.index).Msg("transactions indexed")
	return nil
}

func (i *Indexer) Close() error { return nil }
