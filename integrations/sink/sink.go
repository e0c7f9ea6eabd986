// Package sink opens the transaction stores the CLI can import into and
// runs imports against them.
package sink

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aqlanhadi/slipscan/extractor/common"
	"github.com/aqlanhadi/slipscan/integrations/elasticsearch"
	"github.com/aqlanhadi/slipscan/integrations/jsonfile"
	"github.com/aqlanhadi/slipscan/integrations/postgres"
)

var (
	ErrUnknownSink = errors.New("unknown sink")
	ErrNotReadable = errors.New("sink cannot list transactions")
)

type Store interface {
	Write(ctx context.Context, txns []common.Transaction) error
	Close() error
}

// Reader is implemented by stores that can list what they hold.
type Reader interface {
	List(ctx context.Context) ([]common.Transaction, error)
}

// Open parses a sink spec:
//
//	jsonfile:<path>
//	es8:[<address>[,<address>...]]
//	postgres://... or postgresql://...
func Open(ctx context.Context, spec string) (Store, error) {
	switch {
	case strings.HasPrefix(spec, "jsonfile:"):
		path := strings.TrimPrefix(spec, "jsonfile:")
		if path == "" {
			return nil, fmt.Errorf("%w: jsonfile needs a path", ErrUnknownSink)
		}
		return jsonfile.New(path), nil

	case strings.HasPrefix(spec, "es8:"):
		var addresses []string
		for _, a := range strings.Split(strings.TrimPrefix(spec, "es8:"), ",") {
			if a = strings.TrimSpace(a); a != "" {
				addresses = append(addresses, a)
			}
		}
		return elasticsearch.New(elasticsearch.DefaultIndex, addresses...)

	case strings.HasPrefix(spec, "postgres://"), strings.HasPrefix(spec, "postgresql://"):
		db, err := postgres.Connect(ctx, spec)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return db, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSink, spec)
}

// List reads every transaction from s, if it supports listing.
func List(ctx context.Context, s Store) ([]common.Transaction, error) {
	r, ok := s.(Reader)
	if !ok {
		return nil, ErrNotReadable
	}
	return r.List(ctx)
}
