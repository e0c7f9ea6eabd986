package extractor

import (
	"fmt"

	"github.com/aqlanhadi/slipscan/extractor/bbl"
	"github.com/aqlanhadi/slipscan/extractor/common"
	"github.com/aqlanhadi/slipscan/extractor/generic"
	"github.com/aqlanhadi/slipscan/extractor/kbank"
	"github.com/aqlanhadi/slipscan/extractor/kbank_make"
	"github.com/aqlanhadi/slipscan/extractor/ktb"
	"github.com/aqlanhadi/slipscan/extractor/normalizer"
	"github.com/aqlanhadi/slipscan/extractor/scb"
	"github.com/spf13/viper"
)

// Strategy reads one slip dialect. Extract receives lines already cleaned
// with Rules and must not fail: unresolved fields stay common.Placeholder.
type Strategy interface {
	Dialect() common.Dialect
	// Markers are substrings of the raw text that identify the dialect.
	Markers() []string
	Rules() normalizer.Rules
	Extract(lines []string) common.Fields
}

// Registry holds the dialect strategies in detection priority order plus the
// fallback used when no marker matches. It is read-only after construction
// and safe for concurrent use.
type Registry struct {
	strategies []Strategy
	fallback   Strategy
}

func NewRegistry(fallback Strategy, strategies ...Strategy) *Registry {
	return &Registry{
		strategies: append([]Strategy(nil), strategies...),
		fallback:   fallback,
	}
}

// DefaultRegistry uses the built-in configuration of every dialect.
func DefaultRegistry() *Registry {
	return NewRegistry(
		generic.New(generic.DefaultConfig()),
		ktb.New(ktb.DefaultConfig()),
		kbank.New(kbank.DefaultConfig()),
		scb.New(scb.DefaultConfig()),
		kbank_make.New(kbank_make.DefaultConfig()),
		bbl.New(bbl.DefaultConfig()),
	)
}

// LoadRegistry builds the registry with dialects.* settings from v.
func LoadRegistry(v *viper.Viper) (*Registry, error) {
	ktbCfg, err := ktb.LoadConfig(v)
	if err != nil {
		return nil, fmt.Errorf("krungthai config: %w", err)
	}
	kbankCfg, err := kbank.LoadConfig(v)
	if err != nil {
		return nil, fmt.Errorf("kbank config: %w", err)
	}
	scbCfg, err := scb.LoadConfig(v)
	if err != nil {
		return nil, fmt.Errorf("scb config: %w", err)
	}
	makeCfg, err := kbank_make.LoadConfig(v)
	if err != nil {
		return nil, fmt.Errorf("make config: %w", err)
	}
	bblCfg, err := bbl.LoadConfig(v)
	if err != nil {
		return nil, fmt.Errorf("bangkok bank config: %w", err)
	}
	genericCfg, err := generic.LoadConfig(v)
	if err != nil {
		return nil, fmt.Errorf("generic config: %w", err)
	}

	return NewRegistry(
		generic.New(genericCfg),
		ktb.New(ktbCfg),
		kbank.New(kbankCfg),
		scb.New(scbCfg),
		kbank_make.New(makeCfg),
		bbl.New(bblCfg),
	), nil
}

// Strategy returns the strategy for d, or the fallback.
func (r *Registry) Strategy(d common.Dialect) Strategy {
	for _, s := range r.strategies {
		if s.Dialect() == d {
			return s
		}
	}
	return r.fallback
}

// Dialects lists the registered dialects in detection order, fallback last.
func (r *Registry) Dialects() []common.Dialect {
	out := make([]common.Dialect, 0, len(r.strategies)+1)
	for _, s := range r.strategies {
		out = append(out, s.Dialect())
	}
	return append(out, r.fallback.Dialect())
}
