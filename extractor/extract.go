package extractor

import (
	"github.com/aqlanhadi/slipscan/category"
	"github.com/aqlanhadi/slipscan/extractor/common"
	"github.com/aqlanhadi/slipscan/extractor/normalizer"
)

// Result is one extracted slip with its suggested category and the problems
// that would stop it from becoming a transaction.
type Result struct {
	Source   string            `json:"source,omitempty"`
	Dialect  common.Dialect    `json:"dialect,omitempty"`
	Fields   common.Fields     `json:"fields"`
	Category category.Category `json:"category"`
	Problems []string          `json:"problems,omitempty"`
}

var defaultRegistry = DefaultRegistry()

// Normalize removes the noise of dialect d from text. Unknown dialects use
// the fallback rules.
func (r *Registry) Normalize(text string, d common.Dialect) string {
	return normalizer.Normalize(text, r.Strategy(d).Rules())
}

// Extract detects the dialect of doc and returns its finalized fields. It
// never fails; unresolved fields hold placeholders.
func (r *Registry) Extract(doc common.Document) (common.Dialect, common.Fields) {
	text := doc.Text()
	d := r.Detect(text)
	s := r.Strategy(d)
	lines := common.SplitLines(normalizer.Normalize(text, s.Rules()))
	return d, Finalize(s.Extract(lines), d)
}

// Analyze extracts doc and attaches the category and validation problems.
func (r *Registry) Analyze(doc common.Document) Result {
	d, f := r.Extract(doc)
	return NewResult(doc.Source, d, f)
}

// NewResult wraps fields that were extracted elsewhere, such as a CSV row
// or a verification service response.
func NewResult(source string, d common.Dialect, f common.Fields) Result {
	return Result{
		Source:   source,
		Dialect:  d,
		Fields:   f,
		Category: Categorize(f),
		Problems: common.Problems(common.Validate(f)),
	}
}

// Categorize prefers an explicit category hint and otherwise suggests one
// from the receiver.
func Categorize(f common.Fields) category.Category {
	if f.CategoryHint != "" {
		return category.FromHint(f.CategoryHint, common.TypeFromHint(f.TypeHint))
	}
	if common.TypeFromHint(f.TypeHint) == common.Income || !common.Resolved(f.Receiver) {
		return category.Other
	}
	return category.Suggest(f.Receiver)
}

func Detect(text string) common.Dialect {
	return defaultRegistry.Detect(text)
}

func Normalize(text string, d common.Dialect) string {
	return defaultRegistry.Normalize(text, d)
}

func Extract(doc common.Document) (common.Dialect, common.Fields) {
	return defaultRegistry.Extract(doc)
}

func Analyze(doc common.Document) Result {
	return defaultRegistry.Analyze(doc)
}
