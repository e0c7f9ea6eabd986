package extractor

import (
	"strings"

	"github.com/aqlanhadi/slipscan/extractor/common"
)

// Detect returns the first registered dialect with a marker contained in
// text, or the fallback dialect.
func (r *Registry) Detect(text string) common.Dialect {
	for _, s := range r.strategies {
		for _, marker := range s.Markers() {
			if marker != "" && strings.Contains(text, marker) {
				return s.Dialect()
			}
		}
	}
	return r.fallback.Dialect()
}
