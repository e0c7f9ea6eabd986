package extractor

import (
	"strings"

	"github.com/aqlanhadi/slipscan/extractor/common"
)

// receiverArtifacts are OCR leftovers printed before the receiver name.
var receiverArtifacts = map[common.Dialect]string{
	common.DialectSCB: "0 ",
}

// Finalize fills every unresolved field with its default and applies the
// per-dialect receiver cleanup. Hints pass through unchanged.
func Finalize(f common.Fields, d common.Dialect) common.Fields {
	out := common.Fields{
		Bank:         orDefault(f.Bank, common.UnknownBank),
		Date:         orDefault(f.Date, common.Placeholder),
		Sender:       orDefault(f.Sender, common.Placeholder),
		Receiver:     orDefault(f.Receiver, common.Placeholder),
		Amount:       orDefault(f.Amount, common.Placeholder),
		RefID:        orDefault(f.RefID, common.Placeholder),
		CategoryHint: f.CategoryHint,
		TypeHint:     f.TypeHint,
	}

	if artifact, ok := receiverArtifacts[d]; ok {
		out.Receiver = orDefault(strings.TrimPrefix(out.Receiver, artifact), common.Placeholder)
	}

	return out
}

func orDefault(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" || v == common.Placeholder {
		return def
	}
	return v
}
