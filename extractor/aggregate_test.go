package extractor

import (
	"testing"

	"github.com/aqlanhadi/slipscan/extractor/common"
	"github.com/stretchr/testify/assert"
)

func TestFinalize_Defaults(t *testing.T) {
	f := Finalize(common.Fields{Sender: "  ", Amount: "100"}, common.DialectGeneric)

	assert.Equal(t, common.Fields{
		Bank:     common.UnknownBank,
		Date:     common.Placeholder,
		Sender:   common.Placeholder,
		Receiver: common.Placeholder,
		Amount:   "100",
		RefID:    common.Placeholder,
	}, f)
}

func TestFinalize_PlaceholderBankBecomesUnknown(t *testing.T) {
	f := Finalize(common.NewFields(common.Placeholder), DialectStructured)

	assert.Equal(t, common.UnknownBank, f.Bank)
}

func TestFinalize_SCBReceiverArtifact(t *testing.T) {
	f := Finalize(common.Fields{Bank: "SCB", Receiver: "0 ร้านกาแฟ"}, common.DialectSCB)
	assert.Equal(t, "ร้านกาแฟ", f.Receiver)

	f = Finalize(common.Fields{Receiver: "0 ร้านกาแฟ"}, common.DialectKBank)
	assert.Equal(t, "0 ร้านกาแฟ", f.Receiver)
}

func TestFinalize_KeepsHints(t *testing.T) {
	f := Finalize(common.Fields{CategoryHint: " อาหาร ", TypeHint: "income"}, DialectCSV)

	assert.Equal(t, " อาหาร ", f.CategoryHint)
	assert.Equal(t, "income", f.TypeHint)
}
