package ledger

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/aqlanhadi/slipscan/extractor/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slip() common.Fields {
	return common.Fields{
		Bank:     "SCB",
		Date:     "12 ธ.ค. 68",
		Sender:   "นาย สมชาย ใจดี",
		Receiver: "Starbucks Silom",
		Amount:   "1,250.00",
		RefID:    "REF001",
	}
}

func TestBuild(t *testing.T) {
	tx, err := Build(slip(), SourceScan)
	require.NoError(t, err)

	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, "REF001", tx.RefID)
	assert.Equal(t, common.Expense, tx.Type)
	assert.True(t, decimal.RequireFromString("1250").Equal(tx.Amount))
	assert.Equal(t, 2025, tx.Date.Year())
	assert.Equal(t, "Starbucks Silom", tx.Description)
	assert.Equal(t, "food", tx.Category)
	assert.Equal(t, "SCB", tx.Bank)
	assert.Equal(t, SourceScan, tx.Source)
}

func TestBuild_PlaceholdersBecomeEmpty(t *testing.T) {
	f := slip()
	f.RefID, f.Sender, f.Receiver, f.Bank = common.Placeholder, common.Placeholder, common.Placeholder, common.UnknownBank

	tx, err := Build(f, SourceImport)
	require.NoError(t, err)

	assert.Empty(t, tx.RefID)
	assert.Empty(t, tx.Sender)
	assert.Empty(t, tx.Receiver)
	assert.Empty(t, tx.Bank)
	assert.Equal(t, defaultDescription, tx.Description)
	assert.Equal(t, "other", tx.Category)
}

func TestBuild_HintsDecideTypeAndCategory(t *testing.T) {
	f := slip()
	f.TypeHint, f.CategoryHint = "income", "เงินเดือน"

	tx, err := Build(f, SourceImport)
	require.NoError(t, err)

	assert.Equal(t, common.Income, tx.Type)
	assert.Equal(t, "salary", tx.Category)
}

func TestBuild_ReportsAllProblems(t *testing.T) {
	_, err := Build(common.NewFields("SCB"), SourceScan)

	assert.True(t, errors.Is(err, common.ErrAmountNotDetected))
	assert.True(t, errors.Is(err, common.ErrDateNotDetected))
}

func TestUpsert(t *testing.T) {
	day := time.Date(2025, 12, 12, 0, 0, 0, 0, common.Bangkok)
	existing := []common.Transaction{
		{ID: "1", RefID: "A", Amount: decimal.NewFromInt(10), Sender: "old sender", Receiver: "old receiver", Bank: "SCB", Category: "food"},
		{ID: "2", Amount: decimal.NewFromInt(5)},
	}
	incoming := []common.Transaction{
		{ID: "3", RefID: "A", Amount: decimal.NewFromInt(20), Date: day, Receiver: "new receiver"},
		{ID: "4", RefID: "B", Amount: decimal.NewFromInt(30)},
		{ID: "5", RefID: "B", Amount: decimal.NewFromInt(31)},
		{ID: "6", Amount: decimal.NewFromInt(1)},
	}

	out, created, updated := Upsert(existing, incoming)

	assert.Equal(t, 2, created)
	assert.Equal(t, 2, updated)
	require.Len(t, out, 4)

	merged := out[0]
	assert.Equal(t, "1", merged.ID)
	assert.True(t, decimal.NewFromInt(20).Equal(merged.Amount))
	assert.Equal(t, day, merged.Date)
	assert.Equal(t, "old sender", merged.Sender)
	assert.Equal(t, "new receiver", merged.Receiver)
	assert.Equal(t, "SCB", merged.Bank)
	assert.Equal(t, "food", merged.Category)

	assert.Equal(t, "B", out[2].RefID)
	assert.True(t, decimal.NewFromInt(31).Equal(out[2].Amount))
	assert.Equal(t, "6", out[3].ID)
	assert.Len(t, existing, 2)
}

func TestWriteCSV(t *testing.T) {
	txns := []common.Transaction{{
		RefID:    "REF001",
		Type:     common.Expense,
		Amount:   decimal.RequireFromString("1250.5"),
		Date:     time.Date(2025, 12, 12, 14, 30, 0, 0, common.Bangkok),
		Category: "food",
		Note:     "line one\nline \"two\"",
		Sender:   "นาย ก",
		Receiver: "ร้าน, ข",
		Bank:     "SCB",
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, txns))

	assert.Equal(t,
		"Date,Time,Type,Category,Amount,Note,Sender,Receiver,Bank,RefID\n"+
			"2025-12-12,14:30,expense,food,1250.50,\"line one line \"\"two\"\"\",นาย ก,\"ร้าน, ข\",SCB,REF001\n",
		buf.String())
}
