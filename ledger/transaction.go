// Package ledger turns extracted fields into transactions and merges them by
// reference id.
package ledger

import (
	"github.com/aqlanhadi/slipscan/extractor"
	"github.com/aqlanhadi/slipscan/extractor/common"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// Transaction sources.
const (
	SourceScan   = "scan"
	SourceImport = "import"
	SourceManual = "manual"
)

const defaultDescription = "Imported Transaction"

// Build creates a transaction from fields. The amount and date must parse;
// otherwise the returned error lists every problem.
func Build(f common.Fields, source string) (common.Transaction, error) {
	amount, amountErr := common.ParseAmount(f.Amount)
	date, dateErr := common.ParseDate(f.Date)
	var err error
	if amountErr != nil {
		err = multierr.Append(err, common.ErrAmountNotDetected)
	}
	if dateErr != nil {
		err = multierr.Append(err, common.ErrDateNotDetected)
	}
	if err != nil {
		return common.Transaction{}, err
	}

	tx := common.Transaction{
		ID:          uuid.NewString(),
		Type:        common.TypeFromHint(f.TypeHint),
		Amount:      amount,
		Description: defaultDescription,
		Date:        date,
		Category:    string(extractor.Categorize(f)),
		Source:      source,
	}
	if common.Resolved(f.RefID) {
		tx.RefID = f.RefID
	}
	if common.Resolved(f.Sender) {
		tx.Sender = f.Sender
	}
	if common.Resolved(f.Receiver) {
		tx.Receiver = f.Receiver
		tx.Description = f.Receiver
	}
	if common.Resolved(f.Bank) && f.Bank != common.UnknownBank {
		tx.Bank = f.Bank
	}
	return tx, nil
}

// Merge applies an incoming record to an existing one with the same
// reference id. Amount and date always follow the incoming record; sender,
// receiver and bank only when the incoming record resolved them.
func Merge(existing, incoming common.Transaction) common.Transaction {
	out := existing
	out.Amount = incoming.Amount
	out.Date = incoming.Date
	if incoming.Sender != "" {
		out.Sender = incoming.Sender
	}
	if incoming.Receiver != "" {
		out.Receiver = incoming.Receiver
	}
	if incoming.Bank != "" {
		out.Bank = incoming.Bank
	}
	return out
}

// Upsert merges incoming into list by reference id. Records without a
// reference id are always appended.
func Upsert(list []common.Transaction, incoming []common.Transaction) (out []common.Transaction, created, updated int) {
	out = append([]common.Transaction(nil), list...)
	index := make(map[string]int, len(out))
	for i, tx := range out {
		if tx.RefID != "" {
			index[tx.RefID] = i
		}
	}

	for _, tx := range incoming {
		if i, ok := index[tx.RefID]; ok && tx.RefID != "" {
			out[i] = Merge(out[i], tx)
			updated++
			continue
		}
		if tx.RefID != "" {
			index[tx.RefID] = len(out)
		}
		out = append(out, tx)
		created++
	}
	return out, created, updated
}
