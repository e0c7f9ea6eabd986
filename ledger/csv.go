package ledger

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/aqlanhadi/slipscan/extractor/common"
)

var exportHeader = []string{"Date", "Time", "Type", "Category", "Amount", "Note", "Sender", "Receiver", "Bank", "RefID"}

// WriteCSV writes transactions in the export layout. Newlines inside values
// are flattened so each transaction stays on one row.
func WriteCSV(w io.Writer, txns []common.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}

	for _, tx := range txns {
		date := tx.Date.In(common.Bangkok)
		record := []string{
			date.Format("2006-01-02"),
			date.Format("15:04"),
			string(tx.Type),
			tx.Category,
			tx.Amount.StringFixed(2),
			tx.Note,
			tx.Sender,
			tx.Receiver,
			tx.Bank,
			tx.RefID,
		}
		for i, v := range record {
			record[i] = flatten(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func flatten(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "\n", " ")), " ")
}
