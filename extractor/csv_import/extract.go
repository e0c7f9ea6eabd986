package csv_import

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aqlanhadi/slipscan/extractor/common"
	"github.com/aqlanhadi/slipscan/logger"
	"github.com/google/uuid"
)

// Column indices of the expense tracker export.
const (
	colDate         = 0
	colTime         = 1
	colType         = 2
	colCategory     = 3
	colTag          = 4
	colAmount       = 5
	colNote         = 6
	colPaidVia      = 7
	colSender       = 8
	colReceiverBank = 9
	colReceiver     = 10
)

const minColumns = colAmount + 1

const headerMarker = "วันที่"

// DateLayout is the layout dates are rewritten to.
const DateLayout = "2006-01-02 15:04:05"

var ErrNoRows = errors.New("no importable rows in CSV")

var typeHints = map[string]common.TxType{
	"รายจ่าย": common.Expense,
	"รายรับ":  common.Income,
	"ย้ายเงิน": common.Transfer,
}

var dateLayouts = []string{
	"2/1/2006 15:04",
	"02/01/2006 15:04",
	"2006-01-02 15:04",
	"2/1/2006 15:04:05",
	"2006-01-02 15:04:05",
}

// Extract reads an expense tracker CSV export into field sets, one per row.
// Rows that are too short or carry no amount are skipped.
func Extract(ctx context.Context, reader io.Reader) ([]common.Fields, error) {
	log := logger.FromContext(ctx)

	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var out []common.Fields
	for line := 1; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn().Err(err).Int("line", line).Msg("skipping unreadable CSV row")
			continue
		}
		if line == 1 && strings.Contains(record[colDate], headerMarker) {
			continue
		}
		if len(record) < minColumns {
			log.Warn().Int("line", line).Int("columns", len(record)).Msg("skipping short CSV row")
			continue
		}

		f, err := parseRow(record)
		if err != nil {
			log.Warn().Err(err).Int("line", line).Msg("skipping CSV row")
			continue
		}
		out = append(out, f)
	}

	if len(out) == 0 {
		return nil, ErrNoRows
	}
	return out, nil
}

func parseRow(record []string) (common.Fields, error) {
	col := func(i int) string {
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	amount, err := common.ParseAmount(col(colAmount))
	if err != nil {
		return common.Fields{}, fmt.Errorf("amount %q: %w", col(colAmount), err)
	}

	f := common.NewFields(common.UnknownBank)
	f.Date = normalizeDate(col(colDate), col(colTime))
	f.Amount = amount.StringFixed(2)
	f.TypeHint = string(typeHint(col(colType)))
	f.CategoryHint = strings.Trim(col(colCategory), `"`)
	f.RefID = uuid.NewString()

	if v := col(colSender); v != "" {
		f.Sender = v
	}
	if v := col(colReceiverBank); v != "" {
		f.Bank = v
	}
	switch {
	case col(colReceiver) != "":
		f.Receiver = col(colReceiver)
	case col(colNote) != "":
		f.Receiver = col(colNote)
	}

	return f, nil
}

func typeHint(label string) common.TxType {
	if t, ok := typeHints[label]; ok {
		return t
	}
	return common.Expense
}

// normalizeDate rewrites "d/M/yyyy" + "HH:mm" into DateLayout. Unparseable
// input is returned as found.
func normalizeDate(date, clock string) string {
	raw := strings.TrimSpace(date + " " + clock)
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, raw, common.Bangkok)
		if err != nil {
			continue
		}
		if t.Year() > 2400 {
			t = t.AddDate(-543, 0, 0)
		}
		return t.Format(DateLayout)
	}
	return raw
}
