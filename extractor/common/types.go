package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// Placeholder marks a field the extractor could not resolve.
	Placeholder = "-"
	// UnknownBank is the bank value when no dialect or bank name was found.
	UnknownBank = "Unknown"
)

type Dialect string

const (
	DialectKrungthai   Dialect = "Krungthai"
	DialectKBank       Dialect = "KBank"
	DialectSCB         Dialect = "SCB"
	DialectMake        Dialect = "MAKE by KBank"
	DialectBangkokBank Dialect = "Bangkok Bank"
	DialectGeneric     Dialect = "Generic"
)

// Document is the OCR output of one slip, lines in reading order.
type Document struct {
	Source string   `json:"source,omitempty"`
	Lines  []string `json:"lines"`
}

func (d Document) Text() string {
	return strings.Join(d.Lines, "\n")
}

// Fields is the canonical extraction result. The six core values are always
// set; the hints are only filled by the CSV path.
type Fields struct {
	Bank         string `json:"bank"`
	Date         string `json:"date"`
	Sender       string `json:"sender"`
	Receiver     string `json:"receiver"`
	Amount       string `json:"amount"`
	RefID        string `json:"refId"`
	CategoryHint string `json:"categoryHint,omitempty"`
	TypeHint     string `json:"typeHint,omitempty"`
}

// NewFields returns a field set with every value unresolved.
func NewFields(bank string) Fields {
	return Fields{
		Bank:     bank,
		Date:     Placeholder,
		Sender:   Placeholder,
		Receiver: Placeholder,
		Amount:   Placeholder,
		RefID:    Placeholder,
	}
}

// FieldsFromMap reads a pre-structured field map, as returned by the
// verification service or the vision model.
func FieldsFromMap(m map[string]string) Fields {
	return Fields{
		Bank:         m["bank"],
		Date:         m["date"],
		Sender:       m["sender"],
		Receiver:     m["receiver"],
		Amount:       m["amount"],
		RefID:        m["refId"],
		CategoryHint: m["categoryHint"],
		TypeHint:     m["typeHint"],
	}
}

// FieldsFromAny reads a decoded JSON object. Numbers and other scalars are
// formatted as text; nulls are skipped.
func FieldsFromAny(m map[string]any) Fields {
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch t := v.(type) {
		case nil:
		case string:
			out[k] = t
		case float64:
			out[k] = decimal.NewFromFloat(t).String()
		default:
			out[k] = fmt.Sprint(t)
		}
	}
	return FieldsFromMap(out)
}

func (f Fields) Map() map[string]string {
	m := map[string]string{
		"bank":     f.Bank,
		"date":     f.Date,
		"sender":   f.Sender,
		"receiver": f.Receiver,
		"amount":   f.Amount,
		"refId":    f.RefID,
	}
	if f.CategoryHint != "" {
		m["categoryHint"] = f.CategoryHint
	}
	if f.TypeHint != "" {
		m["typeHint"] = f.TypeHint
	}
	return m
}

// Resolved reports whether v holds an extracted value.
func Resolved(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != Placeholder
}

type TxType string

const (
	Expense  TxType = "expense"
	Income   TxType = "income"
	Transfer TxType = "transfer"
)

// TypeFromHint maps a type hint to a transaction type, defaulting to expense.
func TypeFromHint(hint string) TxType {
	switch TxType(strings.ToLower(strings.TrimSpace(hint))) {
	case Income:
		return Income
	case Transfer:
		return Transfer
	}
	return Expense
}

type Transaction struct {
	ID          string          `json:"id"`
	RefID       string          `json:"ref_id,omitempty"`
	Type        TxType          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Sender      string          `json:"sender,omitempty"`
	Receiver    string          `json:"receiver,omitempty"`
	Bank        string          `json:"bank,omitempty"`
	Category    string          `json:"category"`
	Source      string          `json:"source"`
	Note        string          `json:"note,omitempty"`
}
