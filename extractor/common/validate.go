package common

import (
	"errors"

	"go.uber.org/multierr"
)

var (
	ErrBankNotDetected     = errors.New("bank not detected")
	ErrAmountNotDetected   = errors.New("amount not detected")
	ErrDateNotDetected     = errors.New("date not detected")
	ErrSenderNotDetected   = errors.New("sender not detected")
	ErrReceiverNotDetected = errors.New("receiver not detected")
)

// Validate checks that the fields can become a transaction. Every problem is
// reported, not just the first.
func Validate(f Fields) error {
	var err error
	if !Resolved(f.Bank) || f.Bank == UnknownBank {
		err = multierr.Append(err, ErrBankNotDetected)
	}
	if _, perr := ParseAmount(f.Amount); perr != nil {
		err = multierr.Append(err, ErrAmountNotDetected)
	}
	if _, perr := ParseDate(f.Date); perr != nil {
		err = multierr.Append(err, ErrDateNotDetected)
	}
	if !Resolved(f.Sender) {
		err = multierr.Append(err, ErrSenderNotDetected)
	}
	if !Resolved(f.Receiver) {
		err = multierr.Append(err, ErrReceiverNotDetected)
	}
	return err
}

// Problems flattens a Validate error into messages.
func Problems(err error) []string {
	errs := multierr.Errors(err)
	if len(errs) == 0 {
		return nil
	}
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Error())
	}
	return out
}
