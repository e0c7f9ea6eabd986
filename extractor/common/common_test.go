package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLine(t *testing.T) {
	lines := []string{"a", "b"}

	v, ok := Line(lines, 1)
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	_, ok = Line(lines, 2)
	assert.False(t, ok)
	_, ok = Line(lines, -1)
	assert.False(t, ok)
}

func TestSplitLines_KeepsEmptyLines(t *testing.T) {
	assert.Equal(t, []string{"a", "", "b"}, SplitLines("a\r\n\nb"))
}

func TestStripAmount(t *testing.T) {
	assert.Equal(t, "1234.50", StripAmount("1,234.50 บาท"))
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric("1234.50"))
	assert.True(t, IsNumeric(" 20 "))
	assert.False(t, IsNumeric("1,234.50"))
	assert.False(t, IsNumeric("12 ธ.ค. 68"))
}

func TestAmount(t *testing.T) {
	assert.Equal(t, "1250.00", Amount(" 1,250.00 บาท "))
	assert.Equal(t, "20", Amount("20"))
	assert.Equal(t, Placeholder, Amount("hello world"))
	assert.Equal(t, Placeholder, Amount(""))
}

func TestBankFromString(t *testing.T) {
	tests := map[string]string{
		"004":               "KBank",
		"014":               "SCB",
		"006":               "Krungthai",
		"002":               "Bangkok Bank",
		"065":               "Thanachart",
		"ธนาคารไทยพาณิชย์":  "SCB",
		"MAKE by KBank":     "KBank",
		"ทหารไทยธนชาต":      "TTB",
		"Bangkok Bank":      "Bangkok Bank",
		"Some Credit Union": UnknownBank,
		"":                  UnknownBank,
		Placeholder:         UnknownBank,
	}
	for in, want := range tests {
		assert.Equal(t, want, BankFromString(in), "input %q", in)
	}
}

func TestFieldsMapRoundTrip(t *testing.T) {
	f := NewFields("SCB")
	f.Amount = "100.00"

	m := f.Map()
	assert.Len(t, m, 6)
	assert.Equal(t, f, FieldsFromMap(m))

	f.CategoryHint = "อาหาร"
	assert.Equal(t, "อาหาร", f.Map()["categoryHint"])
}

func TestTypeFromHint(t *testing.T) {
	assert.Equal(t, Income, TypeFromHint("income"))
	assert.Equal(t, Transfer, TypeFromHint(" Transfer "))
	assert.Equal(t, Expense, TypeFromHint(""))
	assert.Equal(t, Expense, TypeFromHint("whatever"))
}

func TestValidate_AggregatesAllProblems(t *testing.T) {
	err := Validate(NewFields(UnknownBank))
	require.Error(t, err)

	for _, want := range []error{
		ErrBankNotDetected,
		ErrAmountNotDetected,
		ErrDateNotDetected,
		ErrSenderNotDetected,
		ErrReceiverNotDetected,
	} {
		assert.True(t, errors.Is(err, want), "missing %v", want)
	}
	assert.Len(t, Problems(err), 5)
}

func TestValidate_Complete(t *testing.T) {
	f := Fields{
		Bank:     "SCB",
		Date:     "12 ธ.ค. 68",
		Sender:   "นาย ก",
		Receiver: "ร้าน ข",
		Amount:   "1,234.50",
		RefID:    Placeholder,
	}

	assert.NoError(t, Validate(f))
	assert.Nil(t, Problems(nil))
}
