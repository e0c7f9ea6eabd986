package kbank_make

import (
	"testing"

	"github.com/aqlanhadi/slipscan/extractor/common"
	"github.com/aqlanhadi/slipscan/extractor/normalizer"
	"github.com/stretchr/testify/assert"
)

func extract(raw []string) common.Fields {
	e := New(DefaultConfig())
	return e.Extract(normalizer.NormalizeLines(raw, e.Rules()))
}

func TestExtract_PromptPayWithAmountLabel(t *testing.T) {
	raw := []string{
		"make",
		"12 ธ.ค. 68 14:30",
		"จ่ายละจิง",
		"โอนเงินสำเร็จ",
		"จาก",
		"ธ.กสิกรไทย",
		"นาย สมชาย ใจดี",
		"xxx-x-x1234-x",
		"ไปยัง",
		"Prompt",
		"Pay",
		"ร้านกาแฟ",
		"จำนวน",
		"1,250.00 บาท",
		"ค่าธรรมเนียม",
		"0550",
		"0.00 บาท",
		"เลขที่รายการ: 202512121430MK01",
	}

	f := extract(raw)

	assert.Equal(t, "MAKE by KBank", f.Bank)
	assert.Equal(t, "12 ธ.ค. 68", f.Date)
	assert.Equal(t, "นาย สมชาย ใจดี", f.Sender)
	assert.Equal(t, "ร้านกาแฟ", f.Receiver)
	assert.Equal(t, "1250.00", f.Amount)
	assert.Equal(t, "202512121430MK01", f.RefID)
}

func TestExtract_AccountTransferWithoutAmountLabel(t *testing.T) {
	lines := []string{
		"make",
		"5 ม.ค. 69 09:00",
		"โอนเงินสำเร็จ",
		"จาก",
		"ธ.กสิกรไทย",
		"นาย สมชาย ใจดี",
		"xxx-x-x1234-x",
		"ไปยัง",
		"นางสาว สมหญิง รักดี",
		"ธ.ไทยพาณิชย์",
		"xxx-x-x5678-x",
		"อื่นๆ",
		"500.00 บาท",
		"ค่าธรรมเนียม",
		"0.00 บาท",
		"เลขที่รายการ: MK02",
	}

	f := New(DefaultConfig()).Extract(lines)

	assert.Equal(t, "นางสาว สมหญิง รักดี", f.Receiver)
	assert.Equal(t, "500.00", f.Amount)
	assert.Equal(t, "MK02", f.RefID)
}

func TestExtract_ReferenceWithoutPrefixIsIgnored(t *testing.T) {
	lines := make([]string, 15)
	lines[amountLabelLine] = "จำนวน"
	lines[labelledAmountLine] = "20.00 บาท"
	lines[labelledRefIDLine] = "MK03"

	f := New(DefaultConfig()).Extract(lines)

	assert.Equal(t, "20.00", f.Amount)
	assert.Equal(t, common.Placeholder, f.RefID)
}

func TestExtract_ShortInput(t *testing.T) {
	f := extract([]string{"make"})

	assert.Equal(t, common.NewFields("MAKE by KBank"), f)
}

func TestExtract_PromptPayAtEnd(t *testing.T) {
	lines := []string{"make", "", "", "", "", "sender", "", "", "Prompt Pay"}

	f := New(DefaultConfig()).Extract(lines)

	assert.Equal(t, "sender", f.Sender)
	assert.Equal(t, common.Placeholder, f.Receiver)
}

func TestExtract_NonNumericAmountIsPlaceholder(t *testing.T) {
	lines := make([]string, 16)
	lines[0] = "make"
	lines[unlabelledAmountLine] = "hello world"

	f := New(DefaultConfig()).Extract(lines)

	assert.Equal(t, common.Placeholder, f.Amount)
}
