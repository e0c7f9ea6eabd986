package generic

import (
	"testing"

	"github.com/aqlanhadi/slipscan/extractor/common"
	"github.com/aqlanhadi/slipscan/extractor/normalizer"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extract(raw []string) common.Fields {
	return extractWith(DefaultConfig(), raw)
}

func extractWith(cfg Config, raw []string) common.Fields {
	e := New(cfg)
	return e.Extract(normalizer.NormalizeLines(raw, e.Rules()))
}

func skippingDateAndRefRuns() Config {
	cfg := DefaultConfig()
	cfg.SkipDateAndRefRuns = true
	return cfg
}

func TestExtract_SenderAfterLabel(t *testing.T) {
	f := extract([]string{"โอนเงินสำเร็จ", "จาก", "นายสมชาย ใจดี"})

	assert.Equal(t, "นายสมชาย ใจดี", f.Sender)
	assert.Equal(t, common.UnknownBank, f.Bank)
}

func TestExtract_FullSlip(t *testing.T) {
	raw := []string{
		"  โอนเงินสำเร็จ  ",
		"",
		"7 ม.ค. 2569 09:41 น.",
		"จาก",
		"นางสาว สมหญิง รักดี",
		"ไปยัง",
		"ร้านข้าวมันไก่",
		"จำนวนเงิน",
		"60.00",
		"ค่าธรรมเนียม 0.00",
		"เลขที่รายการ: 2569010709411234",
	}

	f := extractWith(skippingDateAndRefRuns(), raw)

	assert.Equal(t, "7 ม.ค. 2569", f.Date)
	assert.Equal(t, "นางสาว สมหญิง รักดี", f.Sender)
	assert.Equal(t, "ร้านข้าวมันไก่", f.Receiver)
	assert.Equal(t, "60.00", f.Amount)
	assert.Equal(t, "2569010709411234", f.RefID)
}

func TestExtract_AmountLabelBeforeNumbers(t *testing.T) {
	raw := []string{
		"12 ธ.ค. 68 - 14:30",
		"จำนวน",
		"1,250.00 บาท",
		"ไปยังร้านกาแฟ",
	}

	f := extractWith(skippingDateAndRefRuns(), raw)

	assert.Equal(t, "12 ธ.ค. 68", f.Date)
	assert.Equal(t, "1,250.00 บาท", f.Amount)
	assert.Equal(t, "ร้านกาแฟ", f.Receiver)
}

func TestExtract_NumericFallbackTakesFirstRun(t *testing.T) {
	f := extract([]string{"xxx-x-x1234-x", "60.00"})

	assert.Equal(t, "1234", f.Amount)
}

func TestExtract_NumericFallbackSkipsFees(t *testing.T) {
	f := extract([]string{"ค่าธรรมเนียม 10.00", "ยอด 350.50"})

	assert.Equal(t, "350.50", f.Amount)
}

func TestExtract_NumericFallbackReadsDateLine(t *testing.T) {
	raw := []string{"12 ธ.ค. 68 - 14:30", "ชำระ 500.00"}

	f := extract(raw)

	assert.Equal(t, "12 ธ.ค. 68", f.Date)
	assert.Equal(t, "12", f.Amount)
}

func TestExtract_NumericFallbackReadsReferenceLine(t *testing.T) {
	f := extract([]string{"เลขที่รายการ: ABC123456", "ยอด 80.00"})

	assert.Equal(t, "ABC123456", f.RefID)
	assert.Equal(t, "123456", f.Amount)
}

func TestExtract_SkipDateAndRefRuns(t *testing.T) {
	raw := []string{"12 ธ.ค. 68 - 14:30", "เลขที่รายการ: ABC123456", "ชำระ 500.00"}

	f := extractWith(skippingDateAndRefRuns(), raw)

	assert.Equal(t, "500.00", f.Amount)
}

func TestLoadConfig_SkipDateAndRefRuns(t *testing.T) {
	v := viper.New()
	cfg, err := LoadConfig(v)
	require.NoError(t, err)
	assert.False(t, cfg.SkipDateAndRefRuns)

	v.Set("dialects.GENERIC.skip_date_and_ref_runs", true)
	cfg, err = LoadConfig(v)
	require.NoError(t, err)
	assert.True(t, cfg.SkipDateAndRefRuns)
}

func TestExtract_ReceiverAfterShopKeyword(t *testing.T) {
	f := extract([]string{"QR SHOP", "ร้านป้าแดง"})

	assert.Equal(t, "ร้านป้าแดง", f.Receiver)
}

func TestNoise_DropsPromptPayPair(t *testing.T) {
	f := extract([]string{"ไปยัง", "Prompt", "Pay", "ร้านค้า"})

	assert.Equal(t, "ร้านค้า", f.Receiver)
}

func TestExtract_ShortInput(t *testing.T) {
	for _, raw := range [][]string{nil, {""}, {"สวัสดี"}} {
		assert.Equal(t, common.NewFields(common.UnknownBank), extract(raw))
	}
}

func TestExtract_LabelOnLastLine(t *testing.T) {
	f := extract([]string{"ไปยัง"})

	assert.Equal(t, common.Placeholder, f.Receiver)
}
