// Package bbl reads Bangkok Bank (Bualuang mBanking) slips. Unlike the other
// dialects every field is anchored on a label line, so the layout tolerates
// inserted or missing lines.
package bbl

import (
	"regexp"
	"strings"

	"github.com/aqlanhadi/slipscan/extractor/common"
	"github.com/aqlanhadi/slipscan/extractor/normalizer"
	"github.com/spf13/viper"
)

const configKey = "BANGKOK_BANK"

const valueAfterLabel = 1

var (
	senderLabels   = []string{"จาก", "From"}
	receiverLabels = []string{"ไปที่", "ไปยัง", "To"}
	amountLabels   = []string{"จำนวนเงิน", "Amount"}
)

var (
	defaultDate  = regexp.MustCompile(common.DateTimePattern(`,? `))
	defaultRefID = regexp.MustCompile(`(?:หมายเลขอ้างอิง|เลขที่อ้างอิง|Ref\.? ?No\.?)\s*:?\s*([A-Za-z0-9]+)`)
)

var noise = normalizer.Rules{
	DropLines:    []string{"0.00 บาท", "0.00 THB", "Bualuang mBanking"},
	DropPrefixes: []string{"ค่าธรรมเนียม", "Fee"},
}

type Config struct {
	Markers []string
	Date    *regexp.Regexp
	RefID   *regexp.Regexp
	Noise   normalizer.Rules
}

func DefaultConfig() Config {
	return Config{
		Markers: []string{"Bangkok Bank", "Bualuang", "ธนาคารกรุงเทพ"},
		Date:    defaultDate,
		RefID:   defaultRefID,
	}
}

func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := DefaultConfig()
	var err error
	cfg.Markers = common.StringsFrom(v, common.DialectKey(configKey, "markers"), cfg.Markers)
	if cfg.Date, err = common.PatternFrom(v, common.DialectKey(configKey, "patterns.date"), cfg.Date); err != nil {
		return cfg, err
	}
	if cfg.RefID, err = common.PatternFrom(v, common.DialectKey(configKey, "patterns.ref"), cfg.RefID); err != nil {
		return cfg, err
	}
	cfg.Noise = common.NoiseFrom(v, configKey)
	return cfg, nil
}

type Extractor struct {
	cfg Config
}

func New(cfg Config) *Extractor {
	return &Extractor{cfg: cfg}
}

func (e *Extractor) Dialect() common.Dialect { return common.DialectBangkokBank }

func (e *Extractor) Markers() []string { return e.cfg.Markers }

func (e *Extractor) Rules() normalizer.Rules { return noise.Merge(e.cfg.Noise) }

// Extract keeps the first value found for each field.
func (e *Extractor) Extract(lines []string) common.Fields {
	f := common.NewFields(string(common.DialectBangkokBank))

	take := func(dst *string, i int, clean func(string) string) {
		if *dst != common.Placeholder {
			return
		}
		if v, ok := common.Line(lines, i); ok && strings.TrimSpace(v) != "" {
			*dst = clean(strings.TrimSpace(v))
		}
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if f.Date == common.Placeholder {
			if date, ok := common.MatchDate(e.cfg.Date, trimmed); ok {
				f.Date = date
				continue
			}
		}
		if f.RefID == common.Placeholder {
			if m := e.cfg.RefID.FindStringSubmatch(trimmed); len(m) > 1 {
				f.RefID = m[1]
				continue
			}
		}

		switch {
		case isLabel(trimmed, senderLabels):
			take(&f.Sender, i+valueAfterLabel, keep)
		case isLabel(trimmed, receiverLabels):
			take(&f.Receiver, i+valueAfterLabel, keep)
		case isLabel(trimmed, amountLabels):
			take(&f.Amount, i+valueAfterLabel, amount)
		}
	}

	return f
}

func isLabel(line string, labels []string) bool {
	for _, l := range labels {
		if line == l {
			return true
		}
	}
	return false
}

func keep(s string) string { return s }

func amount(s string) string {
	return common.Amount(strings.TrimSuffix(s, " THB"))
}
