package scb

import (
	"regexp"
	"strings"

	"github.com/aqlanhadi/slipscan/extractor/common"
	"github.com/aqlanhadi/slipscan/extractor/normalizer"
	"github.com/spf13/viper"
)

const configKey = "SCB"

// Offsets relative to the anchor lines of an SCB Easy slip.
const (
	senderAfterRecipientLabel   = 1
	receiverAfterRecipientLabel = 3
	receiverAfterProviderNotice = 1
	amountAfterProviderNotice   = 2
	amountAfterAmountLabel      = 1
)

const (
	recipientLabel = "ไปยัง"
	amountLabel    = "จำนวนเงิน"
)

var (
	defaultDate  = regexp.MustCompile(common.DateTimePattern(` - `))
	defaultRefID = regexp.MustCompile(`รหัสอ้างอิง:\s*([A-Za-z0-9]+)`)
)

type Config struct {
	Markers []string
	Date    *regexp.Regexp
	RefID   *regexp.Regexp
	// ProviderNotice marks the bill-payment layout, where the receiver and
	// amount follow the provider notice instead of the recipient label.
	ProviderNotice string
	Noise          normalizer.Rules
}

func DefaultConfig() Config {
	return Config{
		Markers:        []string{"SCB"},
		Date:           defaultDate,
		RefID:          defaultRefID,
		ProviderNotice: "ข้อมูลเพิ่มเติมจากผู้ให้บริการ",
	}
}

// LoadConfig overlays dialects.SCB.* settings on the defaults.
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

func (e *Extractor) Dialect() common.Dialect { return common.DialectSCB }

func (e *Extractor) Markers() []string { return e.cfg.Markers }

func (e *Extractor) Rules() normalizer.Rules { return e.cfg.Noise }

// Extract reads an SCB slip. The receiver keeps the "0 " OCR artifact; the
// aggregator removes it.
func (e *Extractor) Extract(lines []string) common.Fields {
	f := common.NewFields(string(common.DialectSCB))
	providerLayout := e.cfg.ProviderNotice != "" && strings.Contains(strings.Join(lines, "\n"), e.cfg.ProviderNotice)
	dateFound := false

	set := func(dst *string, i int) {
		if v, ok := common.Line(lines, i); ok {
			*dst = v
		}
	}
	// Amounts keep their printed form but must read as a number.
	setAmount := func(i int) {
		if v, ok := common.Line(lines, i); ok {
			if common.Amount(v) == common.Placeholder {
				v = common.Placeholder
			}
			f.Amount = v
		}
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if date, ok := common.MatchDate(e.cfg.Date, line); ok {
			if !dateFound {
				f.Date = date
				dateFound = true
			}
			continue
		}

		// Every labelled reference overwrites the previous one.
		if m := e.cfg.RefID.FindStringSubmatch(line); len(m) > 1 {
			f.RefID = m[1]
			continue
		}

		if trimmed == recipientLabel {
			set(&f.Sender, i+senderAfterRecipientLabel)
			if !providerLayout {
				set(&f.Receiver, i+receiverAfterRecipientLabel)
			}
			continue
		}

		if providerLayout && strings.HasPrefix(trimmed, e.cfg.ProviderNotice) {
			set(&f.Receiver, i+receiverAfterProviderNotice)
			setAmount(i + amountAfterProviderNotice)
			continue
		}

		if strings.HasPrefix(trimmed, amountLabel) {
			setAmount(i + amountAfterAmountLabel)
		}
	}

	return f
}
