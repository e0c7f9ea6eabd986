// Package generic reads slips from banks without a dedicated dialect by
// scanning every line for label keywords. For each field the first
// qualifying line wins.
package generic

import (
	"regexp"
	"strings"

	"github.com/aqlanhadi/slipscan/extractor/common"
	"github.com/aqlanhadi/slipscan/extractor/normalizer"
	"github.com/spf13/viper"
)

const configKey = "GENERIC"

const valueAfterLabel = 1

const (
	senderLabel        = "จาก"
	receiverLabel      = "ไปยัง"
	receiverShortLabel = "ไป"
	amountLabel        = "จำนวนเงิน"
	amountShortLabel   = "จำนวน"
	feeLabel           = "ค่าธรรมเนียม"
)

var (
	honorifics       = []string{"นาย", "นาง", "น.ส."}
	receiverKeywords = []string{"Prompt", "SHOP"}
)

var (
	defaultDate  = regexp.MustCompile(common.DateTimePattern(`(?:\s*-\s*|\s+)`))
	defaultRefID = regexp.MustCompile(`(?:รหัสอ้างอิง|เลขที่รายการ)\s*:?\s*([A-Za-z0-9]{6,})`)
	numericRun   = regexp.MustCompile(`[\d,]+(?:\.\d{1,2})?`)
)

var noise = normalizer.Rules{
	DropPairs: [][2]string{{"Prompt", "Pay"}},
}

type Config struct {
	Date  *regexp.Regexp
	RefID *regexp.Regexp
	// SkipDateAndRefRuns keeps the numeric amount fallback off date and
	// reference lines. Off by default, so a slip without an amount label
	// takes the first numeric run of any non-fee line, the day included.
	SkipDateAndRefRuns bool
	Noise              normalizer.Rules
}

func DefaultConfig() Config {
	return Config{
		Date:  defaultDate,
		RefID: defaultRefID,
	}
}

func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := DefaultConfig()
	var err error
	if cfg.Date, err = common.PatternFrom(v, common.DialectKey(configKey, "patterns.date"), cfg.Date); err != nil {
		return cfg, err
	}
	if cfg.RefID, err = common.PatternFrom(v, common.DialectKey(configKey, "patterns.ref"), cfg.RefID); err != nil {
		return cfg, err
	}
	cfg.SkipDateAndRefRuns = v != nil && v.GetBool(common.DialectKey(configKey, "skip_date_and_ref_runs"))
	cfg.Noise = common.NoiseFrom(v, configKey)
	return cfg, nil
}

type Extractor struct {
	cfg Config
}

func New(cfg Config) *Extractor {
	return &Extractor{cfg: cfg}
}

func (e *Extractor) Dialect() common.Dialect { return common.DialectGeneric }

// Markers is empty: the generic extractor is only used as the fallback.
func (e *Extractor) Markers() []string { return nil }

func (e *Extractor) Rules() normalizer.Rules { return noise.Merge(e.cfg.Noise) }

func (e *Extractor) Extract(raw []string) common.Fields {
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	f := common.NewFields(common.UnknownBank)
	next := func(i int) (string, bool) {
		return common.Line(lines, i+valueAfterLabel)
	}
	unset := func(v string) bool { return v == common.Placeholder }

	for i, line := range lines {
		date, isDate := common.MatchDate(e.cfg.Date, line)
		if isDate && unset(f.Date) {
			f.Date = date
		}

		ref := e.cfg.RefID.FindStringSubmatch(line)
		isRef := len(ref) > 1
		if isRef && unset(f.RefID) {
			f.RefID = ref[1]
		}

		if unset(f.Sender) {
			if line == senderLabel {
				if v, ok := next(i); ok {
					f.Sender = v
				}
			} else if hasAnyPrefix(line, honorifics) {
				f.Sender = line
			}
		}

		if unset(f.Receiver) {
			switch {
			case line == receiverLabel || line == receiverShortLabel:
				if v, ok := next(i); ok {
					f.Receiver = v
				}
			case strings.HasPrefix(line, receiverLabel):
				if v := strings.TrimSpace(strings.TrimPrefix(line, receiverLabel)); v != "" {
					f.Receiver = v
				}
			case containsAny(line, receiverKeywords):
				if v, ok := next(i); ok {
					f.Receiver = v
				}
			}
		}

		if unset(f.Amount) {
			if strings.Contains(line, amountLabel) || strings.HasPrefix(line, amountShortLabel) {
				if v, ok := next(i); ok {
					f.Amount = v
				}
			} else if e.numericCandidate(line, isDate, isRef) {
				if m := numericRun.FindString(line); m != "" && strings.Trim(m, ",") != "" {
					f.Amount = m
				}
			}
		}
	}

	return f
}

func (e *Extractor) numericCandidate(line string, isDate, isRef bool) bool {
	if strings.Contains(line, feeLabel) {
		return false
	}
	return !e.cfg.SkipDateAndRefRuns || (!isDate && !isRef)
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
