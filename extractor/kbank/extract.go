package kbank

import (
	"regexp"
	"strings"

	"github.com/aqlanhadi/slipscan/extractor/common"
	"github.com/aqlanhadi/slipscan/extractor/normalizer"
	"github.com/spf13/viper"
)

const configKey = "KBANK"

// Line positions on a normalized K PLUS slip.
const (
	dateLine     = 1
	senderLine   = 2
	receiverLine = 6

	refIDAfterLabel = 1

	// Counted back from the last line.
	amountFromEnd = 1
	refIDFromEnd  = 2
)

const refIDLabel = "เลขที่รายการ"

var defaultDate = regexp.MustCompile(common.DateTimePattern(` `))

var noise = normalizer.Rules{
	DropLines: []string{
		"จ่ายละจิง",
		"จำนวน:",
		"ค่าธรรมเนียม:",
		"0.00 บาท",
		"สแกนตรวจสอบสลิป",
		"K+",
		"0 บาท",
	},
	JoinPairs: [][2]string{{"Prompt", "Pay"}},
}

type Config struct {
	Markers []string
	Date    *regexp.Regexp
	Noise   normalizer.Rules
}

func DefaultConfig() Config {
	return Config{
		Markers: []string{"K+\n"},
		Date:    defaultDate,
	}
}

func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := DefaultConfig()
	var err error
	cfg.Markers = common.StringsFrom(v, common.DialectKey(configKey, "markers"), cfg.Markers)
	if cfg.Date, err = common.PatternFrom(v, common.DialectKey(configKey, "patterns.date"), cfg.Date); err != nil {
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

func (e *Extractor) Dialect() common.Dialect { return common.DialectKBank }

func (e *Extractor) Markers() []string { return e.cfg.Markers }

func (e *Extractor) Rules() normalizer.Rules { return noise.Merge(e.cfg.Noise) }

// Extract reads a K PLUS slip. The reference id is taken after its label and
// then overwritten by the second-to-last line; on the current layout both
// hold the same value, but a trailing line added to the slip will shift it.
func (e *Extractor) Extract(lines []string) common.Fields {
	f := common.NewFields(string(common.DialectKBank))

	if line, ok := common.Line(lines, dateLine); ok {
		if date, ok := common.MatchDate(e.cfg.Date, line); ok {
			f.Date = date
		}
	}
	if v, ok := common.Line(lines, senderLine); ok {
		f.Sender = v
	}
	if v, ok := common.Line(lines, receiverLine); ok {
		f.Receiver = v
	}

	for i, line := range lines {
		if strings.Contains(line, refIDLabel) {
			if v, ok := common.Line(lines, i+refIDAfterLabel); ok {
				f.RefID = v
			}
			break
		}
	}

	if v, ok := common.Line(lines, len(lines)-amountFromEnd); ok {
		f.Amount = common.Amount(v)
	}
	if v, ok := common.Line(lines, len(lines)-refIDFromEnd); ok {
		f.RefID = v
	}

	return f
}
