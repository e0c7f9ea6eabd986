package kbank_make

import (
	"regexp"
	"strings"

	"github.com/aqlanhadi/slipscan/extractor/common"
	"github.com/aqlanhadi/slipscan/extractor/normalizer"
	"github.com/spf13/viper"
)

const configKey = "MAKE"

// Line positions on a normalized MAKE by KBank slip. The amount block moves
// down one line when the amount label is missing from the OCR output.
const (
	dateLine               = 1
	senderLine             = 5
	receiverLine           = 8
	receiverAfterPromptPay = 9
	amountLabelLine        = 10

	labelledAmountLine = 11
	labelledRefIDLine  = 14

	unlabelledAmountLine = 12
	unlabelledRefIDLine  = 15
)

const (
	promptPay   = "Prompt Pay"
	amountLabel = "จำนวน"
	refIDPrefix = "เลขที่รายการ: "
)

var defaultDate = regexp.MustCompile(common.DateTimePattern(` `))

var noise = normalizer.Rules{
	DropLines: []string{"จ่ายละจิง", "0550"},
	JoinPairs: [][2]string{{"Prompt", "Pay"}},
}

type Config struct {
	Markers []string
	Date    *regexp.Regexp
	Noise   normalizer.Rules
}

func DefaultConfig() Config {
	return Config{
		Markers: []string{"maKe", "make", "by KBank"},
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

func (e *Extractor) Dialect() common.Dialect { return common.DialectMake }

func (e *Extractor) Markers() []string { return e.cfg.Markers }

func (e *Extractor) Rules() normalizer.Rules { return noise.Merge(e.cfg.Noise) }

func (e *Extractor) Extract(lines []string) common.Fields {
	f := common.NewFields(string(common.DialectMake))

	if line, ok := common.Line(lines, dateLine); ok {
		if date, ok := common.MatchDate(e.cfg.Date, line); ok {
			f.Date = date
		}
	}
	if v, ok := common.Line(lines, senderLine); ok {
		f.Sender = v
	}

	if v, ok := common.Line(lines, receiverLine); ok {
		if strings.Contains(v, promptPay) {
			if name, ok := common.Line(lines, receiverAfterPromptPay); ok {
				f.Receiver = name
			}
		} else {
			f.Receiver = v
		}
	}

	label, ok := common.Line(lines, amountLabelLine)
	if !ok {
		return f
	}
	amountLine, refIDLine := unlabelledAmountLine, unlabelledRefIDLine
	if strings.Contains(label, amountLabel) {
		amountLine, refIDLine = labelledAmountLine, labelledRefIDLine
	}
	if v, ok := common.Line(lines, amountLine); ok {
		f.Amount = common.Amount(v)
	}
	if v, ok := common.Line(lines, refIDLine); ok && strings.HasPrefix(v, refIDPrefix) {
		f.RefID = strings.TrimPrefix(v, refIDPrefix)
	}

	return f
}
