package ktb

import (
	"regexp"

	"github.com/aqlanhadi/slipscan/extractor/common"
	"github.com/aqlanhadi/slipscan/extractor/normalizer"
	"github.com/spf13/viper"
)

const configKey = "KRUNGTHAI"

// Line positions on a normalized Krungthai NEXT slip. The amount is printed
// directly above the transaction date.
const (
	refIDLine    = 3
	senderLine   = 4
	receiverLine = 7

	amountBeforeDate = 1
)

var (
	defaultDate  = regexp.MustCompile(common.DateTimePattern(` - `))
	defaultRefID = regexp.MustCompile(`รหัสอ้างอิง:\s*([A-Za-z0-9]+)`)
)

var noise = normalizer.Rules{
	StripPrefixes: []string{"รหัสอ้างอิง "},
	DropLines:     []string{"รหัสอ้างอิง", "0.00 บาท", "e"},
	DropPrefixes: []string{
		"ค่าธรรมเนียม",
		"วันที่ทำรายการ",
		"จำนวนเงิน",
		"ไปยัง",
		"จาก",
		"•••",
	},
}

type Config struct {
	Markers []string
	Date    *regexp.Regexp
	RefID   *regexp.Regexp
	Noise   normalizer.Rules
}

func DefaultConfig() Config {
	return Config{
		Markers: []string{"Krungthai", "กรุงไทย"},
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

func (e *Extractor) Dialect() common.Dialect { return common.DialectKrungthai }

func (e *Extractor) Markers() []string { return e.cfg.Markers }

func (e *Extractor) Rules() normalizer.Rules { return noise.Merge(e.cfg.Noise) }

// Extract reads positional fields first, then lets a labelled reference id
// override the positional one.
func (e *Extractor) Extract(lines []string) common.Fields {
	f := common.NewFields(string(common.DialectKrungthai))

	for i, line := range lines {
		date, ok := common.MatchDate(e.cfg.Date, line)
		if !ok {
			continue
		}
		f.Date = date
		if v, ok := common.Line(lines, i-amountBeforeDate); ok {
			f.Amount = common.Amount(v)
		}
		break
	}

	if v, ok := common.Line(lines, refIDLine); ok {
		f.RefID = v
	}
	if v, ok := common.Line(lines, senderLine); ok {
		f.Sender = v
	}
	if v, ok := common.Line(lines, receiverLine); ok {
		f.Receiver = v
	}

	for _, line := range lines {
		if m := e.cfg.RefID.FindStringSubmatch(line); len(m) > 1 {
			f.RefID = m[1]
		}
	}

	return f
}
