package common

import (
	"strings"
)

type bankInfo struct {
	name     string
	code     string
	keywords []string
}

// Keyword matching is first hit in this order, so TTB ("ทหารไทยธนชาต") is
// listed before Thanachart ("ธนชาต").
var banks = []bankInfo{
	{"KBank", "004", []string{"kasikorn", "kbank", "กสิกร", "make by kbank"}},
	{"SCB", "014", []string{"siam commercial", "scb", "ไทยพาณิชย์"}},
	{"Krungthai", "006", []string{"krungthai", "ktb", "กรุงไทย"}},
	{"Bangkok Bank", "002", []string{"bangkok bank", "bualuang", "bbl", "กรุงเทพ"}},
	{"TTB", "011", []string{"ttb", "tmbthanachart", "ทีทีบี", "ทหารไทยธนชาต"}},
	{"GSB", "030", []string{"gsb", "government savings", "ออมสิน"}},
	{"Krungsri", "025", []string{"krungsri", "ayudhya", "กรุงศรี"}},
	{"CIMB Thai", "022", []string{"cimb", "ซีไอเอ็มบี"}},
	{"UOB", "024", []string{"uob", "ยูโอบี"}},
	{"TISCO", "067", []string{"tisco", "ทิสโก้"}},
	{"LH Bank", "073", []string{"lh bank", "lhb", "แลนด์ แอนด์ เฮ้าส์"}},
	{"Kiatnakin Phatra", "069", []string{"kiatnakin", "kkp", "เกียรตินาคิน"}},
	{"Thanachart", "065", []string{"thanachart", "tbank", "ธนชาต"}},
}

// BankFromString resolves a bank name from a three digit bank code or a
// free-form name. Unknown values return UnknownBank.
func BankFromString(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || s == Placeholder {
		return UnknownBank
	}
	for _, b := range banks {
		if s == b.code {
			return b.name
		}
	}
	lower := strings.ToLower(s)
	for _, b := range banks {
		if strings.EqualFold(s, b.name) {
			return b.name
		}
	}
	for _, b := range banks {
		for _, kw := range b.keywords {
			if strings.Contains(lower, kw) {
				return b.name
			}
		}
	}
	return UnknownBank
}
