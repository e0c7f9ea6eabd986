// Package category suggests a spending category from a receiver name and
// maps category hints from CSV exports.
package category

import (
	"strings"

	"github.com/aqlanhadi/slipscan/extractor/common"
)

type Category string

const (
	Food          Category = "food"
	Transport     Category = "transport"
	Accommodation Category = "accommodation"
	Entertainment Category = "entertainment"
	Shopping      Category = "shopping"
	Health        Category = "health"
	Necessary     Category = "necessary"
	Gift          Category = "gift"
	Investment    Category = "investment"
	Tax           Category = "tax"
	Education     Category = "education"
	Travel        Category = "travel"
	Insurance     Category = "insurance"
	Bills         Category = "bills"
	Family        Category = "family"
	Salary        Category = "salary"
	Other         Category = "other"
)

type group struct {
	category Category
	keywords []string
}

// Groups are tested in order; the first keyword hit wins. "grab" is in both
// food and transport and resolves to food.
var groups = []group{
	{Food, []string{
		"ร้านอาหาร", "food", "restaurant", "เซเว่น", "7-eleven", "แม็คโดนัลด์",
		"kfc", "pizza", "starbucks", "true coffee", "amazon", "foodpanda",
		"grab", "lineman",
	}},
	{Shopping, []string{
		"mall", "ห้าง", "โลตัส", "big c", "tops", "makro", "lazada", "shopee",
		"central", "siam", "terminal",
	}},
	{Transport, []string{
		"grab", "taxi", "แท็กซี่", "bts", "mrt", "รถไฟ", "ขสมก", "shell", "ptt",
		"bangchak", "esso",
	}},
	{Entertainment, []string{
		"cinema", "โรงหนัง", "netflix", "spotify", "youtube", "steam",
		"playstation", "xbox", "nintendo",
	}},
	{Health, []string{
		"โรงพยาบาล", "hospital", "คลินิก", "clinic", "pharmacy", "ร้านยา",
		"boots", "watson",
	}},
	{Bills, []string{
		"electricity", "การไฟฟ้า", "water", "ประปา", "internet", "true", "ais",
		"dtac", "nt", "กฟน", "กฟภ",
	}},
}

// Suggest returns the category for a receiver name. Matching is by
// case-insensitive substring.
func Suggest(receiver string) Category {
	name := strings.ToLower(receiver)
	for _, g := range groups {
		for _, kw := range g.keywords {
			if strings.Contains(name, kw) {
				return g.category
			}
		}
	}
	return Other
}

type hint struct {
	keywords []string
	category Category
}

var expenseHints = []hint{
	{[]string{"อาหาร"}, Food},
	{[]string{"เดินทาง", "รถ"}, Transport},
	{[]string{"ช้อปปิ้ง", "สินค้า"}, Shopping},
	{[]string{"บันเทิง"}, Entertainment},
	{[]string{"สุขภาพ", "ดูแลตัวเอง"}, Health},
	{[]string{"บ้าน", "สาธารณูปโภค"}, Accommodation},
	{[]string{"การศึกษา"}, Education},
	{[]string{"ท่องเที่ยว"}, Travel},
	{[]string{"ให้คนอื่น", "บริจาค"}, Gift},
	{[]string{"ออมเงิน", "ลงทุน"}, Investment},
	{[]string{"ของใช้จำเป็น"}, Necessary},
	{[]string{"ภาษี"}, Tax},
	{[]string{"ประกัน"}, Insurance},
	{[]string{"ครอบครัว"}, Family},
}

var incomeHints = []hint{
	{[]string{"เงินเดือน"}, Salary},
	{[]string{"ลงทุน", "ออมเงิน"}, Investment},
	{[]string{"ให้คนอื่น", "บริจาค"}, Gift},
}

// FromHint maps a Thai category label from a CSV export to a category.
// English category names are accepted as-is.
func FromHint(label string, txType common.TxType) Category {
	label = strings.TrimSpace(label)
	if label == "" {
		return Other
	}
	if c, ok := parse(label, txType); ok {
		return c
	}

	hints := expenseHints
	if txType == common.Income {
		hints = incomeHints
	}
	for _, h := range hints {
		for _, kw := range h.keywords {
			if strings.Contains(label, kw) {
				return h.category
			}
		}
	}
	return Other
}

var incomeCategories = map[Category]bool{Salary: true, Investment: true, Gift: true, Other: true}

var expenseCategories = map[Category]bool{
	Food: true, Transport: true, Accommodation: true, Entertainment: true,
	Shopping: true, Health: true, Necessary: true, Gift: true, Investment: true,
	Tax: true, Education: true, Travel: true, Insurance: true, Bills: true,
	Family: true, Other: true,
}

func parse(label string, txType common.TxType) (Category, bool) {
	c := Category(strings.ToLower(label))
	if txType == common.Income {
		return c, incomeCategories[c]
	}
	return c, expenseCategories[c]
}
