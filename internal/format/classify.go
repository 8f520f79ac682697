package format

import (
	"regexp"
	"strings"

	"dompet/internal/core"
)

// Kind is the visual category token; it never affects stored data.
type Kind string

const (
	KindFood          Kind = "food"
	KindSubscription  Kind = "subscription"
	KindTransport     Kind = "transport"
	KindEntertainment Kind = "entertainment"
	KindShopping      Kind = "shopping"
	KindSalary        Kind = "salary"
	KindHealth        Kind = "health"
	KindEducation     Kind = "education"
	KindBill          Kind = "bill"
	KindGift          Kind = "gift"
	KindInvestment    Kind = "investment"
	KindIncome        Kind = "income"
	KindDefault       Kind = "default"
)

type kindRule struct {
	kind    Kind
	pattern *regexp.Regexp
}

// Order matters: the first matching rule wins.
var kindRules = []kindRule{
	{KindFood, regexp.MustCompile(`makan|food|drink|kuliner|resto|warung`)},
	{KindSubscription, regexp.MustCompile(`langgan|subscription|internet|domain|hosting|vps`)},
	{KindTransport, regexp.MustCompile(`transport|bensin|bbm|ojek|tol|parkir`)},
	{KindEntertainment, regexp.MustCompile(`hibur|entertain|game|film|music`)},
	{KindShopping, regexp.MustCompile(`belanja|shopping|market|store`)},
	{KindSalary, regexp.MustCompile(`gaji|salary|payroll|bonus`)},
	{KindHealth, regexp.MustCompile(`kesehatan|health|medis|obat`)},
	{KindEducation, regexp.MustCompile(`edukasi|education|kursus|sekolah`)},
	{KindBill, regexp.MustCompile(`tagihan|bill|listrik|air|pln`)},
	{KindGift, regexp.MustCompile(`kado|gift|donasi|charity`)},
	{KindInvestment, regexp.MustCompile(`invest|saham|crypto|reksa`)},
}

// CategoryKind classifies a category from its icon token and name.
func CategoryKind(icon, name string, t core.TxType) Kind {
	text := strings.ToLower(icon + " " + name)
	for _, r := range kindRules {
		if r.pattern.MatchString(text) {
			return r.kind
		}
	}
	if t == core.Income {
		return KindIncome
	}
	return KindDefault
}

var glyphs = map[Kind]string{
	KindFood:          "🍴",
	KindSubscription:  "🏷",
	KindTransport:     "🚗",
	KindEntertainment: "🎮",
	KindShopping:      "🛍",
	KindSalary:        "💵",
	KindHealth:        "♥",
	KindEducation:     "🎓",
	KindBill:          "🧾",
	KindGift:          "🎁",
	KindInvestment:    "📈",
	KindIncome:        "↑",
	KindDefault:       "🏷",
}

// Glyph is the terminal icon for a kind.
func Glyph(k Kind) string {
	if g, ok := glyphs[k]; ok {
		return g
	}
	return glyphs[KindDefault]
}
