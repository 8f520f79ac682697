package format

import (
	"testing"
	"time"

	"dompet/internal/core"
)

func TestRupiah(t *testing.T) {
	cases := map[int64]string{
		0:       "Rp 0",
		500:     "Rp 500",
		15000:   "Rp 15.000",
		1500000: "Rp 1.500.000",
	}
	for in, want := range cases {
		if got := Rupiah(in); got != want {
			t.Errorf("Rupiah(%d) = %q, want %q", in, got, want)
		}
	}
	if got := SignedRupiah(-2000, core.Expense); got != "−Rp 2.000" {
		t.Errorf("SignedRupiah expense = %q", got)
	}
	if got := SignedRupiah(2000, core.Income); got != "+Rp 2.000" {
		t.Errorf("SignedRupiah income = %q", got)
	}
}

func TestPercent(t *testing.T) {
	cases := map[float64]string{
		0:      "0%",
		25:     "25%",
		12.5:   "12,5%",
		33.333: "33,333%",
		7.05:   "7,05%",
		0.1234: "0,123%",
		1250.5: "1.250,5%",
	}
	for in, want := range cases {
		if got := Percent(in); got != want {
			t.Errorf("Percent(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestShortDate(t *testing.T) {
	cases := map[string]string{
		"2024-06-01":          "01/06/2024",
		"2024-06-01T10:00:00": "01/06/2024",
		"":                    "-",
		"not a date":          "-",
		"2024-02-30":          "-",
	}
	for in, want := range cases {
		if got := ShortDate(in); got != want {
			t.Errorf("ShortDate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDetailDateTime(t *testing.T) {
	tests := []struct {
		name  string
		date  string
		stamp string
		want  string
	}{
		{"date only", "2024-08-17", "", "17 Agu 2024"},
		{"naive stamp", "2024-08-17", "2024-08-17T09:05:00", "17 Agu 2024 ・ 09.05"},
		{"zoned stamp", "2024-05-02", "2024-05-02T23:15:00Z", "02 Mei 2024 ・ 23.15"},
		{"clock fallback", "2024-05-02", "kemarin 07:45", "02 Mei 2024 ・ 07.45"},
		{"unusable stamp", "2024-05-02", "kemarin", "02 Mei 2024"},
		{"bad date", "", "2024-05-02T23:15:00Z", "-"},
		{"bad month", "2024-13-02", "", "-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetailDateTime(tt.date, tt.stamp, time.UTC); got != tt.want {
				t.Errorf("DetailDateTime() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGroupAmountIdempotent(t *testing.T) {
	for _, in := range []string{"", "7", "15000", "15.000", "1.2.3", "abc123456"} {
		formatted := GroupAmount(in)
		if core.AmountDigits(GroupAmount(formatted)) != core.AmountDigits(in) {
			t.Errorf("GroupAmount(%q) changed digits: %q", in, formatted)
		}
	}
	if got := GroupAmount("1500000"); got != "1.500.000" {
		t.Errorf("GroupAmount = %q", got)
	}
}

func TestCategoryKind(t *testing.T) {
	tests := []struct {
		icon, name string
		typ        core.TxType
		want       Kind
	}{
		{"", "Makan Siang", core.Expense, KindFood},
		{"", "Kopi", core.Expense, KindDefault},
		{"", "Kopi", core.Income, KindIncome},
		{"", "Langganan Netflix", core.Expense, KindSubscription},
		{"🚗", "Bensin", core.Expense, KindTransport},
		{"", "Gaji", core.Income, KindSalary},
		{"", "Bonus", core.Expense, KindSalary},
		{"", "Tagihan Listrik", core.Expense, KindBill},
		{"", "Reksa Dana", core.Income, KindInvestment},
		// first rule wins: "food" beats "store"
		{"", "Food Store", core.Expense, KindFood},
		{"", "", core.Expense, KindDefault},
	}
	for _, tt := range tests {
		if got := CategoryKind(tt.icon, tt.name, tt.typ); got != tt.want {
			t.Errorf("CategoryKind(%q, %q, %s) = %s, want %s", tt.icon, tt.name, tt.typ, got, tt.want)
		}
	}
}

func TestRenderTransaction(t *testing.T) {
	tx := core.Transaction{
		ID:          9,
		Type:        core.Expense,
		Amount:      15000,
		Description: "",
		Category:    core.Category{ID: 3, Name: "Makan"},
		Date:        "2024-06-01T00:00:00",
	}
	v := RenderTransaction(tx)
	if v.Amount != "−Rp 15.000" || v.Date != "01/06/2024" || v.Description != "-" {
		t.Fatalf("unexpected view: %+v", v)
	}
	if v.CategoryName != "Makan" || v.CategoryKind != KindFood {
		t.Fatalf("unexpected category: %+v", v)
	}

	v = RenderTransaction(core.Transaction{Type: core.Income, Amount: 1})
	if v.CategoryName != "-" || v.CategoryKind != "" {
		t.Fatalf("missing category should render placeholder: %+v", v)
	}
}

func TestRenderDetail(t *testing.T) {
	d := RenderDetail(core.Transaction{
		ID:          4,
		Type:        core.Income,
		Amount:      50000,
		Description: "-",
		Category:    core.Category{Name: "Gaji"},
		Date:        "2024-01-31",
		UpdatedAt:   "2024-01-31 18:20:00",
	}, time.UTC)
	if d.TypeLabel != "Pemasukan" || d.Amount != "+Rp 50.000" || d.DateTime != "31 Jan 2024 ・ 18.20" {
		t.Fatalf("unexpected detail: %+v", d)
	}
}

func TestRenderBreakdown(t *testing.T) {
	rows := RenderBreakdown([]core.CategoryShare{
		{Name: "Makan", Percentage: 62.5},
		{Name: "Lain", Percentage: 37.5},
	}, core.Expense)
	if len(rows) != 2 || rows[0].Width != 62.5 || rows[0].Percent != "62,5%" || rows[1].Kind != KindDefault {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}
