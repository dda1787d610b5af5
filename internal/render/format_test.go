package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/talentalb/internal/i18n"
	"github.com/jonathan/talentalb/internal/types"
)

func formatterFor(l i18n.Locale) *Formatter {
	return NewFormatter(i18n.NewTranslator(i18n.MustLoadCatalog(), l))
}

func amount(v float64) *types.Amount {
	a := types.Amount(v)
	return &a
}

func ptr[T any](v T) *T { return &v }

func TestMoney(t *testing.T) {
	it := formatterFor(i18n.Italian)
	en := formatterFor(i18n.English)

	assert.Equal(t, "12.000 €", it.Money(12000, ""))
	assert.Equal(t, "12.000 €", it.Money(11999.6, "eur"))
	assert.Equal(t, "€12,000", en.Money(12000, "EUR"))
	assert.Equal(t, "$900", en.Money(900, "usd"))
	assert.Equal(t, "CHF 900", en.Money(900, "CHF"))
	assert.Equal(t, "900 SEK", it.Money(900, "SEK"))
}

func TestSalary(t *testing.T) {
	f := formatterFor(i18n.Italian)
	visible := ptr(true)

	tests := []struct {
		name string
		job  types.JobPosting
		want string
	}{
		{"range", types.JobPosting{SalaryVisible: visible, SalaryMin: amount(800), SalaryMax: amount(900)}, "800 € - 900 €"},
		{"min only", types.JobPosting{SalaryVisible: visible, SalaryMin: amount(800)}, "da 800 €"},
		{"max only", types.JobPosting{SalaryVisible: visible, SalaryMax: amount(900), Currency: ptr("usd")}, "fino a 900 $"},
		{"no amounts", types.JobPosting{SalaryVisible: visible}, "Retribuzione non specificata"},
		{"hidden", types.JobPosting{SalaryVisible: ptr(false), SalaryMin: amount(800)}, "Retribuzione riservata"},
		{"unset flag is hidden", types.JobPosting{SalaryMin: amount(800)}, "Retribuzione riservata"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Salary(&tt.job))
		})
	}
}

func TestLocation(t *testing.T) {
	f := formatterFor(i18n.English)
	remote := types.WorkModeRemote

	assert.Equal(t, "Tirana, Tirana County, AL",
		f.Location(&types.JobPosting{City: ptr("Tirana"), Region: ptr("Tirana County"), CountryCode: ptr("AL")}))
	assert.Equal(t, "Durrës, AL", f.Location(&types.JobPosting{City: ptr("Durrës"), Region: ptr(" "), CountryCode: ptr("AL")}))
	assert.Equal(t, "Remote", f.Location(&types.JobPosting{WorkMode: &remote}))
	assert.Equal(t, "Location not provided", f.Location(&types.JobPosting{}))
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
	f := formatterFor(i18n.Italian).WithClock(func() time.Time { return now })

	tests := []struct {
		at   time.Time
		want string
	}{
		{now.Add(-20 * time.Second), "adesso"},
		{now.Add(-15 * time.Minute), "15 min fa"},
		{now.Add(-3 * time.Hour), "3 ore fa"},
		{now.Add(-3 * 24 * time.Hour), "3 giorni fa"},
		{now.Add(-61 * 24 * time.Hour), "2 mesi fa"},
		{now.Add(-2 * 365 * 24 * time.Hour), "2 anni fa"},
		{now.Add(5 * 24 * time.Hour), "tra 5 giorni"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, f.RelativeTime(tt.at))
		})
	}
}

func TestFilterSummary(t *testing.T) {
	it := formatterFor(i18n.Italian)
	assert.Equal(t, `chiave: "go" · città: "Tirana" · paese: "AL"`,
		it.FilterSummary(types.FilterSet{Q: " go ", City: "Tirana", Country: "AL"}))
	assert.Equal(t, `città: "Tirana"`, it.FilterSummary(types.FilterSet{City: "Tirana"}))
	assert.Empty(t, it.FilterSummary(types.FilterSet{Q: "  "}))
}

func TestBeautifyEnum(t *testing.T) {
	assert.Equal(t, "Full Time", BeautifyEnum("FULL_TIME"))
	assert.Equal(t, "Remote", BeautifyEnum("REMOTE"))
	assert.Equal(t, "", BeautifyEnum(""))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exact", Truncate("exact", 5))
	assert.Equal(t, "abcd…", Truncate("abcdefgh", 5))
	assert.Equal(t, "città…", Truncate("cittàdina", 6))
	assert.Equal(t, "", Truncate("abc", 0))
}

func TestExtractRequirements(t *testing.T) {
	got := ExtractRequirements("- Go\n• PostgreSQL; Docker\r\n\n  - Kubernetes  ")
	assert.Equal(t, []string{"Go", "PostgreSQL", "Docker", "Kubernetes"}, got)
	assert.Empty(t, ExtractRequirements(""))
	assert.Empty(t, ExtractRequirements(" - ; • "))
}

func TestDate(t *testing.T) {
	at := time.Date(2026, 3, 9, 10, 0, 0, 0, time.Local)
	assert.Equal(t, "09/03/2026", formatterFor(i18n.Italian).Date(at))
	assert.Equal(t, "Mar 9, 2026", formatterFor(i18n.English).Date(at))
	assert.Equal(t, "09.03.2026", formatterFor(i18n.Albanian).Date(at))
}
