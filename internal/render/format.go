// Package render turns postings, pages and applications into the text the CLI
// prints, in the language of a Translator.
package render

import (
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jonathan/talentalb/internal/i18n"
	"github.com/jonathan/talentalb/internal/types"
)

// DefaultCurrency is assumed when a posting names none.
const DefaultCurrency = "EUR"

var currencySymbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
	"CHF": "CHF",
	"ALL": "L",
}

var dateLayouts = map[i18n.Locale]string{
	i18n.Italian:  "02/01/2006",
	i18n.English:  "Jan 2, 2006",
	i18n.Albanian: "02.01.2006",
}

// Formatter formats values for one locale.
type Formatter struct {
	tr      *i18n.Translator
	locale  i18n.Locale
	numbers *message.Printer
	now     func() time.Time
}

// NewFormatter returns a formatter for the locale of tr. A nil tr formats in
// the default locale.
func NewFormatter(tr *i18n.Translator) *Formatter {
	if tr == nil {
		tr = i18n.NewTranslator(i18n.MustLoadCatalog(), i18n.DefaultLocale)
	}
	tag, err := language.Parse(i18n.TagsFor(tr.Locale()).Number)
	if err != nil {
		tag = language.Italian
	}
	return &Formatter{
		tr:      tr,
		locale:  tr.Locale(),
		numbers: message.NewPrinter(tag),
		now:     time.Now,
	}
}

// WithClock returns a copy of f whose relative times are measured from now().
func (f *Formatter) WithClock(now func() time.Time) *Formatter {
	c := *f
	c.now = now
	return &c
}

// Translator returns the translator f formats with.
func (f *Formatter) Translator() *i18n.Translator {
	return f.tr
}

// Money formats an amount with no fractional digits, e.g. "1.200 €" in Italian
// and "€1,200" in English.
func (f *Formatter) Money(v float64, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		code = DefaultCurrency
	}
	symbol, ok := currencySymbols[code]
	if !ok {
		symbol = code
	}
	n := f.numbers.Sprintf("%d", int64(math.Round(v)))
	if f.locale == i18n.English {
		if utf8.RuneCountInString(symbol) > 1 {
			return symbol + " " + n
		}
		return symbol + n
	}
	return n + " " + symbol
}

// Salary formats the salary range of p. Hidden salaries show the reserved
// label whatever the amounts.
func (f *Formatter) Salary(p *types.JobPosting) string {
	if !p.IsSalaryVisible() {
		return f.tr.T("jobBoard.jobCard.salaryHidden", nil)
	}
	currency := ""
	if p.Currency != nil {
		currency = *p.Currency
	}
	switch {
	case p.SalaryMin != nil && p.SalaryMax != nil:
		return f.tr.T("jobBoard.jobCard.salary.between", i18n.Replacements{
			"min": f.Money(float64(*p.SalaryMin), currency),
			"max": f.Money(float64(*p.SalaryMax), currency),
		})
	case p.SalaryMin != nil:
		return f.tr.T("jobBoard.jobCard.salary.from", i18n.Replacements{"value": f.Money(float64(*p.SalaryMin), currency)})
	case p.SalaryMax != nil:
		return f.tr.T("jobBoard.jobCard.salary.to", i18n.Replacements{"value": f.Money(float64(*p.SalaryMax), currency)})
	default:
		return f.tr.T("jobBoard.jobCard.salary.unspecified", nil)
	}
}

// Location joins city, region and country code. Without any of them it falls
// back to the work mode, then to the "not indicated" label.
func (f *Formatter) Location(p *types.JobPosting) string {
	var parts []string
	for _, s := range []*string{p.City, p.Region, p.CountryCode} {
		if s != nil && strings.TrimSpace(*s) != "" {
			parts = append(parts, strings.TrimSpace(*s))
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, ", ")
	}
	if p.WorkMode != nil && *p.WorkMode != "" {
		return BeautifyEnum(string(*p.WorkMode))
	}
	return f.tr.T("jobBoard.jobCard.locationFallback", nil)
}

// RelativeTime describes t relative to the formatter's clock, e.g. "3 giorni fa".
func (f *Formatter) RelativeTime(t time.Time) string {
	diff := t.Sub(f.now())
	abs := diff
	if abs < 0 {
		abs = -abs
	}
	if abs < time.Minute {
		return f.tr.T("time.justNow", nil)
	}

	const day = 24 * time.Hour
	var unit string
	var n float64
	switch {
	case abs < time.Hour:
		unit, n = "minutes", abs.Minutes()
	case abs < day:
		unit, n = "hours", abs.Hours()
	case abs < 30*day:
		unit, n = "days", abs.Hours()/24
	case abs < 365*day:
		unit, n = "months", abs.Hours()/(24*30)
	default:
		unit, n = "years", abs.Hours()/(24*365)
	}

	direction := "past"
	if diff > 0 {
		direction = "future"
	}
	return f.tr.T("time."+direction+"."+unit, i18n.Replacements{"n": int64(math.Round(n))})
}

// Date formats t as a calendar date in the formatter's locale.
func (f *Formatter) Date(t time.Time) string {
	layout, ok := dateLayouts[f.locale]
	if !ok {
		layout = dateLayouts[i18n.DefaultLocale]
	}
	return t.Local().Format(layout)
}

// FilterSummary describes the committed filters, e.g.
// `chiave: "go" · città: "Tirana"`. Empty filters give "".
func (f *Formatter) FilterSummary(fs types.FilterSet) string {
	fs = fs.Normalize()
	var parts []string
	if fs.Q != "" {
		parts = append(parts, f.tr.T("jobBoard.filters.summaryKeyword", i18n.Replacements{"value": fs.Q}))
	}
	if fs.City != "" {
		parts = append(parts, f.tr.T("jobBoard.filters.summaryCity", i18n.Replacements{"value": fs.City}))
	}
	if fs.Country != "" {
		parts = append(parts, f.tr.T("jobBoard.filters.summaryCountry", i18n.Replacements{"value": fs.Country}))
	}
	return strings.Join(parts, " · ")
}

// BeautifyEnum turns FULL_TIME into "Full Time".
func BeautifyEnum(value string) string {
	chunks := strings.Split(strings.ToLower(value), "_")
	for i, c := range chunks {
		if c == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(c)
		chunks[i] = strings.ToUpper(string(r)) + c[size:]
	}
	return strings.Join(chunks, " ")
}

// Truncate shortens value to at most maxLen runes, ending with an ellipsis when
// anything was cut.
func Truncate(value string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(value) <= maxLen {
		return value
	}
	runes := []rune(value)
	return string(runes[:maxLen-1]) + "…"
}

var (
	requirementSep    = regexp.MustCompile(`\r?\n|•|-|;`)
	requirementPrefix = regexp.MustCompile(`^[-•\s]+`)
)

// ExtractRequirements splits free-text requirements into bullet items on line
// breaks, bullets, dashes and semicolons.
func ExtractRequirements(value string) []string {
	var out []string
	for _, part := range requirementSep.Split(value, -1) {
		part = strings.TrimSpace(requirementPrefix.ReplaceAllString(part, ""))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
