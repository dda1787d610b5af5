package render

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/talentalb/internal/i18n"
	"github.com/jonathan/talentalb/internal/jobboard"
	"github.com/jonathan/talentalb/internal/types"
)

const (
	// boxWidth is the width of a posting card
	boxWidth = 72
	// descriptionLength caps the description shown on a card
	descriptionLength = 260
	// maxRequirements is the number of requirement bullets shown on a card
	maxRequirements = 3
)

// Printer writes cards and lists for the terminal.
type Printer struct {
	out io.Writer
	f   *Formatter
}

// NewPrinter creates a Printer that writes to out using f.
func NewPrinter(out io.Writer, f *Formatter) *Printer {
	if f == nil {
		f = NewFormatter(nil)
	}
	return &Printer{out: out, f: f}
}

func (p *Printer) t(key string, repl i18n.Replacements) string {
	return p.f.tr.T(key, repl)
}

// printBox prints a framed box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", inner, Truncate(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, wrapped := range wrap(line, inner) {
			fmt.Fprintf(p.out, "│ %-*s │\n", inner, wrapped)
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// wrap breaks line into chunks of at most width runes at spaces.
func wrap(line string, width int) []string {
	if utf8.RuneCountInString(line) <= width {
		return []string{line}
	}
	var out []string
	var cur strings.Builder
	curLen := 0
	for _, word := range strings.Fields(line) {
		wl := utf8.RuneCountInString(word)
		if wl > width {
			word = Truncate(word, width)
			wl = width
		}
		if curLen > 0 && curLen+1+wl > width {
			out = append(out, cur.String())
			cur.Reset()
			curLen = 0
		}
		if curLen > 0 {
			cur.WriteByte(' ')
			curLen++
		}
		cur.WriteString(word)
		curLen += wl
	}
	if curLen > 0 {
		out = append(out, cur.String())
	}
	return out
}

// PrintJob outputs one posting card.
func (p *Printer) PrintJob(job *types.JobPosting) {
	if job == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(p.f.Location(job) + "\n")

	var badges []string
	if job.WorkMode != nil {
		badges = append(badges, BeautifyEnum(string(*job.WorkMode)))
	}
	if job.Seniority != nil {
		badges = append(badges, BeautifyEnum(string(*job.Seniority)))
	}
	if job.EmploymentType != nil {
		badges = append(badges, BeautifyEnum(string(*job.EmploymentType)))
	}
	if len(badges) > 0 {
		sb.WriteString("[" + strings.Join(badges, "] [") + "]\n")
	}

	if desc, err := PlainText(job.Description); err == nil && desc != "" {
		sb.WriteString("\n" + Truncate(strings.ReplaceAll(desc, "\n", " "), descriptionLength) + "\n")
	}

	if job.Requirements != nil {
		reqs := ExtractRequirements(*job.Requirements)
		if len(reqs) > maxRequirements {
			reqs = reqs[:maxRequirements]
		}
		if len(reqs) > 0 {
			sb.WriteString("\n" + p.t("jobBoard.jobCard.requirementsTitle", nil) + ":\n")
			for _, r := range reqs {
				sb.WriteString("  • " + r + "\n")
			}
		}
	}

	sb.WriteString("\n" + p.f.Salary(job) + "\n")
	if at, ok := job.PublishedAt.Value(); ok {
		sb.WriteString(p.t("jobBoard.jobCard.publishedAt", i18n.Replacements{"relativeTime": p.f.RelativeTime(at)}) + "\n")
	}
	if at, ok := job.ExpiresAt.Value(); ok {
		sb.WriteString(p.t("jobBoard.jobCard.expiresAt", i18n.Replacements{"relativeTime": p.f.RelativeTime(at)}) + "\n")
	}
	sb.WriteString("ID: " + job.ID)

	p.printBox(job.Title, sb.String())
}

// PrintListing outputs the refined page with its filter summary, the empty
// states and the "showing X of Y" footer.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintListing(l jobboard.Listing, filters types.FilterSet) {
	if summary := p.f.FilterSummary(filters); summary != "" {
		fmt.Fprintln(p.out, p.t("jobBoard.filters.active", i18n.Replacements{"summary": summary}))
	}

	switch {
	case l.EmptyFromBackend:
		fmt.Fprintln(p.out, p.t("jobBoard.emptyState.title", nil))
		fmt.Fprintln(p.out, p.t("jobBoard.emptyState.description", nil))
		return
	case l.EmptyAfterRefinement:
		fmt.Fprintln(p.out, p.t("jobBoard.emptyState.refined", nil))
	}

	for i := range l.Items {
		p.PrintJob(&l.Items[i])
	}

	fmt.Fprintln(p.out, p.t("jobBoard.list.showing", i18n.Replacements{"current": l.Shown, "total": l.Total}))
	if l.TotalPages > 0 {
		fmt.Fprintln(p.out, p.t("jobBoard.list.page", i18n.Replacements{"page": l.Page + 1, "total": l.TotalPages}))
	}
}

// PrintApplications outputs the ledger, newest first.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintApplications(apps []types.JobApplication) {
	fmt.Fprintln(p.out, p.t("jobBoard.applications.title", nil))
	if len(apps) == 0 {
		fmt.Fprintln(p.out, p.t("jobBoard.applications.empty", i18n.Replacements{"cta": p.t("common.actions.submitApplication", nil)}))
		return
	}
	for _, a := range apps {
		fmt.Fprintf(p.out, "\n• %s\n", a.JobTitle)
		fmt.Fprintf(p.out, "  %s <%s>\n", a.Name, a.Email)
		if a.Phone != nil {
			fmt.Fprintf(p.out, "  %s: %s\n", p.t("jobBoard.applications.phoneLabel", nil), *a.Phone)
		}
		if a.ResumeURL != nil {
			fmt.Fprintf(p.out, "  %s: %s\n", p.t("jobBoard.applications.resumeLabel", nil), *a.ResumeURL)
		}
		if a.Message != nil {
			fmt.Fprintf(p.out, "  %s\n", Truncate(*a.Message, descriptionLength))
		}
		fmt.Fprintf(p.out, "  %s\n", p.t("jobBoard.applications.submittedAt", i18n.Replacements{"date": p.f.Date(a.CreatedAt)}))
	}
}

// PrintAccount outputs the signed-in account, or the guest line for nil.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintAccount(acct *types.Account) {
	if acct == nil {
		fmt.Fprintln(p.out, p.t("session.guest", nil))
		return
	}
	fmt.Fprintln(p.out, acct.Email)
	roles := p.t("common.info.none", nil)
	if len(acct.Roles) > 0 {
		roles = strings.Join(acct.Roles, ", ")
	}
	fmt.Fprintln(p.out, p.t("session.roles", i18n.Replacements{"roles": roles}))
	if id := acct.CompanyID(); id != "" {
		fmt.Fprintln(p.out, p.t("session.company", i18n.Replacements{"id": id}))
	}
}

// PrintFields outputs name/value pairs aligned on the names, in the given order.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintFields(names []string, value func(string) string) {
	width := 0
	for _, n := range names {
		width = max(width, len(n))
	}
	for _, n := range names {
		fmt.Fprintf(p.out, "%-*s  %s\n", width, n, value(n))
	}
}
