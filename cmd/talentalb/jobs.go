package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/talentalb/internal/i18n"
	"github.com/jonathan/talentalb/internal/jobboard"
	"github.com/jonathan/talentalb/internal/session"
	"github.com/jonathan/talentalb/internal/types"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Browse, export and publish job posts",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show one page of published job posts",
	Long:  "Fetch one page of published job posts matching the search filters, refine it locally by work mode, seniority and employment type, and sort it.",
	Args:  cobra.NoArgs,
	RunE:  runJobsList,
}

var jobsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write published job posts as JSON or YAML",
	Args:  cobra.NoArgs,
	RunE:  runJobsExport,
}

var jobsPostCmd = &cobra.Command{
	Use:   "post",
	Short: "Publish a job post for a company",
	Long:  "Publish a job post. The company ID defaults to the one of the signed-in employer account.",
	Args:  cobra.NoArgs,
	RunE:  runJobsPost,
}

// searchOptions holds the server-side search flags of one command.
type searchOptions struct {
	query   string
	city    string
	country string
	page    int
}

func (o *searchOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.query, "q", "", "Keyword to search for")
	cmd.Flags().StringVar(&o.city, "city", "", "City filter")
	cmd.Flags().StringVar(&o.country, "country", "", "Country filter")
	cmd.Flags().IntVarP(&o.page, "page", "p", 1, "Page number, starting at 1")
}

func (o *searchOptions) filters() types.FilterSet {
	return types.FilterSet{Q: o.query, City: o.city, Country: o.country}
}

var (
	listSearch   searchOptions
	exportSearch searchOptions

	jobsWorkMode       string
	jobsSeniority      string
	jobsEmploymentType string
	jobsSort           string
	jobsJSON           bool

	exportAll      bool
	exportFormat   string
	exportOutput   string
	exportMaxPages int
	exportWorkers  int

	postCompanyID      string
	postTitle          string
	postDescription    string
	postRequirements   string
	postEmploymentType string
	postSeniority      string
	postWorkMode       string
	postCity           string
	postRegion         string
	postCountry        string
	postSalaryMin      string
	postSalaryMax      string
	postCurrency       string
	postSalaryVisible  bool
)

func init() {
	listSearch.bind(jobsListCmd)
	exportSearch.bind(jobsExportCmd)

	jobsListCmd.Flags().StringVar(&jobsWorkMode, "work-mode", "", "Keep only ONSITE, HYBRID or REMOTE posts")
	jobsListCmd.Flags().StringVar(&jobsSeniority, "seniority", "", "Keep only INTERN, JUNIOR, MID, SENIOR or LEAD posts")
	jobsListCmd.Flags().StringVar(&jobsEmploymentType, "employment-type", "", "Keep only FULL_TIME, PART_TIME, CONTRACT, INTERNSHIP or TEMPORARY posts")
	jobsListCmd.Flags().StringVar(&jobsSort, "sort", "", "Order: relevance, newest, salary-high or salary-low")
	jobsListCmd.Flags().BoolVar(&jobsJSON, "json", false, "Print the refined page as JSON")

	jobsExportCmd.Flags().BoolVar(&exportAll, "all", false, "Export every page instead of one")
	jobsExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Output format: json or yaml")
	jobsExportCmd.Flags().StringVarP(&exportOutput, "out", "o", "", "Output file (default: stdout)")
	jobsExportCmd.Flags().IntVar(&exportMaxPages, "max-pages", 0, "Stop after this many pages (0 = no limit)")
	jobsExportCmd.Flags().IntVar(&exportWorkers, "workers", jobboard.DefaultWalkConcurrency, "Pages fetched in parallel")

	f := jobsPostCmd.Flags()
	f.StringVar(&postCompanyID, "company-id", "", "Company ID (default: from the signed-in account)")
	f.StringVar(&postTitle, "title", "", "Job title")
	f.StringVar(&postDescription, "description", "", "Job description")
	f.StringVar(&postRequirements, "requirements", "", "Requirements, one per line or separated by ';'")
	f.StringVar(&postEmploymentType, "employment-type", "", "FULL_TIME, PART_TIME, CONTRACT, INTERNSHIP or TEMPORARY")
	f.StringVar(&postSeniority, "seniority", "", "INTERN, JUNIOR, MID, SENIOR or LEAD")
	f.StringVar(&postWorkMode, "work-mode", "", "ONSITE, HYBRID or REMOTE")
	f.StringVar(&postCity, "city", "", "City")
	f.StringVar(&postRegion, "region", "", "Region")
	f.StringVar(&postCountry, "country", "", "ISO country code")
	f.StringVar(&postSalaryMin, "salary-min", "", "Minimum salary (comma or dot decimals)")
	f.StringVar(&postSalaryMax, "salary-max", "", "Maximum salary (comma or dot decimals)")
	f.StringVar(&postCurrency, "currency", "", "ISO currency code")
	f.BoolVar(&postSalaryVisible, "salary-visible", false, "Show the salary on the job board")

	jobsCmd.AddCommand(jobsListCmd, jobsExportCmd, jobsPostCmd)
	rootCmd.AddCommand(jobsCmd)
}

func parseRefinement() (jobboard.Refinement, error) {
	var r jobboard.Refinement
	var err error
	if r.WorkMode, err = types.ParseWorkMode(jobsWorkMode); err != nil {
		return r, err
	}
	if r.Seniority, err = types.ParseSeniority(jobsSeniority); err != nil {
		return r, err
	}
	if r.EmploymentType, err = types.ParseEmploymentType(jobsEmploymentType); err != nil {
		return r, err
	}
	if r.Sort, err = jobboard.ParseSortMode(jobsSort); err != nil {
		return r, err
	}
	return r, nil
}

// openPage loads the page selected by the flags, turning a failed load into
// its user-facing message.
func openPage(cmd *cobra.Command, a *app, search *searchOptions) (jobboard.State, error) {
	board := jobboard.NewBoard(a.client, jobboard.BoardOptions{
		PageSize:   a.cfg.PageSize,
		Logger:     a.logger,
		Translator: a.tr,
	})
	defer board.Close()

	st := board.Open(cmd.Context(), search.filters(), search.page-1)
	if st.Err != "" {
		return st, errors.New(st.Err)
	}
	return st, nil
}

func runJobsList(cmd *cobra.Command, _ []string) error {
	refinement, err := parseRefinement()
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	st, err := openPage(cmd, a, &listSearch)
	if err != nil {
		return err
	}

	listing := jobboard.View(st.Result, refinement)
	if jobsJSON {
		return writeJSON(a.out, listing.Items)
	}
	a.printer.PrintListing(listing, st.Filters)
	return nil
}

func runJobsExport(cmd *cobra.Command, _ []string) error {
	format := strings.ToLower(exportFormat)
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unsupported format %q (want json or yaml)", exportFormat)
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var items []types.JobPosting
	if exportAll {
		items, err = jobboard.Walk(cmd.Context(), a.client, exportSearch.filters(), jobboard.WalkOptions{
			PageSize:    a.cfg.PageSize,
			Concurrency: exportWorkers,
			MaxPages:    exportMaxPages,
		})
		if err != nil {
			return err
		}
	} else {
		st, err := openPage(cmd, a, &exportSearch)
		if err != nil {
			return err
		}
		items = jobboard.View(st.Result, jobboard.Refinement{}).Items
	}

	out := a.out
	if exportOutput != "" {
		file, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	if format == "yaml" {
		err = writeYAML(out, items)
	} else {
		err = writeJSON(out, items)
	}
	if err != nil {
		return err
	}
	a.logger.Info("exported job posts", zap.Int("count", len(items)), zap.String("format", format))
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeYAML goes through JSON so the YAML keys match the backend field names.
func writeYAML(w io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("failed to decode JSON: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}

var jobPostValidationKeys = map[string]string{
	"CompanyID":   "companyJobs.validation.companyId",
	"Title":       "companyJobs.validation.title",
	"Description": "companyJobs.validation.description",
}

func buildJobPostRequest(companyID string) (*types.CreateJobPostRequest, error) {
	req := &types.CreateJobPostRequest{
		CompanyID:     strings.TrimSpace(companyID),
		Title:         strings.TrimSpace(postTitle),
		Description:   strings.TrimSpace(postDescription),
		Requirements:  types.OptionalString(postRequirements),
		City:          types.OptionalString(postCity),
		Region:        types.OptionalString(postRegion),
		CountryCode:   types.OptionalString(strings.ToUpper(postCountry)),
		Currency:      types.OptionalString(strings.ToUpper(postCurrency)),
		SalaryVisible: postSalaryVisible,
	}

	if et, err := types.ParseEmploymentType(postEmploymentType); err != nil {
		return nil, err
	} else if et != "" {
		req.EmploymentType = &et
	}
	if s, err := types.ParseSeniority(postSeniority); err != nil {
		return nil, err
	} else if s != "" {
		req.Seniority = &s
	}
	if wm, err := types.ParseWorkMode(postWorkMode); err != nil {
		return nil, err
	} else if wm != "" {
		req.WorkMode = &wm
	}

	for _, s := range []struct {
		flag string
		raw  string
		dst  **float64
	}{
		{"--salary-min", postSalaryMin, &req.SalaryMin},
		{"--salary-max", postSalaryMax, &req.SalaryMax},
	} {
		if strings.TrimSpace(s.raw) == "" {
			continue
		}
		v, ok := types.ParseDecimal(s.raw)
		if !ok {
			return nil, fmt.Errorf("%s: %q is not a number", s.flag, s.raw)
		}
		*s.dst = &v
	}
	return req, nil
}

func runJobsPost(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	companyID := postCompanyID
	if strings.TrimSpace(companyID) == "" {
		if acct, ok := session.New(a.store, a.logger).Load(cmd.Context()); ok {
			companyID = acct.CompanyID()
		}
	}

	req, err := buildJobPostRequest(companyID)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			if key, ok := jobPostValidationKeys[verrs[0].StructField()]; ok {
				return errors.New(a.tr.T(key, nil))
			}
		}
		return err
	}

	created, err := a.client.CreateJobPost(cmd.Context(), req)
	if err != nil {
		a.logger.Warn("failed to create job post", zap.Error(err))
		return fmt.Errorf("%s %w", a.tr.T("companyJobs.feedback.errorMessage", nil), err)
	}

	a.println("companyJobs.feedback.successTitle", nil)
	a.println("companyJobs.feedback.successMessage", i18n.Replacements{"id": created.ID})
	if created.Status != nil {
		a.println("companyJobs.feedback.status", i18n.Replacements{"status": *created.Status})
	}
	if at, ok := created.PublishedAt.Value(); ok {
		a.println("companyJobs.feedback.publishedAt", i18n.Replacements{"date": a.formatter.Date(at)})
	}
	return nil
}
