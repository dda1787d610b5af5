package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/talentalb/internal/i18n"
	"github.com/jonathan/talentalb/internal/ledger"
	"github.com/jonathan/talentalb/internal/types"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Record an application to a job post in the local ledger",
	Long:  "Record an application to a job post. Applications are kept in the local store only; nothing is sent to the backend.",
	Args:  cobra.NoArgs,
	RunE:  runApply,
}

var applicationsCmd = &cobra.Command{
	Use:   "applications",
	Short: "Inspect the local application ledger",
}

var applicationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded applications, newest first",
	Args:  cobra.NoArgs,
	RunE:  runApplicationsList,
}

var applicationsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every recorded application",
	Args:  cobra.NoArgs,
	RunE:  runApplicationsClear,
}

var (
	applyJobID     string
	applyJobTitle  string
	applyName      string
	applyEmail     string
	applyPhone     string
	applyResumeURL string
	applyMessage   string

	applicationsJSON bool
	clearConfirmed   bool
)

func init() {
	f := applyCmd.Flags()
	f.StringVar(&applyJobID, "job-id", "", "ID of the job post (required)")
	f.StringVar(&applyJobTitle, "job-title", "", "Title of the job post (default: the ID)")
	f.StringVar(&applyName, "name", "", "Your full name (required)")
	f.StringVar(&applyEmail, "email", "", "Your email (required)")
	f.StringVar(&applyPhone, "phone", "", "Phone number")
	f.StringVar(&applyResumeURL, "resume-url", "", "Link to your resume")
	f.StringVar(&applyMessage, "message", "", "Message to the company")
	_ = applyCmd.MarkFlagRequired("job-id")

	applicationsListCmd.Flags().BoolVar(&applicationsJSON, "json", false, "Print the ledger as JSON")
	applicationsClearCmd.Flags().BoolVar(&clearConfirmed, "yes", false, "Confirm the deletion")

	applicationsCmd.AddCommand(applicationsListCmd, applicationsClearCmd)
	rootCmd.AddCommand(applyCmd, applicationsCmd)
}

func runApply(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	job := types.JobPosting{ID: strings.TrimSpace(applyJobID), Title: strings.TrimSpace(applyJobTitle)}
	if job.Title == "" {
		job.Title = job.ID
	}

	l := ledger.New(cmd.Context(), a.store, ledger.Options{Logger: a.logger})
	rec, err := l.Submit(cmd.Context(), job, types.ApplicationForm{
		Name:      applyName,
		Email:     applyEmail,
		Phone:     applyPhone,
		ResumeURL: applyResumeURL,
		Message:   applyMessage,
	})
	if err != nil {
		var verr *ledger.ValidationError
		if errors.As(err, &verr) && (verr.Field == "candidateName" || verr.Field == "email") {
			return errors.New(a.tr.T("jobBoard.errors.applicationRequired", nil))
		}
		return err
	}

	a.println("jobBoard.feedback.applicationSuccess", i18n.Replacements{"title": rec.JobTitle})
	return nil
}

func runApplicationsList(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	apps := ledger.New(cmd.Context(), a.store, ledger.Options{Logger: a.logger}).List()
	if applicationsJSON {
		return writeJSON(a.out, apps)
	}
	a.printer.PrintApplications(apps)
	return nil
}

func runApplicationsClear(cmd *cobra.Command, _ []string) error {
	if !clearConfirmed {
		return fmt.Errorf("refusing to delete the ledger without --yes")
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := ledger.New(cmd.Context(), a.store, ledger.Options{Logger: a.logger}).Clear(cmd.Context())
	if err != nil {
		return err
	}
	a.println("jobBoard.feedback.applicationsCleared", i18n.Replacements{"count": n})
	return nil
}
