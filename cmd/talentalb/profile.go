package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/talentalb/internal/drafts"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Edit the local candidate or company profile draft",
}

var profileCandidateCmd = &cobra.Command{
	Use:   "candidate",
	Short: "Show or edit the candidate profile draft",
	Args:  cobra.NoArgs,
	RunE:  runProfileCandidate,
}

var profileCompanyCmd = &cobra.Command{
	Use:   "company",
	Short: "Show or edit the company profile draft",
	Args:  cobra.NoArgs,
	RunE:  runProfileCompany,
}

var (
	profileSets    []string
	profileDiscard bool
	profileJSON    bool
)

func init() {
	for _, c := range []*cobra.Command{profileCandidateCmd, profileCompanyCmd} {
		c.Flags().StringArrayVar(&profileSets, "set", nil, "Set a field, e.g. --set city=Tirana (repeatable)")
		c.Flags().BoolVar(&profileDiscard, "discard", false, "Delete both drafts")
		c.Flags().BoolVar(&profileJSON, "json", false, "Print the draft as JSON")
	}
	profileCmd.AddCommand(profileCandidateCmd, profileCompanyCmd)
	rootCmd.AddCommand(profileCmd)
}

// draft is the part of a profile draft the profile commands edit.
type draft interface {
	Set(field, value string) error
	Fields() []string
}

// applySets applies every --set assignment to d.
func applySets(d draft, sets []string) error {
	for _, s := range sets {
		field, value, ok := strings.Cut(s, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q (want field=value)", s)
		}
		if err := d.Set(strings.TrimSpace(field), value); err != nil {
			return err
		}
	}
	return nil
}

// fieldValues maps JSON field names to values through the draft's JSON form.
func fieldValues(d any) (map[string]string, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to encode draft: %w", err)
	}
	values := map[string]string{}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return values, nil
}

func showDraft(a *app, titleKey string, d draft) error {
	if profileJSON {
		return writeJSON(a.out, d)
	}
	values, err := fieldValues(d)
	if err != nil {
		return err
	}
	none := a.tr.T("common.info.none", nil)
	a.println(titleKey, nil)
	a.printer.PrintFields(d.Fields(), func(name string) string {
		if v := values[name]; v != "" {
			return v
		}
		return "(" + none + ")"
	})
	return nil
}

func runProfileCandidate(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	store := drafts.New(a.store, a.logger)
	if profileDiscard {
		return store.Discard(cmd.Context())
	}

	d := store.Candidate(cmd.Context())
	if len(profileSets) > 0 {
		if err := applySets(&d, profileSets); err != nil {
			return err
		}
		if err := store.SaveCandidate(cmd.Context(), d); err != nil {
			return err
		}
		a.println("candidateProfile.saveSuccess", nil)
	}
	return showDraft(a, "candidateProfile.title", &d)
}

func runProfileCompany(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	store := drafts.New(a.store, a.logger)
	if profileDiscard {
		return store.Discard(cmd.Context())
	}

	d := store.Company(cmd.Context())
	if len(profileSets) > 0 {
		if err := applySets(&d, profileSets); err != nil {
			return err
		}
		if err := store.SaveCompany(cmd.Context(), d); err != nil {
			return err
		}
		a.println("companyProfile.saveSuccess", nil)
	}
	return showDraft(a, "companyProfile.title", &d)
}
