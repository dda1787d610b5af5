package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/talentalb/internal/i18n"
	"github.com/jonathan/talentalb/internal/session"
	"github.com/jonathan/talentalb/internal/types"
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a candidate or company account",
}

var signupCandidateCmd = &cobra.Command{
	Use:   "candidate",
	Short: "Create a candidate account and sign in",
	Args:  cobra.NoArgs,
	RunE:  runSignupCandidate,
}

var signupCompanyCmd = &cobra.Command{
	Use:   "company",
	Short: "Create a company account and sign in",
	Args:  cobra.NoArgs,
	RunE:  runSignupCompany,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the signed-in account",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

var (
	authEmail       string
	authPassword    string
	authFirstName   string
	authLastName    string
	authCompanyName string
	authWebsite     string
	authCity        string
)

func init() {
	for _, c := range []*cobra.Command{signupCandidateCmd, signupCompanyCmd, loginCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "Account email (required)")
		c.Flags().StringVar(&authPassword, "password", "", "Account password (required)")
		_ = c.MarkFlagRequired("email")
		_ = c.MarkFlagRequired("password")
	}
	for _, c := range []*cobra.Command{signupCandidateCmd, signupCompanyCmd} {
		c.Flags().StringVar(&authCity, "city", "", "City")
	}
	signupCandidateCmd.Flags().StringVar(&authFirstName, "first-name", "", "First name (required)")
	signupCandidateCmd.Flags().StringVar(&authLastName, "last-name", "", "Last name (required)")
	signupCompanyCmd.Flags().StringVar(&authCompanyName, "company-name", "", "Company name (required)")
	signupCompanyCmd.Flags().StringVar(&authWebsite, "website", "", "Company website")

	signupCmd.AddCommand(signupCandidateCmd, signupCompanyCmd)
	rootCmd.AddCommand(signupCmd, loginCmd, logoutCmd, whoamiCmd)
}

// signIn calls the backend and stores the returned account as the session.
func signIn(cmd *cobra.Command, successKey string, call func(ctx context.Context, a *app) (*types.Account, error)) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	acct, err := call(cmd.Context(), a)
	if err != nil {
		a.logger.Warn("authentication failed", zap.Error(err))
		return fmt.Errorf("%s: %w", a.tr.T("auth.signup.errorTitle", nil), err)
	}
	if err := session.New(a.store, a.logger).Save(cmd.Context(), acct); err != nil {
		return err
	}

	a.println(successKey, nil)
	a.printer.PrintAccount(acct)
	return nil
}

func runSignupCandidate(cmd *cobra.Command, _ []string) error {
	return signIn(cmd, "auth.signup.candidateSuccessTitle", func(ctx context.Context, a *app) (*types.Account, error) {
		return a.client.SignupCandidate(ctx, &types.CandidateSignupRequest{
			Email:     authEmail,
			Password:  authPassword,
			FirstName: authFirstName,
			LastName:  authLastName,
			City:      types.OptionalString(authCity),
		})
	})
}

func runSignupCompany(cmd *cobra.Command, _ []string) error {
	return signIn(cmd, "auth.signup.companySuccessTitle", func(ctx context.Context, a *app) (*types.Account, error) {
		return a.client.SignupCompany(ctx, &types.CompanySignupRequest{
			Email:       authEmail,
			Password:    authPassword,
			CompanyName: authCompanyName,
			Website:     types.OptionalString(authWebsite),
			City:        types.OptionalString(authCity),
		})
	})
}

func runLogin(cmd *cobra.Command, _ []string) error {
	return signIn(cmd, "auth.login.successTitle", func(ctx context.Context, a *app) (*types.Account, error) {
		return a.client.Login(ctx, &types.LoginRequest{Email: authEmail, Password: authPassword})
	})
}

func runLogout(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := session.New(a.store, a.logger).Clear(cmd.Context()); err != nil {
		return err
	}
	a.println("session.loggedOut", nil)
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	acct, ok := session.New(a.store, a.logger).Load(cmd.Context())
	if !ok {
		a.printer.PrintAccount(nil)
		return nil
	}

	switch {
	case acct.HasRole(types.RoleEmployer):
		a.println("companyDashboard.greeting", i18n.Replacements{"email": acct.Email})
	case acct.HasRole(types.RoleCandidate):
		a.println("candidateDashboard.greeting", i18n.Replacements{"email": acct.Email})
	}
	a.printer.PrintAccount(acct)
	return nil
}
