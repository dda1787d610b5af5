package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/talentalb/internal/i18n"
)

var localeCmd = &cobra.Command{
	Use:   "locale",
	Short: "Show the UI language",
	Args:  cobra.NoArgs,
	RunE:  runLocale,
}

var localeSetCmd = &cobra.Command{
	Use:       "set <it|en|sq>",
	Short:     "Store the preferred UI language",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"it", "en", "sq"},
	RunE:      runLocaleSet,
}

var translateCmd = &cobra.Command{
	Use:   "translate <key> [name=value ...]",
	Short: "Resolve a message key in the current language",
	Long:  "Resolve a dotted message key, e.g. jobBoard.list.page, substituting {name} placeholders. Unknown keys print unchanged.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTranslate,
}

func init() {
	localeCmd.AddCommand(localeSetCmd)
	rootCmd.AddCommand(localeCmd, translateCmd)
}

func languageName(tr *i18n.Translator, l i18n.Locale) string {
	return tr.T("common.language.options."+string(l), nil)
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func runLocale(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	current := a.tr.Locale()
	a.println("common.language.current", i18n.Replacements{"language": languageName(a.tr, current)})
	for _, l := range i18n.Locales {
		marker := " "
		if l == current {
			marker = "*"
		}
		fmt.Fprintf(a.out, "%s %s  %s\n", marker, l, languageName(a.tr, l))
	}
	return nil
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func runLocaleSet(cmd *cobra.Command, args []string) error {
	l, err := i18n.ParseLocale(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := i18n.SaveLocale(cmd.Context(), a.store, l); err != nil {
		return fmt.Errorf("failed to save locale: %w", err)
	}
	tr := i18n.NewTranslator(i18n.MustLoadCatalog(), l)
	fmt.Fprintln(a.out, tr.T("common.language.changed", i18n.Replacements{"language": languageName(tr, l)}))
	return nil
}

// parseReplacements turns name=value arguments into replacements. Integer
// values are passed as numbers.
func parseReplacements(args []string) (i18n.Replacements, error) {
	repl := make(i18n.Replacements, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid replacement %q (want name=value)", arg)
		}
		if n, err := strconv.Atoi(value); err == nil {
			repl[name] = n
			continue
		}
		repl[name] = value
	}
	return repl, nil
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func runTranslate(cmd *cobra.Command, args []string) error {
	repl, err := parseReplacements(args[1:])
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Fprintln(a.out, a.tr.T(args[0], repl))
	return nil
}
