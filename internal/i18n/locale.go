package i18n

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/talentalb/internal/kvstore"
	"github.com/jonathan/talentalb/internal/logging"
)

// StorageKey is where the chosen locale is persisted.
const StorageKey = "talentalb:locale"

// localeEnvVars are consulted in POSIX precedence order; the first one set decides.
var localeEnvVars = []string{"LC_ALL", "LC_MESSAGES", "LANG"}

// DetectLocale picks the initial locale: the stored preference when it names a
// supported locale, then the language of the environment, then DefaultLocale.
// getenv is usually os.Getenv.
func DetectLocale(ctx context.Context, store kvstore.Store, getenv func(string) string, logger *zap.Logger) Locale {
	logger = logging.OrNop(logger)

	if store != nil {
		raw, found, err := store.Get(ctx, StorageKey)
		switch {
		case err != nil:
			logger.Warn("failed to read stored locale", zap.Error(err))
		case found:
			if l, err := ParseLocale(strings.Trim(string(raw), "\" \n")); err == nil {
				return l
			}
			logger.Warn("ignoring unsupported stored locale", zap.ByteString("value", raw))
		}
	}

	if getenv != nil {
		for _, name := range localeEnvVars {
			v := getenv(name)
			if v == "" {
				continue
			}
			if l, ok := fromLanguageTag(v); ok {
				return l
			}
			break
		}
	}
	return DefaultLocale
}

func fromLanguageTag(tag string) (Locale, bool) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	switch {
	case tag == "":
		return "", false
	case strings.HasPrefix(tag, "sq"):
		return Albanian, true
	case strings.HasPrefix(tag, "en"):
		return English, true
	case strings.HasPrefix(tag, "it"):
		return Italian, true
	default:
		return "", false
	}
}

// SaveLocale persists l as the preferred locale.
func SaveLocale(ctx context.Context, store kvstore.Store, l Locale) error {
	return store.Set(ctx, StorageKey, []byte(l))
}
