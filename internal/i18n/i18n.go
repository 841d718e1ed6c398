// Package i18n holds the process-wide locale registry. The store decides
// which languages exist; this package decides which locale is active for
// presentation, so session state and database translations stay in step.
package i18n

import (
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/text/language"
)

// Registry tracks the supported locales, the default locale, and the
// currently active one.
type Registry struct {
	mu          sync.RWMutex
	supported   []language.Tag
	byLocale    map[string]language.Tag
	matcher     language.Matcher
	defaultTag  language.Tag
	activeTag   language.Tag
	logger      *slog.Logger
	initialized bool
}

var registry = &Registry{byLocale: make(map[string]language.Tag)}

// Init configures the registry with the supported locales, typically the
// locale column of every language row, plus a default.
func Init(logger *slog.Logger, locales []string, defaultLocale string) error {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	registry.logger = logger
	registry.supported = nil
	registry.byLocale = make(map[string]language.Tag, len(locales))

	for _, locale := range locales {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("parsing locale %q: %w", locale, err)
		}
		registry.supported = append(registry.supported, tag)
		registry.byLocale[locale] = tag
	}

	if len(registry.supported) == 0 {
		// Matching needs at least one pivot tag even before any language
		// rows exist.
		registry.supported = []language.Tag{language.AmericanEnglish}
		registry.byLocale["en-US"] = language.AmericanEnglish
	}

	registry.matcher = language.NewMatcher(registry.supported)

	defaultTag, err := language.Parse(defaultLocale)
	if err != nil {
		return fmt.Errorf("parsing default locale %q: %w", defaultLocale, err)
	}
	registry.defaultTag = defaultTag
	registry.activeTag = defaultTag
	registry.initialized = true

	if logger != nil {
		logger.Info("i18n initialized", "locales", len(locales), "default", defaultLocale)
	}
	return nil
}

// Register adds one locale to the supported set, used when a language is
// created at runtime.
func Register(locale string) error {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("parsing locale %q: %w", locale, err)
	}
	if _, ok := registry.byLocale[locale]; ok {
		return nil
	}
	registry.supported = append(registry.supported, tag)
	registry.byLocale[locale] = tag
	registry.matcher = language.NewMatcher(registry.supported)
	return nil
}

// Activate marks a supported locale as the active one.
func Activate(locale string) error {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	if !registry.initialized {
		return fmt.Errorf("i18n registry not initialized")
	}
	tag, ok := registry.byLocale[locale]
	if !ok {
		return fmt.Errorf("locale %q is not supported", locale)
	}
	registry.activeTag = tag

	if registry.logger != nil {
		registry.logger.Debug("locale activated", "locale", locale)
	}
	return nil
}

// Active returns the currently active locale.
func Active() string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return registry.activeTag.String()
}

// Default returns the default locale.
func Default() string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return registry.defaultTag.String()
}

// IsSupported reports whether a locale is registered.
func IsSupported(locale string) bool {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	_, ok := registry.byLocale[locale]
	return ok
}

// Match finds the best supported locale for an Accept-Language header or a
// bare language code, falling back to the default locale.
func Match(acceptLang string) string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	if !registry.initialized || acceptLang == "" {
		return registry.defaultTag.String()
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		tag, perr := language.Parse(acceptLang)
		if perr != nil {
			return registry.defaultTag.String()
		}
		tags = []language.Tag{tag}
	}

	_, idx, conf := registry.matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(registry.supported) {
		return registry.defaultTag.String()
	}
	return registry.supported[idx].String()
}
