// internal/i18n/i18n.go
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
)

const DefaultLanguage = "en"

//go:embed locales/*.json
var localeFS embed.FS

type I18n struct {
	mu           sync.RWMutex
	translations map[string]map[string]string
	defaultLang  string
}

var (
	instance *I18n
	once     sync.Once
	initErr  error
)

// Initialize loads the embedded locales. Safe to call more than once.
func Initialize() error {
	once.Do(func() {
		i := &I18n{
			translations: make(map[string]map[string]string),
			defaultLang:  DefaultLanguage,
		}
		if initErr = i.LoadTranslations(localeFS, "locales"); initErr == nil {
			instance = i
		}
	})
	return initErr
}

// LoadTranslations reads every "<lang>.json" file under dir.
func (i *I18n) LoadTranslations(fsys fs.FS, dir string) error {
	files, err := fs.Glob(fsys, path.Join(dir, "*.json"))
	if err != nil {
		return err
	}

	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return fmt.Errorf("failed to read locale file %s: %w", file, err)
		}

		var translations map[string]string
		if err := json.Unmarshal(data, &translations); err != nil {
			return fmt.Errorf("failed to unmarshal locale file %s: %w", file, err)
		}

		lang := strings.TrimSuffix(path.Base(file), ".json")
		i.mu.Lock()
		i.translations[lang] = translations
		i.mu.Unlock()
	}

	return nil
}

// Lookup returns the translation of key, falling back to the default
// language. ok is false when neither has it.
func (i *I18n) Lookup(lang, key string, args ...interface{}) (string, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	text, ok := i.translations[lang][key]
	if !ok && lang != i.defaultLang {
		text, ok = i.translations[i.defaultLang][key]
	}
	if !ok {
		return "", false
	}
	if len(args) > 0 {
		return fmt.Sprintf(text, args...), true
	}
	return text, true
}

func (i *I18n) T(lang, key string, args ...interface{}) string {
	if text, ok := i.Lookup(lang, key, args...); ok {
		return text
	}
	// Return key if no translation found
	return key
}

// Global functions
func T(lang, key string, args ...interface{}) string {
	if instance != nil {
		return instance.T(lang, key, args...)
	}
	return key
}

func Lookup(lang, key string, args ...interface{}) (string, bool) {
	if instance != nil {
		return instance.Lookup(lang, key, args...)
	}
	return "", false
}

func GetSupportedLanguages() []string {
	if instance == nil {
		return []string{DefaultLanguage}
	}

	instance.mu.RLock()
	defer instance.mu.RUnlock()

	langs := make([]string, 0, len(instance.translations))
	for lang := range instance.translations {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
