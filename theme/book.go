package theme

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"flyer-builder/logger"
	"flyer-builder/models"
)

// BookConfig is the JSON layout of a theme book file
type BookConfig struct {
	Default json.RawMessage `json:"default"`
	Rules   []Rule          `json:"rules"`
}

// Rule selects a theme for every group key containing one of Match (case-insensitive).
// Theme holds only the fields that differ from the default theme.
type Rule struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Active   bool            `json:"active"`
	Priority int             `json:"priority"`
	Match    []string        `json:"match"`
	Theme    json.RawMessage `json:"theme"`
}

type compiledRule struct {
	rule  Rule
	theme models.Theme
}

// Book resolves group keys to themes. It is immutable after construction.
type Book struct {
	defaultTheme models.Theme
	rules        []compiledRule
}

// NewBook loads a theme book from a JSON file. An empty path yields the built-in default.
func NewBook(configPath string) (*Book, error) {
	if strings.TrimSpace(configPath) == "" {
		return DefaultBook(), nil
	}

	if !filepath.IsAbs(configPath) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		configPath = filepath.Join(wd, configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme book: %w", err)
	}

	book, err := ParseBook(data)
	if err != nil {
		return nil, err
	}

	logger.GetLogger().Info("✅ ThemeBook: loaded theme rules",
		zap.Int("rules", len(book.rules)),
		zap.String("path", configPath),
	)
	return book, nil
}

// ParseBook builds a Book from JSON bytes
func ParseBook(data []byte) (*Book, error) {
	var config BookConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse theme book: %w", err)
	}

	base, err := mergeTheme(DefaultTheme(), config.Default)
	if err != nil {
		return nil, fmt.Errorf("invalid default theme: %w", err)
	}
	if err := Resolve(&base); err != nil {
		return nil, fmt.Errorf("invalid default theme: %w", err)
	}

	book := &Book{defaultTheme: base}
	for _, rule := range config.Rules {
		if !rule.Active {
			continue
		}
		if err := validateRule(rule); err != nil {
			return nil, fmt.Errorf("invalid theme rule %q: %w", rule.ID, err)
		}
		th, err := mergeTheme(base, rule.Theme)
		if err != nil {
			return nil, fmt.Errorf("invalid theme rule %q: %w", rule.ID, err)
		}
		if th.Name == base.Name {
			th.Name = rule.ID
		}
		if err := Resolve(&th); err != nil {
			return nil, fmt.Errorf("invalid theme rule %q: %w", rule.ID, err)
		}
		book.rules = append(book.rules, compiledRule{rule: rule, theme: th})
	}

	// Highest priority first; ties keep file order
	sort.SliceStable(book.rules, func(i, j int) bool {
		return book.rules[i].rule.Priority > book.rules[j].rule.Priority
	})

	return book, nil
}

// DefaultBook returns a book with only the built-in theme
func DefaultBook() *Book {
	th := DefaultTheme()
	if err := Resolve(&th); err != nil {
		panic(fmt.Sprintf("built-in theme is invalid: %v", err))
	}
	return &Book{defaultTheme: th}
}

// Lookup returns the theme for a group key. Pure: the same key always yields the same theme.
func (b *Book) Lookup(groupKey string) models.Theme {
	key := strings.ToLower(groupKey)
	for _, r := range b.rules {
		for _, m := range r.rule.Match {
			if m = strings.ToLower(strings.TrimSpace(m)); m != "" && strings.Contains(key, m) {
				return cloneTheme(r.theme)
			}
		}
	}
	return cloneTheme(b.defaultTheme)
}

// Default returns the fallback theme
func (b *Book) Default() models.Theme {
	return cloneTheme(b.defaultTheme)
}

func validateRule(rule Rule) error {
	if rule.ID == "" {
		return fmt.Errorf("id is required")
	}
	if len(rule.Match) == 0 {
		return fmt.Errorf("match is required")
	}
	return nil
}

// mergeTheme overlays the JSON fields of patch onto base
func mergeTheme(base models.Theme, patch json.RawMessage) (models.Theme, error) {
	if len(patch) == 0 || string(patch) == "null" {
		return cloneTheme(base), nil
	}

	baseJSON, err := json.Marshal(base)
	if err != nil {
		return models.Theme{}, err
	}
	var baseMap map[string]any
	if err := json.Unmarshal(baseJSON, &baseMap); err != nil {
		return models.Theme{}, err
	}
	var patchMap map[string]any
	if err := json.Unmarshal(patch, &patchMap); err != nil {
		return models.Theme{}, err
	}

	merged, err := json.Marshal(deepMerge(baseMap, patchMap))
	if err != nil {
		return models.Theme{}, err
	}
	var out models.Theme
	if err := json.Unmarshal(merged, &out); err != nil {
		return models.Theme{}, err
	}
	return out, nil
}

func deepMerge(dst, src map[string]any) map[string]any {
	for k, v := range src {
		srcMap, srcIsMap := v.(map[string]any)
		dstMap, dstIsMap := dst[k].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[k] = deepMerge(dstMap, srcMap)
			continue
		}
		dst[k] = v
	}
	return dst
}

func cloneTheme(th models.Theme) models.Theme {
	fonts := make(map[string]models.FontSpec, len(th.Fonts))
	for k, v := range th.Fonts {
		fonts[k] = v
	}
	th.Fonts = fonts
	return th
}
