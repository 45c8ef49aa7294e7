// Package stack classifies a repository's technology stack from its entry paths.
package stack

import (
	"path"
	"strings"
)

// Rule maps a path predicate to the labels it contributes.
type Rule struct {
	Name   string
	Labels []string
	Match  func(p string) bool
}

// DefaultRules is the ordered rule set used by Detect. Output order follows
// declaration order, so new rules go at the end.
var DefaultRules = []Rule{
	{Name: "npm", Labels: []string{"JavaScript", "Node.js"}, Match: Contains("package.json")},
	{Name: "typescript", Labels: []string{"TypeScript"}, Match: HasSuffix(".ts", ".tsx")},
	{Name: "python", Labels: []string{"Python"}, Match: Either(Contains("requirements.txt"), HasSuffix(".py"))},
	{Name: "java", Labels: []string{"Java"}, Match: HasSuffix(".java")},
	{Name: "csharp", Labels: []string{"C#"}, Match: HasSuffix(".cs")},
	{Name: "docker", Labels: []string{"Docker"}, Match: Contains("Dockerfile")},
	{Name: "go", Labels: []string{"Go"}, Match: Either(Contains("go.mod"), HasSuffix(".go"))},
	{Name: "rust", Labels: []string{"Rust"}, Match: Either(Contains("Cargo.toml"), HasSuffix(".rs"))},
}

// Contains matches paths containing any of the markers (case-sensitive).
func Contains(markers ...string) func(string) bool {
	return func(p string) bool {
		for _, m := range markers {
			if strings.Contains(p, m) {
				return true
			}
		}
		return false
	}
}

// HasSuffix matches paths ending in any of the extensions.
func HasSuffix(exts ...string) func(string) bool {
	return func(p string) bool {
		for _, ext := range exts {
			if strings.HasSuffix(p, ext) {
				return true
			}
		}
		return false
	}
}

// Either matches when a or b matches.
func Either(a, b func(string) bool) func(string) bool {
	return func(p string) bool {
		return a(p) || b(p)
	}
}

// Detect applies DefaultRules to paths.
func Detect(paths []string) []string {
	return DetectWith(DefaultRules, paths)
}

// DetectWith applies rules in order. Every rule matching at least one path
// contributes its labels; the result is deduplicated keeping first-seen order.
// It never returns nil.
func DetectWith(rules []Rule, paths []string) []string {
	labels := []string{}
	seen := make(map[string]bool)

	for _, rule := range rules {
		if !anyMatch(rule.Match, paths) {
			continue
		}
		for _, label := range rule.Labels {
			if seen[label] {
				continue
			}
			seen[label] = true
			labels = append(labels, label)
		}
	}

	return labels
}

func anyMatch(match func(string) bool, paths []string) bool {
	for _, p := range paths {
		if match(p) {
			return true
		}
	}
	return false
}

var languageByExt = map[string]string{
	"ts":   "typescript",
	"tsx":  "typescript",
	"js":   "javascript",
	"jsx":  "javascript",
	"css":  "css",
	"json": "json",
	"md":   "markdown",
	"html": "html",
	"py":   "python",
	"go":   "go",
	"rs":   "rust",
	"java": "java",
	"cs":   "csharp",
}

// FileLanguage returns the syntax badge for a file path, "text" when unknown.
func FileLanguage(p string) string {
	if lang, ok := languageByExt[Ext(p)]; ok {
		return lang
	}
	return "text"
}

// Ext returns the lowercase extension of p without the dot.
func Ext(p string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
}
