package analysis

import (
	"path"
	"strings"

	"github.com/Uday9909/ExplainMyRepo/internal/archive"
	"github.com/Uday9909/ExplainMyRepo/internal/stack"
)

// DescribeFile returns a short templated description of a file based on its
// name and extension.
func DescribeFile(p string) string {
	switch path.Base(p) {
	case "package.json":
		return "npm manifest declaring the project's dependencies and scripts."
	case "requirements.txt":
		return "Python dependency list installed with pip."
	case "go.mod":
		return "Go module definition and dependency requirements."
	case "Cargo.toml":
		return "Rust crate manifest and dependency list."
	case "pom.xml":
		return "Maven build definition for the Java project."
	case "Dockerfile":
		return "Container image build instructions."
	}

	switch stack.Ext(p) {
	case "tsx", "jsx":
		return "This is a React component written in TypeScript/JavaScript. It likely contains JSX elements and may use React hooks for state management and side effects."
	case "ts", "js":
		return "This is a TypeScript/JavaScript file that may contain utility functions, type definitions, or business logic."
	case "css":
		return "This is a CSS file containing styles and layout definitions for the application."
	case "json":
		return "This is a JSON configuration file containing structured data or configuration settings."
	case "md":
		return "This is a Markdown file, likely containing documentation or README information."
	case "py":
		return "This is a Python module that may define functions, classes, or a script entry point."
	}

	return "This file contains code or configuration that contributes to the overall functionality of the project."
}

// suggest returns improvement suggestions derived from the stack and file layout.
func suggest(techStack []string, entries []archive.Entry) []string {
	var hasReadme, hasTests, hasDocker, hasLicense, hasCI bool
	for _, e := range entries {
		p := e.Path
		base := path.Base(p)
		lower := strings.ToLower(p)

		if !e.IsDir && strings.HasPrefix(strings.ToUpper(base), "README") {
			hasReadme = true
		}
		if strings.HasPrefix(strings.ToUpper(base), "LICENSE") || strings.HasPrefix(strings.ToUpper(base), "LICENCE") {
			hasLicense = true
		}
		if strings.Contains(base, "Dockerfile") {
			hasDocker = true
		}
		if strings.Contains(p, ".github/workflows/") || strings.HasSuffix(p, ".gitlab-ci.yml") {
			hasCI = true
		}
		if isTestPath(lower) {
			hasTests = true
		}
	}

	has := func(label string) bool {
		for _, t := range techStack {
			if t == label {
				return true
			}
		}
		return false
	}

	var out []string
	if !hasReadme {
		out = append(out, "Add a README describing the project's purpose and how to run it")
	}
	if !hasTests {
		out = append(out, "Add unit tests for core modules and components")
	}
	if has("JavaScript") && !has("TypeScript") {
		out = append(out, "Consider adopting TypeScript for better type safety")
	}
	if !hasDocker {
		out = append(out, "Add a Dockerfile for reproducible builds and deployment")
	}
	if !hasLicense {
		out = append(out, "Add a LICENSE file to clarify usage terms")
	}
	if !hasCI {
		out = append(out, "Set up continuous integration to run builds and tests automatically")
	}
	if len(out) == 0 {
		out = append(out, "No obvious improvements detected")
	}
	return out
}

func isTestPath(lower string) bool {
	base := path.Base(lower)
	return strings.Contains(lower, "/test/") ||
		strings.Contains(lower, "/tests/") ||
		strings.Contains(lower, "__tests__/") ||
		strings.HasPrefix(lower, "test/") ||
		strings.HasPrefix(lower, "tests/") ||
		strings.HasSuffix(base, "_test.go") ||
		strings.HasPrefix(base, "test_") ||
		strings.Contains(base, ".test.") ||
		strings.Contains(base, ".spec.")
}
