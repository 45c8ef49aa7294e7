// Package cli provides the command-line interface with injectable io.Writer for testing.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Uday9909/ExplainMyRepo/internal/analysis"
	"github.com/Uday9909/ExplainMyRepo/internal/archive"
	"github.com/Uday9909/ExplainMyRepo/internal/compare"
	"github.com/Uday9909/ExplainMyRepo/internal/config"
	"github.com/Uday9909/ExplainMyRepo/internal/ingest"
	"github.com/Uday9909/ExplainMyRepo/internal/logging"
	"github.com/Uday9909/ExplainMyRepo/internal/session"
	"github.com/Uday9909/ExplainMyRepo/internal/stack"
	"github.com/Uday9909/ExplainMyRepo/internal/tree"
)

// ConfigService provides configuration operations for the CLI.
type ConfigService interface {
	Load() (*config.Config, error)
	Save(cfg *config.Config) error
	ConfigPath() (string, error)
	DefaultConfig() (*config.Config, error)
}

// IngestService analyzes archives for the CLI. Archive and Content refer to
// the most recent successful Analyze.
type IngestService interface {
	Analyze(ctx context.Context, source string) (*analysis.Result, error)
	Archive() *archive.Archive
	Content(path string) (string, error)
}

// CLI represents the command-line interface with injectable dependencies.
type CLI struct {
	Out     io.Writer // Standard output
	Err     io.Writer // Standard error
	Version string    // Application version
	Args    []string  // Command arguments (like os.Args)

	// Exit function for testability (defaults to os.Exit)
	Exit func(code int)

	// Injectable dependencies (nil means use defaults)
	ConfigSvc ConfigService
	IngestSvc IngestService

	// Color functions (can be disabled for testing)
	green  func(a ...interface{}) string
	yellow func(a ...interface{}) string
	cyan   func(a ...interface{}) string
	gray   func(a ...interface{}) string
	red    func(a ...interface{}) string
}

// New creates a new CLI with default settings.
func New(version string) *CLI {
	return &CLI{
		Out:     os.Stdout,
		Err:     os.Stderr,
		Version: version,
		Args:    os.Args,
		Exit:    os.Exit,
		green:   color.New(color.FgGreen, color.Bold).SprintFunc(),
		yellow:  color.New(color.FgYellow).SprintFunc(),
		cyan:    color.New(color.FgCyan).SprintFunc(),
		gray:    color.New(color.FgHiBlack).SprintFunc(),
		red:     color.New(color.FgRed).SprintFunc(),
	}
}

// NewForTesting creates a CLI configured for testing (no colors, captured output).
func NewForTesting(out, errOut io.Writer, args []string) *CLI {
	noColor := func(a ...interface{}) string { return fmt.Sprint(a...) }
	return &CLI{
		Out:     out,
		Err:     errOut,
		Version: "test",
		Args:    args,
		Exit:    func(code int) {},
		green:   noColor,
		yellow:  noColor,
		cyan:    noColor,
		gray:    noColor,
		red:     noColor,
	}
}

// defaultConfigService wraps the config package functions.
type defaultConfigService struct{}

func (d *defaultConfigService) Load() (*config.Config, error)          { return config.Load() }
func (d *defaultConfigService) Save(cfg *config.Config) error          { return cfg.Save() }
func (d *defaultConfigService) ConfigPath() (string, error)            { return config.ConfigPath() }
func (d *defaultConfigService) DefaultConfig() (*config.Config, error) { return config.DefaultConfig() }

// defaultIngestService pairs an ingest.Service with the store it publishes to.
// closer releases the log file, if logging goes to one.
type defaultIngestService struct {
	svc    *ingest.Service
	state  *session.Store
	closer io.Closer
}

// Close releases the logger output. Calling it again is a no-op.
func (d *defaultIngestService) Close() error {
	if d.closer == nil {
		return nil
	}
	err := d.closer.Close()
	d.closer = nil
	return err
}

func (d *defaultIngestService) Analyze(ctx context.Context, source string) (*analysis.Result, error) {
	return d.svc.Analyze(ctx, source)
}
func (d *defaultIngestService) Archive() *archive.Archive           { return d.state.Archive() }
func (d *defaultIngestService) Content(path string) (string, error) { return d.state.Content(path) }

// Helper methods to get the service or default
func (c *CLI) configSvc() ConfigService {
	if c.ConfigSvc != nil {
		return c.ConfigSvc
	}
	return &defaultConfigService{}
}

func (c *CLI) ingestSvc() (IngestService, error) {
	if c.IngestSvc != nil {
		return c.IngestSvc, nil
	}

	cfg, err := c.configSvc().Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	log, closer := logging.New(cfg.Logging)

	state := session.New()
	svc, err := ingest.NewFromConfig(cfg, state, nil, log)
	if err != nil {
		closer.Close()
		return nil, err
	}
	c.IngestSvc = &defaultIngestService{svc: svc, state: state, closer: closer}
	return c.IngestSvc, nil
}

// closeIngest releases resources held by the ingest service, if it has any.
func (c *CLI) closeIngest() {
	if closer, ok := c.IngestSvc.(io.Closer); ok {
		closer.Close()
	}
}

// Run executes the CLI with the configured arguments.
func (c *CLI) Run() {
	// Commands exit from inside their handlers, so close on the way out
	exit := c.Exit
	c.Exit = func(code int) {
		c.closeIngest()
		exit(code)
	}
	defer func() { c.Exit = exit }()

	root := c.rootCmd()
	if len(c.Args) > 1 {
		root.SetArgs(c.Args[1:])
	} else {
		root.SetArgs([]string{})
	}

	err := root.ExecuteContext(context.Background())
	c.closeIngest()
	if err != nil {
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		fmt.Fprintln(c.Err, "Use 'explainmyrepo help' for usage.")
		c.Exit(1)
	}
}

func (c *CLI) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "explainmyrepo",
		Short: "Explain a repository from its zip archive or GitHub URL",
		Long: `explainmyrepo - Repository Explainer

Run without a command (or with 'ui') to launch the interactive TUI.
Sources are a local .zip archive or a public GitHub repository URL.

Config: ~/.explainmyrepo/config.yaml`,
		Version:       c.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("explainmyrepo v{{.Version}}\n")
	root.SetOut(c.Out)
	root.SetErr(c.Err)

	var asJSON bool
	analyzeCmd := &cobra.Command{
		Use:   "analyze <zip|url>",
		Short: "Summarize a repository's tech stack and structure",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			c.Analyze(cmd.Context(), args[0], asJSON)
		},
	}
	analyzeCmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	var filter string
	treeCmd := &cobra.Command{
		Use:   "tree <zip|url>",
		Short: "Print the repository's file tree",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			c.Tree(cmd.Context(), args[0], filter)
		},
	}
	treeCmd.Flags().StringVarP(&filter, "filter", "f", "", "fuzzy-match file paths instead of printing the tree")

	showCmd := &cobra.Command{
		Use:   "show <zip|url> <path>",
		Short: "Print one file from the repository",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			c.Show(cmd.Context(), args[0], args[1])
		},
	}

	diffCmd := &cobra.Command{
		Use:   "diff <a.zip|url> <b.zip|url> [path]",
		Short: "Compare two archives, or one file across them",
		Args:  cobra.RangeArgs(2, 3),
		Run: func(cmd *cobra.Command, args []string) {
			path := ""
			if len(args) == 3 {
				path = args[2]
			}
			c.Diff(cmd.Context(), args[0], args[1], path)
		},
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			c.InitConfig()
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(c.Out, "explainmyrepo v%s\n", c.Version)
		},
	}

	root.AddCommand(analyzeCmd, treeCmd, showCmd, diffCmd, initCmd, versionCmd)
	return root
}

// fail prints the user-facing notice for an ingestion error and exits.
func (c *CLI) fail(err error) {
	n := ingest.Describe(err)
	fmt.Fprintf(c.Err, "%s %s: %s\n", c.red("x"), n.Title, n.Description)
	fmt.Fprintf(c.Err, "  %s\n", c.gray(err.Error()))
	c.Exit(1)
}

// analyze runs the ingest step shared by every archive command.
func (c *CLI) analyze(ctx context.Context, source string) (IngestService, *analysis.Result, bool) {
	svc, err := c.ingestSvc()
	if err != nil {
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		c.Exit(1)
		return nil, nil, false
	}
	result, err := svc.Analyze(ctx, source)
	if err != nil {
		c.fail(err)
		return nil, nil, false
	}
	return svc, result, true
}

// Analyze prints the analysis of source.
func (c *CLI) Analyze(ctx context.Context, source string, asJSON bool) {
	if !asJSON {
		fmt.Fprintf(c.Out, "%s Analyzing %s...\n", c.cyan("=>"), strings.TrimSpace(source))
	}

	_, result, ok := c.analyze(ctx, source)
	if !ok {
		return
	}

	if asJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fmt.Fprintf(c.Err, "Error: %v\n", err)
			c.Exit(1)
			return
		}
		fmt.Fprintln(c.Out, string(data))
		return
	}

	c.printResult(result)
	fmt.Fprintln(c.Out)
	fmt.Fprintf(c.Out, "%s %s\n", c.green("*"), ingest.Success(source, result).Description)
}

func (c *CLI) printResult(r *analysis.Result) {
	fmt.Fprintln(c.Out)
	fmt.Fprintf(c.Out, "Project: %s\n", c.cyan(r.ProjectName))

	badges := make([]string, len(r.TechStack))
	for i, label := range r.TechStack {
		badges[i] = c.yellow("[" + label + "]")
	}
	if len(badges) == 0 {
		badges = append(badges, c.gray("(none detected)"))
	}
	fmt.Fprintf(c.Out, "Stack:   %s\n", strings.Join(badges, " "))

	fmt.Fprintln(c.Out)
	fmt.Fprintln(c.Out, "Overview")
	fmt.Fprintf(c.Out, "  %s\n", r.Report.Overview)

	fmt.Fprintln(c.Out)
	fmt.Fprintln(c.Out, "Structure")
	for _, name := range r.Report.TopLevel {
		fmt.Fprintf(c.Out, "  %s\n", name)
	}
	if len(r.Report.KeyFiles) > 0 {
		fmt.Fprintln(c.Out)
		fmt.Fprintln(c.Out, "Key files")
		for _, kf := range r.Report.KeyFiles {
			fmt.Fprintf(c.Out, "  %-32s %s\n", kf.Path, c.gray(kf.Description))
		}
	}

	fmt.Fprintln(c.Out)
	fmt.Fprintln(c.Out, "Suggestions")
	for _, s := range r.Report.Suggestions {
		fmt.Fprintf(c.Out, "  - %s\n", s)
	}
}

// Tree prints the file tree of source, or the files matching filter.
func (c *CLI) Tree(ctx context.Context, source, filter string) {
	svc, _, ok := c.analyze(ctx, source)
	if !ok {
		return
	}

	root := tree.Build(svc.Archive().Entries())
	if filter != "" {
		matches := tree.Filter(tree.Files(root), filter)
		if len(matches) == 0 {
			fmt.Fprintf(c.Out, "No files match %q\n", filter)
			return
		}
		for _, p := range matches {
			fmt.Fprintln(c.Out, p)
		}
		return
	}

	if err := tree.Render(c.Out, root); err != nil {
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		c.Exit(1)
	}
}

// Show prints one file of source. A header with the file's language and
// description goes to stderr so stdout stays pipeable.
func (c *CLI) Show(ctx context.Context, source, path string) {
	svc, _, ok := c.analyze(ctx, source)
	if !ok {
		return
	}

	content, err := svc.Content(path)
	switch {
	case errors.Is(err, archive.ErrEntryNotFound):
		fmt.Fprintf(c.Err, "File not found: %s\n", path)
		c.Exit(1)
		return
	case errors.Is(err, archive.ErrIsDirectory):
		fmt.Fprintf(c.Err, "%s is a directory; use 'explainmyrepo tree'\n", path)
		c.Exit(1)
		return
	case errors.Is(err, session.ErrBinaryContent):
		fmt.Fprintf(c.Err, "%s is a binary file and cannot be shown\n", path)
		c.Exit(1)
		return
	case err != nil:
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		c.Exit(1)
		return
	}

	fmt.Fprintf(c.Err, "%s %s %s\n", c.cyan(path), c.yellow("["+stack.FileLanguage(path)+"]"), c.gray(analysis.DescribeFile(path)))
	fmt.Fprint(c.Out, content)
	if content != "" && !strings.HasSuffix(content, "\n") {
		fmt.Fprintln(c.Out)
	}
}

// Diff compares two sources, or one file across them when path is set.
func (c *CLI) Diff(ctx context.Context, source1, source2, path string) {
	svc, r1, ok := c.analyze(ctx, source1)
	if !ok {
		return
	}
	a := svc.Archive()

	svc, r2, ok := c.analyze(ctx, source2)
	if !ok {
		return
	}
	b := svc.Archive()

	result := compare.ComputeDiff(a, b, r1.ProjectName, r2.ProjectName)

	if path != "" {
		c.printFileDiff(a, b, result, path)
		return
	}

	if len(result.Changes) == 0 {
		fmt.Fprintf(c.Out, "No differences between %s and %s\n", result.Name1, result.Name2)
		return
	}

	fmt.Fprintf(c.Out, "Comparing %s -> %s\n\n", c.cyan(result.Name1), c.cyan(result.Name2))
	for _, ch := range result.Changes {
		switch ch.Status {
		case 'M':
			fmt.Fprintf(c.Out, "  %s %s %s\n", c.yellow("M"), ch.Path,
				c.gray(tree.FormatSize(ch.Size1)+" -> "+tree.FormatSize(ch.Size2)))
		case 'A':
			fmt.Fprintf(c.Out, "  %s %s %s\n", c.green("A"), ch.Path, c.gray(tree.FormatSize(ch.Size2)))
		case 'D':
			fmt.Fprintf(c.Out, "  %s %s %s\n", c.red("D"), ch.Path, c.gray(tree.FormatSize(ch.Size1)))
		}
	}
	fmt.Fprintln(c.Out)
	fmt.Fprintf(c.Out, "%d modified, %d added, %d deleted\n", result.Modified, result.Added, result.Deleted)
}

func (c *CLI) printFileDiff(a, b *archive.Archive, result *compare.DiffResult, path string) {
	var status rune
	for _, ch := range result.Changes {
		if ch.Path == path {
			status = ch.Status
			break
		}
	}
	if status == 0 {
		fmt.Fprintf(c.Out, "No changes in %s\n", path)
		return
	}

	fd := compare.ComputeFileDiff(a, b, path, status)
	switch {
	case fd.Error != "":
		fmt.Fprintln(c.Err, fd.Error)
		c.Exit(1)
		return
	case fd.IsBinary:
		fmt.Fprintf(c.Out, "Binary file %s differs\n", path)
		return
	}

	fmt.Fprintf(c.Out, "--- %s/%s\n+++ %s/%s\n", result.Name1, path, result.Name2, path)
	for _, line := range fd.Lines {
		text := string(line.Type) + line.Content
		switch line.Type {
		case '+':
			text = c.green(text)
		case '-':
			text = c.red(text)
		}
		fmt.Fprintln(c.Out, text)
	}
}

// InitConfig creates the default config file.
func (c *CLI) InitConfig() {
	svc := c.configSvc()
	cfg, err := svc.DefaultConfig()
	if err != nil {
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		c.Exit(1)
		return
	}
	if err := svc.Save(cfg); err != nil {
		fmt.Fprintf(c.Err, "Error saving config: %v\n", err)
		c.Exit(1)
		return
	}
	path, err := svc.ConfigPath()
	if err != nil {
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		c.Exit(1)
		return
	}
	fmt.Fprintf(c.Out, "Created config at %s\n", path)
}
