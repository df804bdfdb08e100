package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sift/internal/diag"
	"sift/internal/diagfmt"
	"sift/internal/driver"
	"sift/internal/engine"
	"sift/internal/engine/rx"
	"sift/internal/observ"
	"sift/internal/plugin"
	"sift/internal/project"
	"sift/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [file|directory]",
	Short: "Run pattern plugins against a file or directory",
	Long: `Run every configured pattern plugin against the given file, or against
all matching files under the given directory. Plugins come from --plugin
flags or the nearest sift.toml manifest.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json|sarif|short)")
	checkCmd.Flags().StringArray("plugin", nil, "plugin rule file (repeatable, overrides sift.toml)")
	checkCmd.Flags().String("lang", "", "target language (default from sift.toml, then \"text\")")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	checkCmd.Flags().String("ui", "auto", "progress UI for directory runs (auto|on|off)")
	checkCmd.Flags().Bool("no-cache", false, "disable the on-disk result cache")
	checkCmd.Flags().Bool("verbose", false, "include plugin log output in results")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().StringSlice("include", nil, "file extensions to check in directory runs (e.g. .js,.txt)")
}

type checkSettings struct {
	format         string
	pluginPaths    []string
	lang           engine.TargetLanguage
	jobs           int
	maxDiagnostics int
	include        []string
	ui             uiMode
	noCache        bool
	verbose        bool
	withNotes      bool
	fullPath       bool
	quiet          bool
	timings        bool
	useColor       bool
}

// resolveSettings merges command-line flags with the nearest manifest.
// Explicit flags always win over sift.toml values.
func resolveSettings(cmd *cobra.Command, startDir string) (checkSettings, error) {
	var s checkSettings
	var err error

	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	if s.format, err = flags.GetString("format"); err != nil {
		return s, err
	}
	if s.pluginPaths, err = flags.GetStringArray("plugin"); err != nil {
		return s, err
	}
	langFlag, err := flags.GetString("lang")
	if err != nil {
		return s, err
	}
	if s.jobs, err = flags.GetInt("jobs"); err != nil {
		return s, err
	}
	if s.include, err = flags.GetStringSlice("include"); err != nil {
		return s, err
	}
	uiFlag, err := flags.GetString("ui")
	if err != nil {
		return s, err
	}
	if s.ui, err = readUIMode(uiFlag); err != nil {
		return s, err
	}
	if s.noCache, err = flags.GetBool("no-cache"); err != nil {
		return s, err
	}
	if s.verbose, err = flags.GetBool("verbose"); err != nil {
		return s, err
	}
	if s.withNotes, err = flags.GetBool("with-notes"); err != nil {
		return s, err
	}
	if s.fullPath, err = flags.GetBool("fullpath"); err != nil {
		return s, err
	}
	if s.maxDiagnostics, err = root.GetInt("max-diagnostics"); err != nil {
		return s, err
	}
	if s.quiet, err = root.GetBool("quiet"); err != nil {
		return s, err
	}
	if s.timings, err = root.GetBool("timings"); err != nil {
		return s, err
	}
	colorFlag, err := root.GetString("color")
	if err != nil {
		return s, err
	}
	s.useColor = colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))

	manifest, hasManifest, err := project.Load(startDir)
	if err != nil {
		return s, err
	}
	if hasManifest {
		if len(s.pluginPaths) == 0 {
			s.pluginPaths = manifest.PluginPaths()
		}
		if langFlag == "" {
			langFlag = manifest.Config.Check.Language
		}
		if !flags.Changed("jobs") && manifest.Config.Check.Jobs > 0 {
			s.jobs = manifest.Config.Check.Jobs
		}
		if !root.Changed("max-diagnostics") && manifest.Config.Check.MaxDiagnostics > 0 {
			s.maxDiagnostics = manifest.Config.Check.MaxDiagnostics
		}
		if !flags.Changed("include") && len(manifest.Config.Check.Include) > 0 {
			s.include = manifest.Config.Check.Include
		}
	}

	if len(s.pluginPaths) == 0 {
		return s, fmt.Errorf("no plugins configured: pass --plugin or add [[plugin]] entries to %s", project.ManifestName)
	}
	if langFlag == "" {
		langFlag = string(engine.LangText)
	}
	s.lang = engine.TargetLanguage(langFlag)

	switch s.format {
	case "pretty", "json", "sarif", "short":
	default:
		return s, fmt.Errorf("unknown format: %s", s.format)
	}

	return s, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}

	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	startDir := target
	if !st.IsDir() {
		startDir = filepath.Dir(target)
	}

	settings, err := resolveSettings(cmd, startDir)
	if err != nil {
		return err
	}

	stopProfiling, err := profilingSession(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	timer := observ.NewTimer()

	loadPhase := timer.Begin("load plugins")
	eng := rx.New()
	set, err := driver.LoadPlugins(plugin.OSFS{}, eng, settings.pluginPaths, settings.lang)
	if err != nil {
		return err
	}
	timer.End(loadPhase, fmt.Sprintf("%d plugins", set.Len()))

	var cache *driver.ResultCache
	if !settings.noCache {
		cache, err = driver.OpenResultCache("sift")
		if err != nil {
			// A broken cache dir degrades to uncached checking.
			if !settings.quiet {
				fmt.Fprintf(os.Stderr, "warning: result cache unavailable: %v\n", err)
			}
			cache = nil
		}
	}

	opts := driver.Options{
		MaxDiagnostics: settings.maxDiagnostics,
		Jobs:           settings.jobs,
		Extensions:     settings.include,
		Cache:          cache,
	}

	var fileSet *source.FileSet
	var results []driver.FileResult

	checkPhase := timer.Begin("check")
	if st.IsDir() {
		useTUI := shouldUseTUI(settings.ui) && settings.format == "pretty" && !settings.quiet
		if useTUI {
			fileSet, results, err = runCheckDirWithUI(cmd.Context(), "checking "+target, target, eng, set, opts)
		} else {
			fileSet, results, err = driver.CheckDir(cmd.Context(), target, eng, set, opts)
		}
		if err != nil {
			return err
		}
	} else {
		fileSet = source.NewFileSetWithBase(startDir)
		results = []driver.FileResult{driver.CheckFile(fileSet, eng, set, target, opts)}
	}
	timer.End(checkPhase, fmt.Sprintf("%d files", len(results)))

	merged := diag.NewBag(settings.maxDiagnostics * max(len(results), 1))
	for _, r := range results {
		merged.Merge(r.Bag)
	}
	merged.Dedup()
	merged.Sort()

	if err := renderResults(merged, fileSet, settings); err != nil {
		return err
	}

	if settings.timings && settings.format != "json" && settings.format != "sarif" {
		fmt.Fprint(os.Stderr, timer.Summary())
	}

	// Verbose log output alone never fails a run.
	if merged.HasWarnings() {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("") // diagnostics already printed
	}
	return nil
}

func renderResults(bag *diag.Bag, fs *source.FileSet, s checkSettings) error {
	pathMode := diagfmt.PathModeAuto
	if s.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	switch s.format {
	case "pretty":
		diagfmt.Pretty(os.Stdout, bag, fs, diagfmt.PrettyOpts{
			Color:       s.useColor,
			Context:     2,
			PathMode:    pathMode,
			ShowVerbose: s.verbose,
			ShowNotes:   s.withNotes,
		})
	case "short":
		items := bag.Items()
		if !s.verbose {
			kept := make([]diag.Diagnostic, 0, len(items))
			for _, d := range items {
				if d.Severity != diag.SevVerbose {
					kept = append(kept, d)
				}
			}
			items = kept
		}
		if output := diag.FormatShortDiagnostics(items, fs, s.withNotes); output != "" {
			fmt.Fprintln(os.Stdout, output)
		}
	case "json":
		return diagfmt.JSON(os.Stdout, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeVerbose:   s.verbose,
			IncludeNotes:     s.withNotes,
		})
	case "sarif":
		return diagfmt.Sarif(os.Stdout, bag, fs, diagfmt.SarifRunMeta{
			ToolName:       "sift",
			ToolVersion:    "0.1.0",
			InvocationArgs: os.Args,
		})
	}
	return nil
}
