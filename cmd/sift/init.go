package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sift/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new sift project",
	Long: `Initialize a new sift project by creating a project manifest (sift.toml)
and an example rule file (rules/no-todo.rx). If [path|name] is omitted,
initializes the current directory. If a non-existing name is provided, a
directory will be created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	var target string
	if len(args) == 0 || args[0] == "." {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = wd
	} else {
		arg := args[0]
		if !filepath.IsAbs(arg) {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			target = filepath.Join(wd, arg)
		} else {
			target = arg
		}
	}

	if st, err := os.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
		} else {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	manifestPath := filepath.Join(target, project.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}

	if err := os.WriteFile(manifestPath, []byte(defaultManifest), 0o600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	rulesDir := filepath.Join(target, "rules")
	if err := os.MkdirAll(rulesDir, 0o755); err != nil {
		return fmt.Errorf("failed to create rules directory: %w", err)
	}
	rulePath := filepath.Join(rulesDir, "no-todo.rx")
	createdRule := false
	if _, err := os.Stat(rulePath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(rulePath, []byte(defaultRule), 0o600); err != nil {
			return fmt.Errorf("failed to write example rule: %w", err)
		}
		createdRule = true
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, target); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(os.Stdout, "Initialized sift project in %s\n", rel)
	fmt.Fprintf(os.Stdout, "  - %s\n", project.ManifestName)
	if createdRule {
		fmt.Fprintf(os.Stdout, "  - rules/no-todo.rx\n")
	} else {
		fmt.Fprintf(os.Stdout, "  - rules/no-todo.rx (existing)\n")
	}
	return nil
}

const defaultManifest = `# Sift project manifest
[check]
language = "text"
max_diagnostics = 100

[[plugin]]
path = "rules/no-todo.rx"
`

const defaultRule = `name no-todo
match (TODO[^\n]*)
log "marker: " + $1
call register_diagnostic($1, "unresolved TODO")
`
