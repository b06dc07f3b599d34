// Command cpulse is a terminal dashboard for commit analytics: it scopes
// an analysis with a filter, asks the backend to collect the matching
// commits, and renders the aggregated views live while the job runs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/goccy/go-json"

	"github.com/commitpulse/commitpulse/internal/api"
	"github.com/commitpulse/commitpulse/pkg/config"
	"github.com/commitpulse/commitpulse/pkg/export"
	"github.com/commitpulse/commitpulse/pkg/model"
	"github.com/commitpulse/commitpulse/pkg/ui"
	"github.com/commitpulse/commitpulse/pkg/version"
	"github.com/commitpulse/commitpulse/pkg/watcher"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	setupFlag := flag.Bool("setup", false, "Run the interactive setup wizard")
	backendFlag := flag.String("backend", "", "Backend URL (overrides config)")
	robotSummary := flag.Bool("robot-summary", false, "Print dashboard stats as JSON and exit (no TUI)")
	robotCommits := flag.Bool("robot-commits", false, "Print the commit working set as JSON and exit (no TUI)")
	exportFlag := flag.String("export", "", "Export the working set and exit: svg, png, sqlite, or ask to choose interactively")
	exportOut := flag.String("out", "", "Output path for --export (default: derived name in export dir)")
	noWatch := flag.Bool("no-watch", false, "Disable config file watching")
	flag.Parse()

	if *help {
		fmt.Println("Usage: cpulse [options]")
		fmt.Println("\nA TUI dashboard for git commit analytics.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("cpulse %s\n", version.Version)
		os.Exit(0)
	}

	if *setupFlag {
		if _, err := config.RunSetupWizard(); err != nil {
			fmt.Fprintf(os.Stderr, "Setup failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *backendFlag != "" {
		cfg.Backend.URL = *backendFlag
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\nRun 'cpulse --setup' to configure.\n", err)
		os.Exit(1)
	}

	client := api.New(cfg.Backend.URL, api.WithToken(cfg.Backend.Token))

	switch {
	case *robotSummary:
		if err := runRobotSummary(client, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	case *robotCommits:
		if err := runRobotCommits(client, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	case *exportFlag != "":
		if err := runExport(client, cfg, *exportFlag, *exportOut); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	var w *watcher.Watcher
	if !*noWatch {
		if path := config.ConfigPath(); path != "" {
			if cw, err := watcher.New(path); err == nil && cw.Start() == nil {
				w = cw
				defer w.Stop()
			}
		}
	}

	m := ui.NewModel(client, cfg, w)
	if err := runTUIProgram(m); err != nil {
		fmt.Fprintf(os.Stderr, "Error running cpulse: %v\n", err)
		os.Exit(1)
	}
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set CPULSE_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("CPULSE_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
		return nil
	}
	return err
}

// specFromConfig builds the non-interactive analysis scope for robot and
// export modes from the configured filter defaults.
func specFromConfig(cfg config.Config) (model.FilterSpec, error) {
	lookback := cfg.Filter.LookbackDays
	if lookback < 1 {
		lookback = 7
	}
	now := time.Now()
	spec := model.NewFilterSpec(
		cfg.Filter.ProjectKey,
		cfg.Filter.RepoName,
		cfg.Filter.BranchName,
		cfg.Filter.AuthorEmail,
		now.AddDate(0, 0, -lookback),
		now,
	)
	if err := spec.Validate(); err != nil {
		return model.FilterSpec{}, fmt.Errorf("%w (set filter.project_key and filter.repo_name in %s)", err, config.ConfigPath())
	}
	return spec, nil
}

// runRobotSummary prints the backend's aggregate view as indented JSON,
// one shot, for scripts and agents.
func runRobotSummary(client *api.Client, cfg config.Config) error {
	spec, err := specFromConfig(cfg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
	defer cancel()

	stats, err := client.DashboardStats(ctx, spec)
	if err != nil {
		return err
	}
	return printJSON(struct {
		Spec  model.FilterSpec     `json:"spec"`
		Stats model.DashboardStats `json:"stats"`
	}{spec, stats})
}

func runRobotCommits(client *api.Client, cfg config.Config) error {
	spec, err := specFromConfig(cfg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
	defer cancel()

	commits, err := client.Commits(ctx, spec)
	if err != nil {
		return err
	}
	return printJSON(struct {
		Spec    model.FilterSpec     `json:"spec"`
		Commits []model.CommitRecord `json:"commits"`
	}{spec, commits})
}

func runExport(client *api.Client, cfg config.Config, format, out string) error {
	spec, err := specFromConfig(cfg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*api.DefaultTimeout)
	defer cancel()

	snap, err := client.FetchSnapshot(ctx, spec)
	if err != nil {
		return err
	}
	if format == "ask" {
		path, err := export.RunExportWizard(snap, cfg.Export.Dir)
		if err != nil {
			return err
		}
		fmt.Printf("Exported %s\n", path)
		return nil
	}
	if out == "" {
		out = filepath.Join(exportDir(cfg), export.DefaultFileName(snap, format))
	}
	if err := export.Run(format, out, snap); err != nil {
		return err
	}
	fmt.Printf("Exported %s\n", out)
	return nil
}

func exportDir(cfg config.Config) string {
	if cfg.Export.Dir != "" {
		return cfg.Export.Dir
	}
	return "."
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
