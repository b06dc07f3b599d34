// This file implements the interactive first-run wizard for --setup.
// It collects the backend address and token and saves config.yaml.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// RunSetupWizard walks the user through backend settings, starting from
// the existing config when one is present, and saves the result.
func RunSetupWizard() (Config, error) {
	cfg, err := Load()
	if err != nil {
		cfg = DefaultConfig()
	}

	backendURL := cfg.Backend.URL
	token := cfg.Backend.Token
	lookback := strconv.Itoa(cfg.Filter.LookbackDays)

	form := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backend URL").
				Description("Address of the commit-analytics service").
				Placeholder("http://localhost:5000").
				Value(&backendURL).
				Validate(func(s string) error {
					probe := cfg
					probe.Backend.URL = s
					return probe.Validate()
				}),
			huh.NewInput().
				Title("API token").
				Description("Bearer token, leave empty if the backend is open").
				EchoMode(huh.EchoModePassword).
				Value(&token),
			huh.NewInput().
				Title("Default lookback (days)").
				Description("Initial since date = today minus this many days").
				Value(&lookback).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < 1 {
						return fmt.Errorf("enter a positive number of days")
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		return cfg, err
	}

	cfg.Backend.URL = backendURL
	cfg.Backend.Token = token
	cfg.Filter.LookbackDays, _ = strconv.Atoi(lookback)

	if err := Save(cfg); err != nil {
		return cfg, err
	}
	fmt.Printf("Saved %s\n", ConfigPath())
	return cfg, nil
}
