package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/vanderheijden86/fsglow/pkg/chime"
	"github.com/vanderheijden86/fsglow/pkg/config"
	"github.com/vanderheijden86/fsglow/pkg/monitor"
	"github.com/vanderheijden86/fsglow/pkg/ui"
	"github.com/vanderheijden86/fsglow/pkg/version"
	"github.com/vanderheijden86/fsglow/pkg/watcher"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	chimeFlag := flag.Bool("chime", false, "Enable the audio chime")
	noChimeFlag := flag.Bool("no-chime", false, "Disable the audio chime")
	soundFlag := flag.String("sound", "", "Path to the chime sound file")
	flag.Parse()

	if *help {
		fmt.Println("Usage: fsglow [options] [directory]")
		fmt.Println("\nA live dashboard for watching a directory tree change.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("fsglow %s\n", version.Version)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}
	prefs := ui.LoadPrefs()

	root := pickRoot(flag.Arg(0), cfg, prefs)
	root, err = filepath.Abs(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := validateRoot(root); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", root, err)
		os.Exit(1)
	}

	chimeOn := pickChime(cfg, prefs, *chimeFlag, *noChimeFlag)
	cfg.Chime.Enabled = chimeOn
	if *soundFlag != "" {
		cfg.Chime.Sound = config.ExpandHome(*soundFlag)
	}

	sound := chime.Resolve(cfg.Chime.Sound, root)
	player := chime.NewPlayer(sound, int64(cfg.Chime.MaxConcurrent))
	if chimeOn && !player.Available() {
		fmt.Fprintf(os.Stderr, "Warning: no %s found, chime disabled\n", chime.SoundFileName)
		cfg.Chime.Enabled = false
	}

	session, err := monitor.NewSession(root, cfg, player.Play)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := session.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error starting monitor: %v\n", err)
		os.Exit(1)
	}
	defer session.Stop()

	if err := runTUIProgram(ui.NewModel(session, cfg)); err != nil {
		fmt.Fprintf(os.Stderr, "Error running fsglow: %v\n", err)
		os.Exit(1)
	}

	ui.SavePrefs(ui.Prefs{ChimeEnabled: session.ChimeEnabled(), LastRoot: session.Root()})
}

// pickRoot resolves the directory to monitor: explicit argument, then config,
// then the previous session's directory, then an interactive prompt, then cwd.
func pickRoot(arg string, cfg config.Config, prefs ui.Prefs) string {
	if arg != "" {
		return config.ExpandHome(arg)
	}
	if cfg.Root != "" {
		return cfg.Root
	}

	fallback := prefs.LastRoot
	if fallback == "" {
		fallback, _ = os.Getwd()
	}
	if !isTerminal() {
		return fallback
	}

	root := fallback
	form := newForm(huh.NewGroup(
		huh.NewInput().
			Title("Directory to watch").
			Description("Press enter to accept the default").
			Value(&root),
	))
	if err := form.Run(); err != nil {
		return fallback
	}
	if root == "" {
		return fallback
	}
	return config.ExpandHome(root)
}

// pickChime resolves the chime setting: flags win, then the previous session's
// choice, then an interactive prompt.
func pickChime(cfg config.Config, prefs ui.Prefs, on, off bool) bool {
	if off {
		return false
	}
	if on {
		return true
	}
	if !isTerminal() {
		return prefs.ChimeEnabled
	}

	enabled := prefs.ChimeEnabled
	form := newForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Play a chime on changes?").
			Value(&enabled),
	))
	if err := form.Run(); err != nil {
		return prefs.ChimeEnabled
	}
	return enabled
}

func validateRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return watcher.ErrRootNotExist
		}
		return err
	}
	if !info.IsDir() {
		return watcher.ErrNotDirectory
	}
	return nil
}

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
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

	_, err := p.Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
		return nil
	}
	return err
}
