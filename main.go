package main

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/heartbeat/internal/actuator"
	"github.com/olivier-w/heartbeat/internal/anim"
	"github.com/olivier-w/heartbeat/internal/assets"
	"github.com/olivier-w/heartbeat/internal/config"
	"github.com/olivier-w/heartbeat/internal/haptics"
	"github.com/olivier-w/heartbeat/internal/ui"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options holds the command-line flags.
type options struct {
	configPath  string
	patternsDir string
	logFile     string
	verbose     bool
	noHaptics   bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "heartbeat",
		Short:         "Heart animation with matching haptic patterns",
		Long:          "Plays a beating heart and drives a haptic actuator through the audio output.\nPress 1 or 2 to play a pattern, s to stop.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	cmd.Flags().StringVar(&opts.patternsDir, "patterns", "", "directory of pattern files (overrides the bundled ones)")
	cmd.Flags().StringVar(&opts.logFile, "log", "", "write diagnostics to this file")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug-level diagnostics")
	cmd.Flags().BoolVar(&opts.noHaptics, "no-haptics", false, "run as if the device had no haptic capability")

	return cmd
}

// loadConfig reads the config file and applies flags that were set.
func loadConfig(cmd *cobra.Command, opts *options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("patterns") {
		cfg.Haptics.PatternsDir = opts.patternsDir
	}
	if flags.Changed("log") {
		cfg.Log.File = opts.logFile
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	}
	if opts.noHaptics {
		cfg.Haptics.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func run(cfg config.Config) error {
	log, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	heart, err := anim.Load(cfg.Animation.File, cfg.Animation.StateMachine)
	if err != nil {
		return err
	}
	checkTriggers(heart.Inputs(), cfg, log)

	device := actuator.NewDevice(actuator.Options{
		Disabled:     !cfg.Haptics.Enabled,
		Gain:         cfg.Haptics.Gain,
		IdleShutdown: cfg.Haptics.IdleShutdown,
	}, log)
	defer device.Close()

	patterns := patternFS(cfg.Haptics.PatternsDir)
	library := haptics.NewLibrary(patterns, actuator.SupportedExts()...)
	checkPatterns(library, cfg, log)
	for _, name := range unsupportedFiles(patterns) {
		log.WithField("file", name).Warn("ignoring pattern file with unsupported format")
	}

	manager := haptics.NewManager(device, library, cfg.Patterns(), log)
	if err := manager.Initialize(); err != nil {
		log.WithError(err).Warn("haptics unavailable")
	}
	defer manager.Close()

	model := ui.New(manager, heart, ui.Options{
		Title:   cfg.Title,
		Buttons: buttonSpecs(cfg),
		Events:  device.Events(),
		Log:     log,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithReportFocus())
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}

func patternFS(dir string) fs.FS {
	if dir == "" {
		return assets.Patterns()
	}
	return os.DirFS(dir)
}

// checkPatterns logs configured patterns the library cannot find. A missing
// pattern only disables its button's haptics.
func checkPatterns(lib *haptics.Library, cfg config.Config, log logrus.FieldLogger) {
	names, err := lib.Names()
	if err != nil {
		log.WithError(err).Warn("could not list patterns")
		return
	}
	found := make(map[string]bool, len(names))
	for _, n := range names {
		found[n] = true
	}
	for _, p := range cfg.Patterns() {
		if !found[p] {
			log.WithField("pattern", p).Warn("pattern not found")
		}
	}
	log.WithField("patterns", names).Debug("pattern library loaded")
}

// unsupportedFiles lists top-level files the actuator cannot decode.
func unsupportedFiles(fsys fs.FS) []string {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if !actuator.IsSupportedExt(path.Ext(e.Name())) {
			names = append(names, e.Name())
		}
	}
	return names
}

// checkTriggers logs button triggers the state machine does not declare.
func checkTriggers(inputs []string, cfg config.Config, log logrus.FieldLogger) {
	declared := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		declared[in] = true
	}
	for _, b := range cfg.Buttons {
		if !declared[b.Trigger] {
			log.WithField("trigger", b.Trigger).Warn("trigger not declared by the state machine")
		}
	}
}

func buttonSpecs(cfg config.Config) [haptics.NumSlots]ui.ButtonSpec {
	var specs [haptics.NumSlots]ui.ButtonSpec
	for i := range specs {
		b := cfg.Buttons[i]
		specs[i] = ui.ButtonSpec{Label: b.Label, Trigger: b.Trigger}
	}
	return specs
}
