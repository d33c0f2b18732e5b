package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/layerlens/pkg/atlas"
	"github.com/vanderheijden86/layerlens/pkg/config"
	"github.com/vanderheijden86/layerlens/pkg/debug"
	"github.com/vanderheijden86/layerlens/pkg/export"
	"github.com/vanderheijden86/layerlens/pkg/layout"
	"github.com/vanderheijden86/layerlens/pkg/nav"
	"github.com/vanderheijden86/layerlens/pkg/ui"
	"github.com/vanderheijden86/layerlens/pkg/version"
	"github.com/vanderheijden86/layerlens/pkg/watcher"
)

func main() {
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	atlasPath := flag.String("atlas", "", "Atlas YAML file to explore (default: embedded demo)")
	configPath := flag.String("config", "", "Config file (default: XDG config dir)")
	exportOut := flag.String("export", "", "Export a layer snapshot to this path and exit (empty path runs the wizard)")
	formatFlag := flag.String("format", "", "Export format: svg, png, or all (default: from the path extension)")
	layerFlag := flag.String("layer", "", "Layer ID to export, or 'all' (default: root layer)")
	robotState := flag.Bool("robot-state", false, "Print the initial state as JSON and exit")
	noWatch := flag.Bool("no-watch", false, "Disable atlas live reload")
	flag.Parse()

	// CPU profiling support
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Println("Usage: lx [options]")
		fmt.Println("\nA zoomable layer explorer for the terminal.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("lx %s\n", version.Version)
		os.Exit(0)
	}

	// Config is advisory: a broken file falls back to defaults.
	var cfg config.Config
	var cfgErr error
	if *configPath != "" {
		cfg, cfgErr = config.LoadFrom(*configPath)
	} else {
		cfg, cfgErr = config.Load()
	}
	if cfgErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", cfgErr)
		cfg = config.DefaultConfig()
	}

	path := *atlasPath
	if path == "" {
		path = cfg.AtlasPath
	}

	a, err := loadAtlas(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading atlas: %v\n", err)
		os.Exit(1)
	}
	for _, ref := range a.DanglingRefs() {
		fmt.Fprintf(os.Stderr, "Warning: dangling child reference %s\n", ref)
	}

	if *robotState {
		if err := printRobotState(a); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// -export takes effect on presence, not value: an empty path means
	// "ask me", via the interactive wizard.
	exportSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "export" {
			exportSet = true
		}
	})
	if exportSet {
		if err := runExport(a, *exportOut, *formatFlag, *layerFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	debug.Log("lx %s starting (atlas=%q)", version.Version, path)

	m := ui.NewModel(a, path).WithConfig(cfg)

	if path != "" && !*noWatch {
		w, werr := watcher.New(path)
		if werr == nil {
			werr = w.Start()
		}
		if werr != nil {
			// Live reload is a convenience; the explorer runs without it.
			fmt.Fprintf(os.Stderr, "Warning: live reload disabled: %v\n", werr)
		} else {
			defer w.Stop()
			m = m.WithWatcher(w)
		}
	}

	if err := runTUIProgram(m, cfg.MouseEnabled); err != nil {
		fmt.Fprintf(os.Stderr, "Error running layer explorer: %v\n", err)
		os.Exit(1)
	}
}

func loadAtlas(path string) (*atlas.Atlas, error) {
	if path == "" {
		return atlas.Demo(), nil
	}
	return atlas.Load(path)
}

// printRobotState dumps the initial snapshot over the canonical export
// viewport, so scripted consumers see deterministic geometry regardless
// of the terminal they run in. The viewport is in pixels, so the node
// diameter is the export one, not the cell-grid one.
func printRobotState(a *atlas.Atlas) error {
	opts := nav.DefaultOptions()
	opts.BaseDiameter = export.BaseDiameter
	machine := nav.New(a,
		layout.Viewport{Width: export.DefaultWidth, Height: export.DefaultHeight},
		nav.NewTimerScheduler(), opts)
	out, err := ui.RobotState(machine.Snapshot())
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runExport(a *atlas.Atlas, out, format, layer string) error {
	var res *export.WizardResult
	if out == "" {
		r, err := export.RunWizard(a, "")
		if err != nil {
			return err
		}
		res = r
	} else {
		idx, err := resolveLayer(a, layer)
		if err != nil {
			return err
		}
		res = &export.WizardResult{LayerIndex: idx, Format: format, Path: out}
	}

	paths, err := export.Execute(context.Background(), a, res)
	if err != nil {
		return err
	}
	fmt.Printf("Exported %s\n", strings.Join(paths, ", "))
	return nil
}

func resolveLayer(a *atlas.Atlas, layer string) (int, error) {
	if layer == "" {
		return 0, nil
	}
	if layer == "all" {
		return export.AllLayers, nil
	}
	idx, ok := a.LayerIndex(layer)
	if !ok {
		return 0, fmt.Errorf("unknown layer %q", layer)
	}
	return idx, nil
}

func runTUIProgram(m ui.Model, mouse bool) error {
	opts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	}
	if mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(m, opts...)

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
