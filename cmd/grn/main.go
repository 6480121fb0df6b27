package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/regulomics/grnscope/internal/datasource"
	"github.com/regulomics/grnscope/pkg/config"
	"github.com/regulomics/grnscope/pkg/export"
	"github.com/regulomics/grnscope/pkg/graphview"
	"github.com/regulomics/grnscope/pkg/layout"
	"github.com/regulomics/grnscope/pkg/loader"
	"github.com/regulomics/grnscope/pkg/network"
	"github.com/regulomics/grnscope/pkg/ui"
	"github.com/regulomics/grnscope/pkg/version"
	"github.com/regulomics/grnscope/pkg/watcher"
)

func main() {
	dataPath := flag.String("data", "", "Path to the edge file (TSV or SQLite); discovered when empty")
	configPath := flag.String("config", "", "Path to config.yaml (default: XDG config dir)")
	exportFormats := flag.String("export", "", "Export the full network and exit (comma-separated: svg,png,html)")
	exportOut := flag.String("out", "network", "Output base path for -export (extension added per format)")
	wizardFlag := flag.Bool("wizard", false, "Interactive export wizard instead of the TUI")
	serveAddr := flag.String("serve", "", "Serve the interactive HTML view on this address (e.g. :8080) and exit")
	threshold := flag.Float64("threshold", 0, "Confidence threshold for -export/-serve (default: config slider minimum)")
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	noWatch := flag.Bool("no-watch", false, "Disable live reload of the data file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	flag.Parse()

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
		fmt.Println("Usage: grn [options]")
		fmt.Println("\nA TUI viewer for gene regulatory networks.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("grn %s\n", version.Version)
		os.Exit(0)
	}

	cfg, cfgErr := loadConfig(*configPath)
	if cfgErr != nil {
		// Non-fatal: continue with defaults.
		fmt.Fprintf(os.Stderr, "Warning: %v, using default configuration\n", cfgErr)
		cfg = config.DefaultConfig()
	}
	if cfg.DataPath != "" && *dataPath == "" {
		*dataPath = cfg.DataPath
	}

	result, resolvedPath, err := datasource.LoadEdges(*dataPath, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading network data: %v\n", err)
		fmt.Fprintln(os.Stderr, "Pass -data, set GRN_DATA, or place network.tsv / network.db in the working directory.")
		os.Exit(1)
	}
	if len(result.Edges) == 0 {
		fmt.Fprintf(os.Stderr, "No usable edges in %s (%d rows skipped)\n", resolvedPath, result.Skipped)
		os.Exit(1)
	}

	thresholdSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "threshold" {
			thresholdSet = true
		}
	})
	thr := resolveThreshold(thresholdSet, *threshold, cfg.Slider.Minimum)

	switch {
	case *exportFormats != "":
		if err := runExport(cfg, result, *exportFormats, *exportOut, thr); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		return
	case *wizardFlag:
		if err := runWizard(cfg, result, thr); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		return
	case *serveAddr != "":
		if err := runServe(cfg, result, *serveAddr, thr); err != nil {
			fmt.Fprintf(os.Stderr, "Serve failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Scripted runs set the autoclose env and pipe output.
	if os.Getenv("GRN_TUI_AUTOCLOSE_MS") == "" && !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "stdout is not a terminal; use -export, -wizard, or -serve for non-interactive runs")
		os.Exit(1)
	}

	var w *watcher.Watcher
	if !*noWatch {
		w, err = watcher.New(resolvedPath)
		if err == nil {
			err = w.Start()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: live reload unavailable: %v\n", err)
			w = nil
		} else {
			defer w.Stop()
		}
	}

	m := ui.NewModel(cfg, result, resolvedPath, w)
	if err := runTUIProgram(m); err != nil {
		fmt.Printf("Error running network viewer: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// resolveThreshold falls back to the config minimum only when the flag was
// not given, so an explicit -threshold 0 really means zero.
func resolveThreshold(set bool, value, fallback float64) float64 {
	if !set {
		return fallback
	}
	return value
}

// fullScene renders the whole dataset at the given threshold. Headless modes
// have no selection UI, so everything is selected.
func fullScene(cfg config.Config, edges *loader.Result, thr float64) *graphview.Scene {
	idx := network.BuildIndex(edges.Edges, cfg.SpecialTFs)
	sel := network.NewSelection(thr)
	sel.SelectAll(network.KindTF, idx)
	sel.SelectAll(network.KindGene, idx)
	scene := graphview.BuildScene(idx, sel, layout.DefaultOptions())
	return &scene
}

func runExport(cfg config.Config, result loader.Result, formatsArg, out string, thr float64) error {
	formats, err := export.ParseFormats(formatsArg)
	if err != nil {
		return err
	}
	scene := fullScene(cfg, &result, thr)
	written, err := export.SaveAll(out, "Gene regulatory network", scene, formats)
	if err != nil {
		return err
	}
	for _, p := range written {
		fmt.Println(p)
	}
	return nil
}

func runWizard(cfg config.Config, result loader.Result, thr float64) error {
	scene := fullScene(cfg, &result, thr)
	written, err := export.NewWizard(scene).Run()
	if err != nil {
		return err
	}
	for _, p := range written {
		fmt.Println(p)
	}
	return nil
}

// runServe exposes the interactive HTML view over HTTP. The page is fully
// self-contained, so a single handler suffices.
func runServe(cfg config.Config, result loader.Result, addr string, thr float64) error {
	scene := fullScene(cfg, &result, thr)
	page, err := export.GenerateHTML("Gene regulatory network", scene)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		fmt.Fprint(w, page)
	})

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	fmt.Printf("Serving network view on http://%s\n", addr)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		return srv.Close()
	}
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
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

	// Optional auto-quit for automated tests: set GRN_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("GRN_TUI_AUTOCLOSE_MS"); v != "" {
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
