package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/regulomics/grnscope/pkg/graphview"
)

// WizardConfig holds the answers collected by the export wizard.
type WizardConfig struct {
	Title      string
	OutputPath string
	Formats    []string
}

// Wizard walks the user through exporting the current scene when the export
// flag is given without a path.
type Wizard struct {
	scene  *graphview.Scene
	config WizardConfig
}

// NewWizard creates an export wizard for a rendered scene.
func NewWizard(scene *graphview.Scene) *Wizard {
	return &Wizard{
		scene: scene,
		config: WizardConfig{
			Title:      "Regulatory Network",
			OutputPath: "network.svg",
			Formats:    []string{"svg"},
		},
	}
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

// Run executes the interactive wizard flow and writes the chosen formats.
// Returns the written paths.
func (w *Wizard) Run() ([]string, error) {
	form := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Snapshot title").
				Value(&w.config.Title),
			huh.NewInput().
				Title("Output path").
				Description("Extension is replaced per format").
				Value(&w.config.OutputPath),
			huh.NewMultiSelect[string]().
				Title("Formats").
				Options(
					huh.NewOption("SVG (vector snapshot)", "svg"),
					huh.NewOption("PNG (raster snapshot)", "png"),
					huh.NewOption("HTML (interactive viewer)", "html"),
				).
				Value(&w.config.Formats),
		),
	)
	if err := form.Run(); err != nil {
		return nil, err
	}
	if len(w.config.Formats) == 0 {
		return nil, fmt.Errorf("no formats selected")
	}

	if clash := w.existingOutputs(); len(clash) > 0 {
		overwrite := false
		confirm := newForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Overwrite %s?", strings.Join(clash, ", "))).
					Value(&overwrite).
					Affirmative("Overwrite").
					Negative("Cancel"),
			),
		)
		if err := confirm.Run(); err != nil {
			return nil, err
		}
		if !overwrite {
			return nil, fmt.Errorf("export cancelled")
		}
	}

	return SaveAll(w.config.OutputPath, w.config.Title, w.scene, w.config.Formats)
}

// existingOutputs lists output paths that already exist on disk.
func (w *Wizard) existingOutputs() []string {
	stem := strings.TrimSuffix(w.config.OutputPath, filepath.Ext(w.config.OutputPath))
	var clash []string
	for _, f := range w.config.Formats {
		path := stem + "." + f
		if _, err := os.Stat(path); err == nil {
			clash = append(clash, path)
		}
	}
	return clash
}
