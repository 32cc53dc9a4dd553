package panels

import (
	"roi-annotator/internal/annotation"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// FilterPanel controls which detections the canvas renders.
type FilterPanel struct {
	store     *annotation.Store
	container fyne.CanvasObject

	displaySelect *widget.RadioGroup
	modeSelect    *widget.RadioGroup
	classChecks   map[annotation.Label]*widget.Check
}

// NewFilterPanel creates the filter controls panel.
func NewFilterPanel(store *annotation.Store) *FilterPanel {
	fp := &FilterPanel{
		store:       store,
		classChecks: make(map[annotation.Label]*widget.Check),
	}

	fp.displaySelect = widget.NewRadioGroup(
		[]string{"All", "Verified", "Unverified"},
		func(selected string) {
			switch selected {
			case "Verified":
				store.SetDisplayFilter(annotation.DisplayVerified)
			case "Unverified":
				store.SetDisplayFilter(annotation.DisplayUnverified)
			default:
				store.SetDisplayFilter(annotation.DisplayAll)
			}
		},
	)
	fp.displaySelect.SetSelected("All")

	classBox := container.NewVBox()
	for _, label := range annotation.KnownLabels() {
		label := label
		check := widget.NewCheck(string(label), func(bool) {
			fp.applyClassFilter()
		})
		check.SetChecked(true)
		fp.classChecks[label] = check
		classBox.Add(check)
	}

	fp.modeSelect = widget.NewRadioGroup(
		[]string{"Boxes and labels", "Image only", "Hide overlays"},
		func(selected string) {
			switch selected {
			case "Image only":
				store.SetViewMode(annotation.ViewImageOnly)
			case "Hide overlays":
				store.SetViewMode(annotation.ViewNone)
			default:
				store.SetViewMode(annotation.ViewNormal)
			}
		},
	)
	fp.modeSelect.SetSelected("Boxes and labels")

	fp.container = container.NewVBox(
		widget.NewCard("Review State", "", fp.displaySelect),
		widget.NewCard("Classes", "", classBox),
		widget.NewCard("View", "", fp.modeSelect),
	)

	return fp
}

// Container returns the panel container.
func (fp *FilterPanel) Container() fyne.CanvasObject {
	return fp.container
}

func (fp *FilterPanel) applyClassFilter() {
	classes := make(map[annotation.Label]bool)
	for label, check := range fp.classChecks {
		if check.Checked {
			classes[label] = true
		}
	}
	fp.store.SetClassFilter(classes)
}
