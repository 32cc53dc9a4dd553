// Package panels provides UI panels for the application.
package panels

import (
	"fmt"
	"log/slog"

	"roi-annotator/internal/annotation"
	"roi-annotator/pkg/geometry"
	"roi-annotator/ui/dialogs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// SidePanel provides the main side panel with tabbed sections.
type SidePanel struct {
	store     *annotation.Store
	container *container.AppTabs

	detectionsPanel *DetectionsPanel
	filterPanel     *FilterPanel
}

// NewSidePanel creates a new side panel.
func NewSidePanel(store *annotation.Store, logger *slog.Logger) *SidePanel {
	sp := &SidePanel{store: store}

	sp.detectionsPanel = NewDetectionsPanel(store, logger)
	sp.filterPanel = NewFilterPanel(store)

	sp.container = container.NewAppTabs(
		container.NewTabItem("Detections", sp.detectionsPanel.Container()),
		container.NewTabItem("Filters", sp.filterPanel.Container()),
	)

	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// SetWindow sets the parent window for dialogs.
func (sp *SidePanel) SetWindow(w fyne.Window) {
	sp.detectionsPanel.SetWindow(w)
}

// DetectionsPanel lists the visible detections and offers per-detection
// actions.
type DetectionsPanel struct {
	store     *annotation.Store
	logger    *slog.Logger
	window    fyne.Window
	container fyne.CanvasObject

	list    *widget.List
	visible []*annotation.Detection

	statusLabel *widget.Label
}

// NewDetectionsPanel creates the detections list panel.
func NewDetectionsPanel(store *annotation.Store, logger *slog.Logger) *DetectionsPanel {
	dp := &DetectionsPanel{
		store:  store,
		logger: logger,
	}
	dp.visible = store.Visible()
	dp.statusLabel = widget.NewLabel("")

	dp.list = widget.NewList(
		func() int {
			return len(dp.visible)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("detection")
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id >= len(dp.visible) {
				return
			}
			obj.(*widget.Label).SetText(detectionSummary(dp.visible[id]))
		},
	)
	dp.list.OnSelected = func(id widget.ListItemID) {
		if id < len(dp.visible) {
			store.Select(dp.visible[id].ID)
		}
	}
	dp.list.OnUnselected = func(widget.ListItemID) {}

	editBtn := widget.NewButton("Edit Label...", dp.onEditLabel)
	deleteBtn := widget.NewButton("Delete", func() {
		if id := store.SelectedID(); id != "" {
			store.Remove(id)
		}
	})

	dp.container = container.NewBorder(
		nil,
		container.NewVBox(
			container.NewHBox(editBtn, deleteBtn),
			dp.statusLabel,
		),
		nil, nil,
		dp.list,
	)

	store.On(annotation.EventDetectionsChanged, func(interface{}) { dp.reload() })
	store.On(annotation.EventFilterChanged, func(interface{}) { dp.reload() })
	store.On(annotation.EventSelectionChanged, func(data interface{}) { dp.syncSelection(data) })

	dp.reload()
	return dp
}

// Container returns the panel container.
func (dp *DetectionsPanel) Container() fyne.CanvasObject {
	return dp.container
}

// SetWindow sets the parent window for dialogs.
func (dp *DetectionsPanel) SetWindow(w fyne.Window) {
	dp.window = w
}

func (dp *DetectionsPanel) reload() {
	dp.visible = dp.store.Visible()
	dp.list.Refresh()
	dp.statusLabel.SetText(verificationText(dp.store.Verification()))
}

func (dp *DetectionsPanel) syncSelection(data interface{}) {
	id, _ := data.(string)
	if id == "" {
		dp.list.UnselectAll()
		return
	}
	for i, d := range dp.visible {
		if d.ID == id {
			dp.list.Select(i)
			return
		}
	}
}

func (dp *DetectionsPanel) onEditLabel() {
	if dp.window == nil {
		return
	}
	selected := dp.store.Selected()
	if selected == nil {
		return
	}
	dialogs.ShowLabelEditor(selected, dp.window, func(label annotation.Label) {
		dp.store.Update(selected.ID, func(d *annotation.Detection) {
			d.Label = label
			if d.Status == annotation.StatusModelGenerated {
				d.Status = annotation.StatusUserEditedConfirmed
			}
		})
	})
}

func detectionSummary(d *annotation.Detection) string {
	text := string(d.Label)
	if d.Confidence != nil {
		text += " " + percent(*d.Confidence)
	}
	switch d.Status {
	case annotation.StatusModelGenerated:
		text += "  [model]"
	case annotation.StatusUserCreated:
		text += "  [drawn]"
	case annotation.StatusUserEditedConfirmed:
		text += "  [edited]"
	case annotation.StatusUserConfirmed:
		text += "  [confirmed]"
	}
	return text
}

func percent(v float64) string {
	return fmt.Sprintf("%.0f%%", geometry.Clamp(v, 0, 1)*100)
}

func verificationText(v annotation.VerificationStatus) string {
	switch v {
	case annotation.VerificationVerified:
		return "Review: verified"
	case annotation.VerificationUnverified:
		return "Review: unverified"
	case annotation.VerificationInProgress:
		return "Review: in progress"
	default:
		return "Review: no detections"
	}
}
