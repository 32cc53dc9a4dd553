// Package dialogs provides modal dialogs for detection editing.
package dialogs

import (
	"roi-annotator/internal/annotation"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// ShowLabelEditor opens a dialog to change a detection's class label.
// onApply is called with the chosen label when the user confirms.
func ShowLabelEditor(d *annotation.Detection, parent fyne.Window, onApply func(annotation.Label)) {
	labels := annotation.KnownLabels()
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = string(l)
	}

	sel := widget.NewSelect(names, nil)
	sel.SetSelected(string(d.Label))

	dialog.ShowCustomConfirm("Edit Label", "Apply", "Cancel", sel,
		func(confirmed bool) {
			if !confirmed || sel.Selected == "" {
				return
			}
			label := annotation.Label(sel.Selected)
			if label == d.Label {
				return
			}
			onApply(label)
		}, parent)
}
