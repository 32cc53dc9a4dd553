package dialogs

import (
	"roi-annotator/internal/annotation"
	"roi-annotator/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// ShowPreferences opens the application settings dialog. Confirmed changes
// are written to the preference store and persisted; onApply is then called
// so the caller can push the new values into live components.
func ShowPreferences(p *prefs.Prefs, parent fyne.Window, onApply func()) {
	labels := annotation.KnownLabels()
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = string(l)
	}

	labelSel := widget.NewSelect(names, nil)
	current := p.DefaultLabel()
	if current == "" {
		current = string(annotation.DefaultLabel)
	}
	labelSel.SetSelected(current)

	promote := widget.NewCheck("Mark boxes as edited after moving or resizing", nil)
	promote.SetChecked(p.PromoteOnEdit())

	form := widget.NewForm(
		widget.NewFormItem("Default label", labelSel),
		widget.NewFormItem("", promote),
	)

	dialog.ShowCustomConfirm("Preferences", "Apply", "Cancel", form,
		func(confirmed bool) {
			if !confirmed {
				return
			}
			if labelSel.Selected != "" {
				p.SetDefaultLabel(labelSel.Selected)
			}
			p.SetPromoteOnEdit(promote.Checked)
			if err := p.Save(); err != nil {
				dialog.ShowError(err, parent)
			}
			if onApply != nil {
				onApply()
			}
		}, parent)
}
