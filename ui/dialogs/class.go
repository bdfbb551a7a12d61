// Package dialogs provides the modal dialogs used while annotating.
package dialogs

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// ClassCount is how many numeric class buttons the picker offers. Other
// ids can still be typed into the entry.
const ClassCount = 12

// ShowClassPicker presents a grid of class-id buttons plus a free-form
// entry. onPick receives the chosen id; cancelling picks nothing.
func ShowClassPicker(win fyne.Window, current string, onPick func(id string)) {
	entry := widget.NewEntry()
	entry.SetText(current)

	var dlg dialog.Dialog

	buttons := make([]fyne.CanvasObject, 0, ClassCount)
	for i := 0; i < ClassCount; i++ {
		id := strconv.Itoa(i)
		buttons = append(buttons, widget.NewButton(id, func() {
			dlg.Hide()
			onPick(id)
		}))
	}
	grid := container.NewGridWithColumns(4, buttons...)

	content := container.NewVBox(
		widget.NewLabel("Class id for new polygons:"),
		grid,
		widget.NewSeparator(),
		entry,
	)

	dlg = dialog.NewCustomConfirm("Select Class", "Apply", "Cancel", content,
		func(ok bool) {
			if ok && entry.Text != "" {
				onPick(entry.Text)
			}
		}, win)
	dlg.Show()
}
