// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strconv"
	"strings"

	"ezlabel/internal/annotation"
	appstate "ezlabel/internal/app"
	"ezlabel/internal/image"
	"ezlabel/internal/interaction"
	"ezlabel/internal/version"
	"ezlabel/ui/canvas"
	"ezlabel/ui/dialogs"
	"ezlabel/ui/magnifier"
	"ezlabel/ui/panels"
	"ezlabel/ui/prefs"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	prefKeyLastDir    = "lastDirectory"
	prefKeyLastImage  = "lastImage"
	prefKeyMode       = "mode"
	prefKeyContinuous = "continuousFree"
	prefKeyClass      = "classId"
)

var zoomChoices = []string{"10%", "25%", "50%", "75%", "100%", "150%", "200%", "400%", "800%", "Fit"}

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	prefs *prefs.Prefs
	state *appstate.State

	canvas    *canvas.AnnotationCanvas
	panel     *panels.PolygonPanel
	balloon   *magnifier.Balloon
	statusBar *widget.Label

	zoomSelect  *widget.Select
	colorSwatch *fynecanvas.Rectangle

	// Class assigned to polygons completed from now on.
	activeClass string
}

// New creates the main window over the given session.
func New(fyneApp fyne.App, state *appstate.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("EZ Label")

	mw := &MainWindow{
		Window:      win,
		app:         fyneApp,
		prefs:       p,
		state:       state,
		activeClass: p.String(prefKeyClass, "0"),
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.restoreSession()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.New(mw.state)
	mw.panel = panels.NewPolygonPanel(mw.state)
	mw.panel.OnEdit = func(color string) {
		mw.state.Machine.SetActiveColor(color)
		mw.updateSwatch(color)
	}
	mw.balloon = magnifier.New(mw.Window, mw.state)
	mw.statusBar = widget.NewLabel("Ready")

	mw.wireMachine()

	toolbar := mw.createToolbar()

	canvasArea := container.NewBorder(
		toolbar, // top
		nil, nil, nil,
		mw.canvas,
	)

	split := container.NewHSplit(mw.panel.Container(), canvasArea)
	split.SetOffset(0.22)

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar), // bottom
		nil, nil,
		split,
	)

	mw.SetContent(content)
	mw.Resize(fyne.NewSize(1200, 800))
}

// wireMachine connects the interaction machine's side effects to the UI.
func (mw *MainWindow) wireMachine() {
	m := mw.state.Machine

	m.OnChange = func() { mw.canvas.Refresh() }
	m.ShowMagnifier = mw.balloon.Show
	m.HideMagnifier = mw.balloon.Hide
	m.OnColorChange = mw.updateSwatch

	m.ConfirmPointDelete = func(apply func()) {
		dialog.ShowConfirm("Delete Point", "Remove this vertex?", func(ok bool) {
			if ok {
				apply()
			}
		}, mw.Window)
	}

	mw.state.Store.ClassPrompt = func() (string, bool) {
		return mw.activeClass, true
	}

	m.SetMode(interaction.ModeFromString(mw.prefs.String(prefKeyMode, "free")))
	m.SetContinuousFree(mw.prefs.Bool(prefKeyContinuous, true))
}

// createToolbar builds the mode selector, zoom combo, palette buttons, and
// the continuous-draw toggle.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	modeSelect := widget.NewSelect([]string{"free", "box", "rect", "selection"}, func(s string) {
		mw.state.Machine.SetMode(interaction.ModeFromString(s))
		mw.prefs.SetString(prefKeyMode, s)
		mw.updateStatus("Mode: " + s)
	})
	modeSelect.SetSelected(mw.state.Machine.Mode().String())

	mw.zoomSelect = widget.NewSelect(zoomChoices, mw.onZoomSelected)
	mw.zoomSelect.SetSelected("100%")

	// One button per palette slot; the swatch shows the active color.
	colorButtons := make([]fyne.CanvasObject, 0, len(annotation.Palette))
	for i, hex := range annotation.Palette {
		hex := hex
		colorButtons = append(colorButtons, widget.NewButton(strconv.Itoa(i+1), func() {
			mw.state.Machine.SetActiveColor(hex)
			mw.updateSwatch(hex)
		}))
	}

	mw.colorSwatch = fynecanvas.NewRectangle(parseSwatchColor(mw.state.Machine.ActiveColor()))
	mw.colorSwatch.SetMinSize(fyne.NewSize(24, 24))

	continuousCheck := widget.NewCheck("Continuous", func(v bool) {
		mw.state.Machine.SetContinuousFree(v)
		mw.prefs.SetBool(prefKeyContinuous, v)
	})
	continuousCheck.SetChecked(mw.state.Machine.ContinuousFree())

	classBtn := widget.NewButton("Class: "+mw.activeClass, nil)
	classBtn.OnTapped = func() {
		dialogs.ShowClassPicker(mw.Window, mw.activeClass, func(id string) {
			mw.activeClass = id
			mw.prefs.SetString(prefKeyClass, id)
			classBtn.SetText("Class: " + id)
		})
	}

	items := []fyne.CanvasObject{
		widget.NewLabel("Mode:"), modeSelect,
		widget.NewLabel("Zoom:"), mw.zoomSelect,
		widget.NewSeparator(),
	}
	items = append(items, colorButtons...)
	items = append(items, mw.colorSwatch, widget.NewSeparator(), continuousCheck, classBtn)
	return container.NewHBox(items...)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItem("Open Labels...", mw.onOpenLabels),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Labels", mw.onSaveLabels),
		fyne.NewMenuItem("Save Labels As...", mw.onSaveLabelsAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Simplify Polygon...", mw.onSimplify),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Delete All Polygons", mw.onDeleteAll),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", func() { mw.zoomBy(interaction.WheelZoomFactor) }),
		fyne.NewMenuItem("Zoom Out", func() { mw.zoomBy(1 / interaction.WheelZoomFactor) }),
		fyne.NewMenuItem("Actual Size", mw.onActualSize),
		fyne.NewMenuItem("Fit to Window", mw.onFit),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(appstate.EventImageLoaded, func(data interface{}) {
		if layer, ok := data.(*image.Layer); ok {
			mw.SetTitle("EZ Label - " + filepath.Base(layer.Path))
			mw.updateStatus(fmt.Sprintf("Image loaded: %dx%d", layer.Width(), layer.Height()))
		}
		mw.canvas.Refresh()
	})

	mw.state.On(appstate.EventPolygonsChanged, func(interface{}) {
		mw.canvas.Refresh()
	})

	mw.state.On(appstate.EventZoomChanged, func(data interface{}) {
		if percent, ok := data.(int); ok {
			mw.setZoomLabel(percent)
		}
	})

	mw.state.On(appstate.EventLabelsSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.updateStatus("Labels saved: " + path)
		}
	})

	mw.state.On(appstate.EventLabelsLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.updateStatus("Labels loaded: " + path)
		}
		mw.canvas.Refresh()
	})

	mw.state.On(appstate.EventModified, func(data interface{}) {
		if modified, ok := data.(bool); ok && modified {
			title := mw.Title()
			if len(title) > 0 && title[len(title)-1] != '*' {
				mw.SetTitle(title + " *")
			}
		}
	})
}

// restoreSession reloads the last image and its labels from preferences.
func (mw *MainWindow) restoreSession() {
	path := mw.prefs.String(prefKeyLastImage, "")
	if path == "" {
		return
	}
	if err := mw.state.OpenImage(path); err != nil {
		mw.updateStatus("Could not restore " + filepath.Base(path))
	}
}

// SavePreferences flushes preferences to disk.
func (mw *MainWindow) SavePreferences() {
	if err := mw.prefs.Save(); err != nil {
		mw.updateStatus("Failed to save preferences: " + err.Error())
	}
}

// SavePreferencesIfChanged flushes preferences only when dirty.
func (mw *MainWindow) SavePreferencesIfChanged() {
	_ = mw.prefs.SaveIfChanged()
}

func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) updateSwatch(hex string) {
	mw.colorSwatch.FillColor = parseSwatchColor(hex)
	mw.colorSwatch.Refresh()
}

// setZoomLabel reflects an externally driven zoom (wheel) in the combo
// without re-triggering the handler for known percentages.
func (mw *MainWindow) setZoomLabel(percent int) {
	label := strconv.Itoa(percent) + "%"
	for _, choice := range zoomChoices {
		if choice == label {
			mw.zoomSelect.Selected = label
			mw.zoomSelect.Refresh()
			return
		}
	}
	mw.zoomSelect.PlaceHolder = label
	mw.zoomSelect.Selected = ""
	mw.zoomSelect.Refresh()
}

func (mw *MainWindow) onZoomSelected(choice string) {
	if choice == "Fit" {
		mw.onFit()
		return
	}
	pct, err := strconv.Atoi(strings.TrimSuffix(choice, "%"))
	if err != nil {
		return
	}
	mw.state.View.SetScale(float64(pct) / 100)
	mw.canvas.Refresh()
}

func (mw *MainWindow) zoomBy(factor float64) {
	size := mw.canvas.Size()
	mw.state.Machine.Wheel(float64(size.Width)/2, float64(size.Height)/2, factorToDelta(factor))
}

func factorToDelta(factor float64) float64 {
	if factor >= 1 {
		return 1
	}
	return -1
}

func (mw *MainWindow) onActualSize() {
	mw.state.View.SetScale(1.0)
	mw.setZoomLabel(100)
	mw.canvas.Refresh()
}

func (mw *MainWindow) onFit() {
	mw.canvas.FitImage()
	mw.setZoomLabel(mw.state.View.ZoomPercent())
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefKeyLastDir, "")
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefKeyLastDir, filepath.Dir(filePath))
}

// Menu action handlers

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.OpenImage(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.prefs.SetString(prefKeyLastImage, path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(image.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onOpenLabels() {
	if !mw.state.HasImage() {
		mw.updateStatus("Load an image before loading labels")
		return
	}
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.LoadLabels(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".txt"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveLabels() {
	if !mw.state.HasImage() {
		mw.updateStatus("Nothing to save")
		return
	}
	path := mw.state.LabelPath
	if path == "" {
		path = mw.state.LabelPathForImage()
	}
	if path == "" {
		mw.onSaveLabelsAs()
		return
	}
	if err := mw.state.SaveLabels(path); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveLabelsAs() {
	if !mw.state.HasImage() {
		mw.updateStatus("Nothing to save")
		return
	}
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".txt" {
			path += ".txt"
		}
		mw.saveLastDir(path)
		if err := mw.state.SaveLabels(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName(filepath.Base(mw.state.LabelPathForImage()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSimplify() {
	entry := widget.NewEntry()
	entry.SetText("2.0")
	content := container.NewVBox(
		widget.NewLabel("Tolerance in image pixels:"),
		entry,
	)
	dialog.ShowCustomConfirm("Simplify Polygon", "Apply", "Cancel", content,
		func(ok bool) {
			if !ok {
				return
			}
			eps, err := strconv.ParseFloat(entry.Text, 64)
			if err != nil || eps <= 0 {
				mw.updateStatus("Invalid tolerance")
				return
			}
			color := mw.state.Machine.ActiveColor()
			if mw.state.Store.Simplify(color, eps) {
				mw.updateStatus("Polygon simplified")
			} else {
				mw.updateStatus("Nothing to simplify for the active color")
			}
		}, mw.Window)
}

func (mw *MainWindow) onDeleteAll() {
	dialog.ShowConfirm("Delete All", "Remove every polygon?", func(ok bool) {
		if ok {
			mw.state.Store.ClearAll()
		}
	}, mw.Window)
}

// parseSwatchColor decodes a "#RRGGBB" palette key for the toolbar swatch.
func parseSwatchColor(hex string) color.Color {
	if len(hex) != 7 || hex[0] != '#' {
		return color.White
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return color.White
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About EZ Label",
		fmt.Sprintf("EZ Label v%s\n\n"+
			"A polygon and bounding box annotator for YOLO datasets.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
