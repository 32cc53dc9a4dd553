// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"roi-annotator/internal/annotation"
	"roi-annotator/internal/imageio"
	"roi-annotator/internal/project"
	"roi-annotator/internal/session"
	"roi-annotator/internal/version"
	"roi-annotator/ui/canvas"
	"roi-annotator/ui/dialogs"
	"roi-annotator/ui/panels"
	"roi-annotator/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app    fyne.App
	logger *slog.Logger
	prefs  *prefs.Prefs

	store   *annotation.Store
	session *session.Session
	canvas  *canvas.AnnotationCanvas

	sidePanel *panels.SidePanel
	statusBar *widget.Label
	drawBtn   *widget.Button

	proj     *project.File
	projPath string
}

// New creates the main window over an already-constructed session.
func New(fyneApp fyne.App, sess *session.Session, p *prefs.Prefs, logger *slog.Logger) *MainWindow {
	win := fyneApp.NewWindow(fmt.Sprintf("ROI Annotator %s", version.Version))

	mw := &MainWindow{
		Window:  win,
		app:     fyneApp,
		logger:  logger,
		prefs:   p,
		store:   sess.Store(),
		session: sess,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.attachGuard()

	return mw
}

// Prompt is handed to the navigation guard at wiring time; it opens the
// unsaved-changes dialog. The session is constructed before the window, so
// the binding goes through this package-level indirection.
func (mw *MainWindow) Prompt() {
	mw.showUnsavedDialog()
}

func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewAnnotationCanvas(mw.store, mw.logger)
	if l := annotation.Label(mw.prefs.DefaultLabel()); annotation.IsKnownLabel(l) {
		mw.canvas.SetDefaultLabel(l)
	}
	mw.sidePanel = panels.NewSidePanel(mw.store, mw.logger)
	mw.sidePanel.SetWindow(mw.Window)
	mw.statusBar = widget.NewLabel("No project open")

	toolbar := mw.createToolbar()

	canvasArea := container.NewBorder(
		toolbar, nil, nil, nil,
		mw.canvas.Container(),
	)

	split := container.NewHSplit(mw.sidePanel.Container(), canvasArea)
	split.SetOffset(0.25)

	content := container.NewBorder(
		nil, container.NewPadded(mw.statusBar), nil, nil,
		split,
	)

	mw.SetContent(content)
	mw.Resize(fyne.NewSize(1200, 800))
}

func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	mw.drawBtn = widget.NewButton("Draw Box", func() {
		mw.canvas.SetDrawMode(!mw.canvas.DrawMode())
		if mw.canvas.DrawMode() {
			mw.drawBtn.Importance = widget.HighImportance
		} else {
			mw.drawBtn.Importance = widget.MediumImportance
		}
		mw.drawBtn.Refresh()
	})

	deleteBtn := widget.NewButton("Delete", mw.onDeleteSelected)
	confirmBtn := widget.NewButton("Confirm", mw.onConfirmSelected)

	zoomOutBtn := widget.NewButton("-", func() { mw.canvas.ZoomOut() })
	zoomInBtn := widget.NewButton("+", func() { mw.canvas.ZoomIn() })
	fitBtn := widget.NewButton("Fit", func() { mw.canvas.FitToWindow() })
	actualBtn := widget.NewButton("1:1", func() { mw.canvas.SetZoom(1.0) })
	rotateBtn := widget.NewButton("Rotate", func() { mw.canvas.RotateClockwise() })

	saveBtn := widget.NewButton("Save", mw.onSave)

	return container.NewHBox(
		mw.drawBtn,
		deleteBtn,
		confirmBtn,
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		fitBtn,
		actualBtn,
		rotateBtn,
		widget.NewSeparator(),
		saveBtn,
	)
}

func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Project...", mw.onNewProject),
		fyne.NewMenuItem("Open Project...", mw.onOpenProject),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save", mw.onSave),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences...", mw.onPreferences),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			mw.requestClose(func() {
				mw.session.Guard().Detach()
				mw.app.Quit()
			})
		}),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", func() { mw.canvas.ZoomIn() }),
		fyne.NewMenuItem("Zoom Out", func() { mw.canvas.ZoomOut() }),
		fyne.NewMenuItem("Fit to Window", func() { mw.canvas.FitToWindow() }),
		fyne.NewMenuItem("Actual Size", func() { mw.canvas.SetZoom(1.0) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Rotate 90°", func() { mw.canvas.RotateClockwise() }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, helpMenu))
}

func (mw *MainWindow) setupEventHandlers() {
	mw.store.On(annotation.EventDetectionsChanged, func(interface{}) {
		mw.updateStatusBar()
	})
	mw.canvas.OnZoomChange(func(zoom float64) {
		mw.prefs.SetZoom(zoom)
		mw.updateStatusBar()
	})
}

// attachGuard wires the navigation guard into the window close lifecycle.
// Closing with unsaved edits opens the confirmation instead of quitting.
func (mw *MainWindow) attachGuard() {
	ci := &closeInterceptor{}
	mw.session.Guard().Attach(ci)
	mw.SetCloseIntercept(func() {
		if ci.shouldBlock != nil && ci.shouldBlock() {
			mw.requestClose(mw.teardown)
			return
		}
		mw.teardown()
	})
}

// teardown detaches the guard from the close lifecycle and closes the
// window.
func (mw *MainWindow) teardown() {
	mw.session.Guard().Detach()
	mw.Close()
}

// requestClose runs the teardown through the guard so unsaved edits get a
// confirmation first.
func (mw *MainWindow) requestClose(teardown func()) {
	mw.session.Guard().Guard(teardown)
}

// showUnsavedDialog presents the three-way unsaved-changes choice and feeds
// the answer back to the guard.
func (mw *MainWindow) showUnsavedDialog() {
	guard := mw.session.Guard()

	var d dialog.Dialog
	saveBtn := widget.NewButton("Save and close", func() {
		d.Hide()
		guard.Resolve(context.Background(), session.ResolutionSaveAndLeave)
	})
	saveBtn.Importance = widget.HighImportance
	discardBtn := widget.NewButton("Discard changes", func() {
		d.Hide()
		guard.Resolve(context.Background(), session.ResolutionLeave)
	})
	stayBtn := widget.NewButton("Keep editing", func() {
		d.Hide()
		guard.Resolve(context.Background(), session.ResolutionStay)
	})

	content := container.NewVBox(
		widget.NewLabel("This image has unsaved annotation changes."),
		saveBtn,
		discardBtn,
		stayBtn,
	)
	d = dialog.NewCustomWithoutButtons("Unsaved changes", content, mw.Window)
	d.Show()
}

func (mw *MainWindow) onSave() {
	if err := mw.session.Save(context.Background()); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.updateStatusBar()
}

func (mw *MainWindow) onDeleteSelected() {
	id := mw.store.SelectedID()
	if id == "" {
		return
	}
	mw.store.Remove(id)
}

// onConfirmSelected marks a model detection as reviewed without touching
// its geometry.
func (mw *MainWindow) onConfirmSelected() {
	id := mw.store.SelectedID()
	if id == "" {
		return
	}
	mw.store.Update(id, func(d *annotation.Detection) {
		if d.Status == annotation.StatusModelGenerated {
			d.Status = annotation.StatusUserConfirmed
		}
	})
}

// onPreferences edits the application-wide settings and pushes the result
// into the live canvas and store.
func (mw *MainWindow) onPreferences() {
	dialogs.ShowPreferences(mw.prefs, mw.Window, func() {
		if l := annotation.Label(mw.prefs.DefaultLabel()); annotation.IsKnownLabel(l) {
			mw.canvas.SetDefaultLabel(l)
		}
		if mw.prefs.PromoteOnEdit() {
			mw.store.SetPromotionPolicy(annotation.PromoteOnEdit)
		} else {
			mw.store.SetPromotionPolicy(annotation.KeepStatusOnEdit)
		}
	})
}

func (mw *MainWindow) onNewProject() {
	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		proj := project.New(filepath.Base(path))
		if err := proj.Save(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.openProjectFile(proj, path)
	}, mw.Window)
}

func (mw *MainWindow) onOpenProject() {
	open := func() {
		fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil || reader == nil {
				return
			}
			path := reader.URI().Path()
			reader.Close()

			proj, err := project.Load(path)
			if err != nil {
				dialog.ShowError(err, mw.Window)
				return
			}
			mw.openProjectFile(proj, path)
		}, mw.Window)
		fd.SetFilter(storage.NewExtensionFileFilter([]string{".roiproj"}))
		fd.Show()
	}
	mw.session.Guard().Guard(open)
}

func (mw *MainWindow) onOpenImage() {
	if mw.proj == nil {
		dialog.ShowInformation("No project", "Create or open a project first.", mw.Window)
		return
	}
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		if err := mw.loadImage(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.proj.SetImage(mw.projPath, path)
		if err := mw.proj.Save(mw.projPath); err != nil {
			mw.logger.Error("failed to save project", "error", err)
		}
		mw.prefs.SetLastDirectory(filepath.Dir(path))
		if err := mw.prefs.Save(); err != nil {
			mw.logger.Error("failed to save preferences", "error", err)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(imageio.SupportedFormats()))
	fd.Show()
}

// openProjectFile switches the session to the given project: re-points the
// detection backend, reloads the detections, and restores the image.
func (mw *MainWindow) openProjectFile(proj *project.File, path string) {
	mw.proj = proj
	mw.projPath = path

	backend := project.NewDetectionStore(proj.GetDetectionsPath(path))
	mw.session.SetBackend(backend, backend)

	if err := mw.session.Open(context.Background(), proj.UploadID); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.applyProjectSettings(proj.Settings)

	if imgPath := proj.GetImagePath(path); imgPath != "" {
		if err := mw.loadImage(imgPath); err != nil {
			mw.logger.Error("failed to restore project image", "path", imgPath, "error", err)
		} else {
			mw.canvas.SetZoom(mw.prefs.Zoom(mw.canvas.Zoom()))
		}
	}

	mw.prefs.SetLastProject(path)
	if err := mw.prefs.Save(); err != nil {
		mw.logger.Error("failed to save preferences", "error", err)
	}

	mw.SetTitle(fmt.Sprintf("ROI Annotator %s - %s", version.Version, proj.Name))
	mw.updateStatusBar()
}

// applyProjectSettings pushes the project's per-file settings into the
// store and canvas. Project settings win over application preferences
// while the project is open.
func (mw *MainWindow) applyProjectSettings(s project.Settings) {
	if l := annotation.Label(s.DefaultLabel); annotation.IsKnownLabel(l) {
		mw.canvas.SetDefaultLabel(l)
	}
	if s.PromoteOnEdit {
		mw.store.SetPromotionPolicy(annotation.PromoteOnEdit)
	} else {
		mw.store.SetPromotionPolicy(annotation.KeepStatusOnEdit)
	}
	mw.canvas.SetShowConfidence(s.ShowConfidence)
}

func (mw *MainWindow) loadImage(path string) error {
	layer, err := imageio.Load(path)
	if err != nil {
		return err
	}
	mw.canvas.SetLayer(layer)
	mw.canvas.FitToWindow()
	return nil
}

// OpenProjectPath opens a project from a filesystem path, used for the
// command line argument and the last-project restore.
func (mw *MainWindow) OpenProjectPath(path string) error {
	proj, err := project.Load(path)
	if err != nil {
		return err
	}
	mw.openProjectFile(proj, path)
	return nil
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About",
		fmt.Sprintf("ROI Annotator %s\n\nBounding box review and annotation for life-stage detection images.", version.Full()),
		mw.Window)
}

func (mw *MainWindow) updateStatusBar() {
	verification := mw.store.Verification()
	count := len(mw.store.Visible())
	dirty := ""
	if mw.session.Guard().HasUnsavedChanges() {
		dirty = " (unsaved)"
	}
	mw.statusBar.SetText(fmt.Sprintf("%d detections | %s%s | zoom %.0f%%",
		count, verificationLabel(verification), dirty, mw.canvas.Zoom()*100))
}

func verificationLabel(v annotation.VerificationStatus) string {
	switch v {
	case annotation.VerificationVerified:
		return "verified"
	case annotation.VerificationUnverified:
		return "unverified"
	case annotation.VerificationInProgress:
		return "in progress"
	default:
		return "no detections"
	}
}

// closeInterceptor adapts the fyne close lifecycle to the guard's unload
// contract. Registration remembers the dirtiness check; the window's close
// intercept consults it before tearing down.
type closeInterceptor struct {
	shouldBlock func() bool
}

func (ci *closeInterceptor) Register(shouldBlock func() bool) {
	ci.shouldBlock = shouldBlock
}

func (ci *closeInterceptor) Unregister() {
	ci.shouldBlock = nil
}
