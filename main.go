// Package main provides the entry point for the ROI Annotator application.
package main

import (
	"log/slog"
	"os"

	"roi-annotator/internal/annotation"
	"roi-annotator/internal/app"
	"roi-annotator/internal/session"
	"roi-annotator/ui/mainwindow"
	"roi-annotator/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(),
	}))
	slog.SetDefault(logger)

	fyneApp := fyneapp.NewWithID("io.roiannotator.app")
	fyneApp.Settings().SetTheme(app.NewAnnotatorTheme())

	appPrefs := prefs.Load()

	policy := annotation.PromoteOnEdit
	if !appPrefs.PromoteOnEdit() {
		policy = annotation.KeepStatusOnEdit
	}
	store := annotation.NewStore(policy, logger)

	// The unsaved-changes prompt lives on the window, which doesn't exist
	// yet; bind through a closure filled in below.
	var win *mainwindow.MainWindow
	prompt := func() {
		if win != nil {
			win.Prompt()
		}
	}
	sess := session.New(store, nil, nil, prompt, logger)

	win = mainwindow.New(fyneApp, sess, appPrefs, logger)

	projectPath := ""
	if len(os.Args) > 1 {
		projectPath = os.Args[1]
	} else if last := appPrefs.LastProject(); last != "" {
		if _, err := os.Stat(last); err == nil {
			projectPath = last
		}
	}
	if projectPath != "" {
		if err := win.OpenProjectPath(projectPath); err != nil {
			logger.Error("failed to open project", "path", projectPath, "error", err)
		}
	}

	win.ShowAndRun()
}

func logLevel() slog.Level {
	if os.Getenv("ROI_DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
