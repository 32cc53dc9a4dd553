// Command roistat prints the review state of a project's detections.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"roi-annotator/internal/annotation"
	"roi-annotator/internal/project"
)

func main() {
	projectPath := flag.String("project", "", "Path to a .roiproj project file")
	detectionsPath := flag.String("detections", "", "Path to a detections JSON file (overrides -project)")
	flag.Parse()

	if *projectPath == "" && *detectionsPath == "" {
		fmt.Println("Usage: roistat -project <path.roiproj> | -detections <path.json>")
		os.Exit(1)
	}

	uploadID := ""
	path := *detectionsPath
	if path == "" {
		proj, err := project.Load(*projectPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load project: %v\n", err)
			os.Exit(1)
		}
		uploadID = proj.UploadID
		path = proj.GetDetectionsPath(*projectPath)
		fmt.Printf("Project: %s\n", proj.Name)
	}

	store := project.NewDetectionStore(path)
	detections, err := store.LoadDetections(context.Background(), uploadID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load detections: %v\n", err)
		os.Exit(1)
	}

	byStatus := map[annotation.Status]int{}
	byLabel := map[annotation.Label]int{}
	var total, verified int
	for _, d := range detections {
		if d.Deleted() {
			continue
		}
		total++
		byStatus[d.Status]++
		byLabel[d.Label]++
		if d.Verified() {
			verified++
		}
	}

	fmt.Printf("Detections: %d\n", total)
	fmt.Printf("Review state: %s (%d/%d verified)\n", annotation.Aggregate(detections), verified, total)

	if total == 0 {
		return
	}

	fmt.Printf("\nBy status:\n")
	for _, s := range []annotation.Status{
		annotation.StatusModelGenerated,
		annotation.StatusUserCreated,
		annotation.StatusUserConfirmed,
		annotation.StatusUserEditedConfirmed,
	} {
		if n := byStatus[s]; n > 0 {
			fmt.Printf("  %-22s %d\n", s, n)
		}
	}

	fmt.Printf("\nBy label:\n")
	for _, l := range annotation.KnownLabels() {
		if n := byLabel[l]; n > 0 {
			fmt.Printf("  %-22s %d\n", l, n)
		}
	}
	if other := total - known(byLabel); other > 0 {
		fmt.Printf("  %-22s %d\n", "other", other)
	}
}

func known(byLabel map[annotation.Label]int) int {
	n := 0
	for _, l := range annotation.KnownLabels() {
		n += byLabel[l]
	}
	return n
}
