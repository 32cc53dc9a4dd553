package annotation

// DisplayFilter restricts the rendered detections by review state.
type DisplayFilter string

const (
	DisplayAll        DisplayFilter = "all"
	DisplayVerified   DisplayFilter = "verified"
	DisplayUnverified DisplayFilter = "unverified"
)

// ViewMode controls whether detections are rendered at all.
type ViewMode string

const (
	ViewNormal    ViewMode = "normal"
	ViewImageOnly ViewMode = "image_only"
	ViewNone      ViewMode = "none"
)

// FilterState is the combined filter input for Visible. Classes is the set
// of labels to show; an empty set shows nothing, and a set covering every
// known label is treated as no class filtering at all.
type FilterState struct {
	Display DisplayFilter
	Classes map[Label]bool
	Mode    ViewMode
}

// NewFilterState returns the default filter: everything visible.
func NewFilterState() FilterState {
	classes := make(map[Label]bool)
	for _, l := range KnownLabels() {
		classes[l] = true
	}
	return FilterState{Display: DisplayAll, Classes: classes, Mode: ViewNormal}
}

// allClasses reports whether every known label is selected.
func (f FilterState) allClasses() bool {
	for _, l := range KnownLabels() {
		if !f.Classes[l] {
			return false
		}
	}
	return true
}

// Visible returns the subset of detections to render, as a pure projection
// of the inputs. Soft-deleted detections are never included.
func Visible(detections []*Detection, f FilterState) []*Detection {
	if f.Mode == ViewImageOnly || f.Mode == ViewNone {
		return nil
	}
	if len(f.Classes) == 0 {
		return nil
	}

	skipClassFilter := f.allClasses()

	var out []*Detection
	for _, d := range detections {
		if d.Deleted() {
			continue
		}
		switch f.Display {
		case DisplayVerified:
			if !d.Verified() {
				continue
			}
		case DisplayUnverified:
			if d.Verified() {
				continue
			}
		}
		if !skipClassFilter && !f.Classes[d.Label] {
			continue
		}
		out = append(out, d)
	}
	return out
}
