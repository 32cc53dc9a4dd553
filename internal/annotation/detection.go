// Package annotation provides the detection data model and the canonical
// mutable store the interaction controllers read and write through.
package annotation

import (
	"time"

	"roi-annotator/pkg/geometry"

	"github.com/google/uuid"
)

// Label classifies a detection into one of the known life-stage classes.
type Label string

const (
	LabelEgg   Label = "egg"
	LabelLarva Label = "larva"
	LabelPupa  Label = "pupa"
	LabelAdult Label = "adult"
)

// DefaultLabel is assigned to boxes drawn by hand.
const DefaultLabel = LabelLarva

// KnownLabels returns every label the application understands, in display order.
func KnownLabels() []Label {
	return []Label{LabelEgg, LabelLarva, LabelPupa, LabelAdult}
}

// IsKnownLabel reports whether l is one of the known classes.
func IsKnownLabel(l Label) bool {
	for _, k := range KnownLabels() {
		if k == l {
			return true
		}
	}
	return false
}

// Status tracks the review lifecycle of a detection.
type Status string

const (
	StatusModelGenerated      Status = "model_generated"
	StatusUserCreated         Status = "user_created"
	StatusUserConfirmed       Status = "user_confirmed"
	StatusUserEditedConfirmed Status = "user_edited_confirmed"
	StatusDeleted             Status = "deleted"
)

// Detection is a labeled rectangular annotation over an image. Coordinates
// are in the image's natural pixel space, independent of on-screen zoom or
// pan. Other layers must serialize this field set losslessly.
type Detection struct {
	ID         string   `json:"id"`
	UploadID   string   `json:"uploadId"`
	Label      Label    `json:"label"`
	Confidence *float64 `json:"confidence"` // nil for user-drawn boxes

	XMin float64 `json:"xMin"`
	YMin float64 `json:"yMin"`
	XMax float64 `json:"xMax"`
	YMax float64 `json:"yMax"`

	Status Status `json:"status"`

	// Audit fields, carried through unchanged by the geometry engine.
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	CreatedByID      string     `json:"createdById,omitempty"`
	LastModifiedByID string     `json:"lastModifiedById,omitempty"`
	DeletedAt        *time.Time `json:"deletedAt,omitempty"`
}

// NewUserDetection creates a detection for a box drawn by the user. The box
// is normalized before it is stored.
func NewUserDetection(uploadID string, box Box, label Label, userID string) *Detection {
	now := time.Now()
	b := box.Normalize()
	return &Detection{
		ID:               uuid.New().String(),
		UploadID:         uploadID,
		Label:            label,
		Confidence:       nil,
		XMin:             b.XMin,
		YMin:             b.YMin,
		XMax:             b.XMax,
		YMax:             b.YMax,
		Status:           StatusUserConfirmed,
		CreatedAt:        now,
		UpdatedAt:        now,
		CreatedByID:      userID,
		LastModifiedByID: userID,
	}
}

// Box returns the detection's rectangle.
func (d *Detection) Box() Box {
	return Box{XMin: d.XMin, YMin: d.YMin, XMax: d.XMax, YMax: d.YMax}
}

// SetBox replaces the detection's rectangle.
func (d *Detection) SetBox(b Box) {
	d.XMin, d.YMin, d.XMax, d.YMax = b.XMin, b.YMin, b.XMax, b.YMax
}

// Verified reports whether the detection has been reviewed by a user.
func (d *Detection) Verified() bool {
	return d.Status == StatusUserConfirmed || d.Status == StatusUserEditedConfirmed
}

// Deleted reports whether the detection is soft-deleted.
func (d *Detection) Deleted() bool {
	return d.Status == StatusDeleted
}

// Clone returns a deep copy of the detection.
func (d *Detection) Clone() *Detection {
	c := *d
	if d.Confidence != nil {
		v := *d.Confidence
		c.Confidence = &v
	}
	if d.DeletedAt != nil {
		t := *d.DeletedAt
		c.DeletedAt = &t
	}
	return &c
}

// Equal compares two detections field by field, excluding the CreatedAt
// and UpdatedAt timestamps. Used for dirty tracking, where a touched
// timestamp without a content change must not count as an edit.
func (d *Detection) Equal(other *Detection) bool {
	if d == nil || other == nil {
		return d == other
	}
	if d.ID != other.ID || d.UploadID != other.UploadID ||
		d.Label != other.Label || d.Status != other.Status {
		return false
	}
	if (d.Confidence == nil) != (other.Confidence == nil) {
		return false
	}
	if d.Confidence != nil && *d.Confidence != *other.Confidence {
		return false
	}
	if d.XMin != other.XMin || d.YMin != other.YMin ||
		d.XMax != other.XMax || d.YMax != other.YMax {
		return false
	}
	if (d.DeletedAt == nil) != (other.DeletedAt == nil) {
		return false
	}
	if d.DeletedAt != nil && !d.DeletedAt.Equal(*other.DeletedAt) {
		return false
	}
	return d.CreatedByID == other.CreatedByID &&
		d.LastModifiedByID == other.LastModifiedByID
}

// ValidFor reports whether the detection's rectangle satisfies the geometry
// invariant for an image of the given natural size.
func (d *Detection) ValidFor(size geometry.Size) bool {
	return d.XMin >= 0 && d.XMin < d.XMax && d.XMax <= size.Width &&
		d.YMin >= 0 && d.YMin < d.YMax && d.YMax <= size.Height
}
