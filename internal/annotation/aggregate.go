package annotation

// VerificationStatus summarizes the review state of an image's detections.
type VerificationStatus string

const (
	VerificationNoDetections VerificationStatus = "no_detections"
	VerificationVerified     VerificationStatus = "verified"
	VerificationUnverified   VerificationStatus = "unverified"
	VerificationInProgress   VerificationStatus = "in_progress"
)

// Aggregate derives a single display status from a set of detections.
// Soft-deleted detections are ignored.
func Aggregate(detections []*Detection) VerificationStatus {
	var total, verified int
	for _, d := range detections {
		if d.Deleted() {
			continue
		}
		total++
		if d.Verified() {
			verified++
		}
	}

	switch {
	case total == 0:
		return VerificationNoDetections
	case verified == total:
		return VerificationVerified
	case verified == 0:
		return VerificationUnverified
	default:
		return VerificationInProgress
	}
}
