package annotation

// PromotionPolicy decides how a detection's status changes when the user
// edits its geometry. It is injectable because drag and resize edits could
// reasonably either promote a box to user_edited_confirmed or leave its
// status alone; the store applies whichever policy it was constructed with.
type PromotionPolicy func(Status) Status

// PromoteOnEdit upgrades unreviewed and confirmed boxes to
// user_edited_confirmed when their geometry changes.
func PromoteOnEdit(s Status) Status {
	switch s {
	case StatusModelGenerated, StatusUserConfirmed:
		return StatusUserEditedConfirmed
	default:
		return s
	}
}

// KeepStatusOnEdit leaves the status untouched by geometry edits.
func KeepStatusOnEdit(s Status) Status {
	return s
}
