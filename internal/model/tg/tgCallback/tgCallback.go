package tgCallback

// Inline button identifiers
const (
	ResetConfirm string = "reset_confirm" // wipe the whole price log
	ResetCancel  string = "reset_cancel"
)
