package command

// ValidationError is a rejected command input. Field names the offending
// input and Message is the text shown to the shopper.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
