package validation

// Error is a user-facing validation failure. Handlers surface its message
// with a 400 status; any other error from a service is internal.
type Error string

func (e Error) Error() string { return string(e) }
