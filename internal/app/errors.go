package app

// DomainError is a service-level failure the HTTP layer can map straight to
// a response: Status is the HTTP code, Code the machine-readable error name.
// Details is optional structured context, like the in-use matter count on an
// owner deletion conflict.
type DomainError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return e.Code + ": " + e.Message
}

func domainError(status int, code, message string, details any) *DomainError {
	return &DomainError{Status: status, Code: code, Message: message, Details: details}
}
