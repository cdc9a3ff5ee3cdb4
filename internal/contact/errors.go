package contact

import "errors"

// ErrSubmissionNotFound is returned when no submission matches the lookup.
var ErrSubmissionNotFound = errors.New("contact submission not found")
