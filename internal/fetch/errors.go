package fetch

import (
	"errors"
	"fmt"
)

// TransientError marks a fetch failure that was worth retrying (timeouts,
// connection resets, 5xx). By the time a caller sees one, the retry budget
// is already spent.
type TransientError struct {
	URL string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient fetch failure for %s: %v", e.URL, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// PermanentError marks a fetch failure that retrying cannot fix: 4xx
// responses, disallowed URLs, malformed requests.
type PermanentError struct {
	URL    string
	Status int
	Err    error
}

func (e *PermanentError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("permanent fetch failure for %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("permanent fetch failure for %s: %v", e.URL, e.Err)
}

func (e *PermanentError) Unwrap() error { return e.Err }

// IsTransient reports whether err is (or wraps) a TransientError.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
