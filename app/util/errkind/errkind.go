package errkind

import (
	"errors"

	"github.com/samber/oops"
)

// Error codes carried on oops errors across the service boundary.
const (
	Configuration = "configuration"
	Validation    = "validation"
	Upstream      = "upstream"
	NotFound      = "not_found"
	Timeout       = "timeout"
)

func Is(err error, code string) bool {
	var oopsErr oops.OopsError
	if errors.As(err, &oopsErr) {
		return oopsErr.Code() == code
	}

	return false
}
