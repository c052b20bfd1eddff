package metadata

import "github.com/pkg/errors"

var (
	// ErrParse reports malformed or inconsistent input rows, columns or patterns.
	ErrParse = errors.New("parse error")
	// ErrFileSystem reports missing directories, unreadable or unwritable files and scans
	// that found nothing.
	ErrFileSystem = errors.New("file system error")
	// ErrContractViolation reports a grouping column that does not label every sample exactly
	// once. It is a specialisation of ErrParse: errors.Is matches both.
	ErrContractViolation error = &contractViolation{msg: "contract violation"}
)

type contractViolation struct {
	msg string
}

func (c *contractViolation) Error() string { return c.msg }

func (*contractViolation) Unwrap() error { return ErrParse }

func parseErrorf(format string, args ...any) error {
	return errors.Wrapf(ErrParse, format, args...)
}

func fsErrorf(format string, args ...any) error {
	return errors.Wrapf(ErrFileSystem, format, args...)
}

func contractErrorf(format string, args ...any) error {
	return errors.Wrapf(ErrContractViolation, format, args...)
}
