//go:build windows

package report

import (
	"errors"
	"io/fs"

	"golang.org/x/sys/windows"
)

// An open workbook in Excel holds a sharing lock rather than denying access.
func isLockError(err error) bool {
	return errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, windows.ERROR_SHARING_VIOLATION) ||
		errors.Is(err, windows.ERROR_LOCK_VIOLATION)
}
