// Package inventory composes the execution context of one automation run:
// the merged variable set and the target-host map handed to the external
// runner. It is the only place the layered configuration fragments, the
// trading calendar and the caller's overrides meet.
package inventory

import (
	"errors"
	"fmt"
	"time"

	"github.com/vk/tradefleet/internal/fragment"
)

// VariableSet is the merged variable mapping attached at group scope.
// Later layers win on key collision; explicit overrides win over every
// file-derived layer.
type VariableSet = fragment.Record

// HostRecord describes one target machine: role-identifying fields from the
// node fragment merged with network/credential fields from the host
// fragment.
type HostRecord = fragment.Record

// Inventory is the terminal artifact of the resolution engine. It lives for
// one automation run and is never persisted.
type Inventory struct {
	Hosts map[string]HostRecord
	Vars  VariableSet
}

// ErrMissingArgument is returned when a required invocation parameter is
// empty.
var ErrMissingArgument = errors.New("missing required argument")

// MissingPlaybookError indicates that the resolved playbook path does not
// exist or is not a regular file.
type MissingPlaybookError struct {
	Path string
}

// Error implements the error interface for MissingPlaybookError.
func (e *MissingPlaybookError) Error() string {
	return fmt.Sprintf("missing playbook file: %s", e.Path)
}

// Clock supplies the local current date; injectable so tests can pin
// "today".
type Clock func() time.Time

// currentDate renders now as YYYYMMDD.
func currentDate(now Clock) string {
	return now().Format("20060102")
}
