package provision

import (
	"fmt"
	"strings"

	"github.com/vmplane/vmplane/internal/db/models"
)

// successMarkerFormat is the sentinel line the creation script prints once
// the named VM exists. A zero exit without this marker is not trusted: the
// script can exit cleanly after silently skipping a step.
const successMarkerFormat = "✅ VM '%s' created"

// SuccessMarker returns the sentinel output expected for the given VM name
func SuccessMarker(name string) string {
	return fmt.Sprintf(successMarkerFormat, name)
}

// Classify maps a tool outcome to the terminal job status and result text
// for the VM it was expected to create.
//
// The match is plain substring search on unstructured tool output. It is a
// known-fragile heuristic kept for compatibility with the automation script;
// it is isolated here so it stays easy to test and replace.
func Classify(outcome Outcome, expectedName string) (models.VMStatus, string) {
	if !outcome.Succeeded {
		return models.VMStatusError, "ERROR: " + outcome.Error
	}

	marker := SuccessMarker(expectedName)
	if strings.Contains(outcome.Output, marker) {
		return models.VMStatusSuccess, "SUCCESS: " + outcome.Output
	}

	return models.VMStatusError, fmt.Sprintf(
		"ERROR: tool exited cleanly but its output did not contain the expected success marker %q", marker)
}
