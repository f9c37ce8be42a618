package report

// ExitStatus is the process exit code derived from a run.
type ExitStatus int

const (
	// StatusClean means every block was resolved or there was nothing to do.
	StatusClean ExitStatus = 0
	// StatusPartial means at least one block remains unresolved.
	StatusPartial ExitStatus = 1
	// StatusError means a file could not be processed, or every attempted
	// block failed for lack of a working capability.
	StatusError ExitStatus = 2
)

func (s ExitStatus) String() string {
	switch s {
	case StatusClean:
		return "clean"
	case StatusPartial:
		return "partial"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Exit derives the exit status for a set of reports.
func Exit(reports []Report) ExitStatus {
	var blocks, capFailures, unresolved int
	for _, r := range reports {
		if r.Failed() {
			return StatusError
		}
		blocks += len(r.Blocks)
		unresolved += r.Unresolved
		if r.capabilityOnly() {
			capFailures += len(r.Blocks)
		}
	}
	switch {
	case blocks > 0 && capFailures == blocks:
		return StatusError
	case unresolved > 0:
		return StatusPartial
	default:
		return StatusClean
	}
}
