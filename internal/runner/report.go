package runner

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Result is the outcome of one script file during a pass.
type Result struct {
	Path     string
	Script   string
	Value    any
	Err      error
	Duration time.Duration
}

// Report describes one pass over the script directory.
type Report struct {
	ID        uuid.UUID
	StartedAt time.Time
	// Executed holds the @Startup scripts, in file name order.
	Executed []Result
	// Scheduled names scripts that carry a schedule. They are not run.
	Scheduled []string
	// Failed holds files that could not be loaded.
	Failed []Result
}

// Errors returns the load and run failures of the pass.
func (r *Report) Errors() []error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, res := range r.Failed {
		errs = append(errs, res.Err)
	}
	for _, res := range r.Executed {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errs
}
