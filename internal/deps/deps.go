package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names an external binary vt shells out to.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	// VersionArgs makes Check run the binary once to read its version
	// banner, e.g. "-version".
	VersionArgs []string
}

// Status is the outcome of checking one Requirement.
type Status struct {
	Requirement
	Available bool
	Path      string
	Version   string
	// Detail explains why the binary is unavailable.
	Detail string
}

// Check resolves req on PATH (or as an explicit path) and, when found,
// probes its version.
func Check(ctx context.Context, req Requirement) Status {
	req.Command = strings.TrimSpace(req.Command)
	req.Description = strings.TrimSpace(req.Description)
	st := Status{Requirement: req}
	if req.Command == "" {
		st.Detail = "command not configured"
		return st
	}
	path, err := exec.LookPath(req.Command)
	if err != nil {
		st.Detail = fmt.Sprintf("binary %q not found", req.Command)
		return st
	}
	st.Available = true
	st.Path = path
	if len(req.VersionArgs) > 0 {
		st.Version = probeVersion(ctx, path, req.VersionArgs)
	}
	return st
}

// CheckBinaries runs Check for each requirement, in order.
func CheckBinaries(ctx context.Context, reqs []Requirement) []Status {
	out := make([]Status, len(reqs))
	for i, req := range reqs {
		out[i] = Check(ctx, req)
	}
	return out
}

// MissingRequired filters statuses down to unavailable, non-optional ones.
func MissingRequired(statuses []Status) []Status {
	var missing []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			missing = append(missing, s)
		}
	}
	return missing
}
