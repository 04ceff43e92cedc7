package structs

// DefaultTraceFile is the trace filename assumed when a RunSpec names none.
const DefaultTraceFile = "trace.txt"

// RunSpec is the decoded form of a job's parameter bundle: everything a
// worker needs to invoke the external pipeline process.
type RunSpec struct {
	// Path is the executable to invoke. Looked up on PATH if not absolute.
	Path string `json:"path"`

	// Args is the argument vector, excluding the executable itself.
	Args []string `json:"args"`

	// Dir is the working directory the process runs in.
	Dir string `json:"dir"`

	// Env holds environment overrides applied over the worker's environment.
	Env map[string]string `json:"env,omitempty"`

	// TraceFile names the progress trace file the process writes, relative
	// to Dir unless absolute.
	TraceFile string `json:"trace_file,omitempty"`
}

// TracePath returns the trace file location for this run.
func (r *RunSpec) TracePath() string {
	name := r.TraceFile
	if name == "" {
		name = DefaultTraceFile
	}
	if len(name) > 0 && name[0] == '/' {
		return name
	}
	if r.Dir == "" {
		return name
	}
	return r.Dir + "/" + name
}
