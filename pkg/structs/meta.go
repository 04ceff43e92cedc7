package structs

// Well-known job meta keys written by the executing worker.
const (
	// MetaOverallProgress is the coarse 0-100 progress reported inline
	// by the process itself.
	MetaOverallProgress = "overall_progress"

	// MetaPipelineProgress is the per-subtask completion percentage
	// reconciled from the trace file and the tool's own progress lines.
	MetaPipelineProgress = "pipeline_progress"

	// MetaCurrentTask is the simplified label of the subtask most
	// recently announced on stdout.
	MetaCurrentTask = "current_task"

	// MetaResultsDir is the output location announced by the process.
	MetaResultsDir = "results_dir"

	// MetaPeakRSSBytes is the peak resident memory observed for the
	// process over the whole run.
	MetaPeakRSSBytes = "peak_rss_bytes"

	// MetaAvgCPUPercent is the running average CPU utilization.
	MetaAvgCPUPercent = "avg_cpu_percent"

	// MetaStderrTail is the last few KiB of stderr, kept as a diagnostic
	// snippet after the run ends.
	MetaStderrTail = "stderr_tail"
)

// CurrentTaskDone is the current_task value set when a job finishes cleanly.
const CurrentTaskDone = "Completed"
