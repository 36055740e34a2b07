package pipeline

// RunStats tracks aggregate counters and byte totals across one job run.
type RunStats struct {
	Total            int // Camera directories configured.
	Produced         int // Artifacts written.
	Skipped          int // Cameras with no batch ready.
	Failed           int // Cameras whose batch could not be processed.
	Uploaded         int
	UploadFailed     int
	TotalOutputBytes int64
}
