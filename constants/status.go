package constants

// JobStatus is the canonical status for rows in extraction_job.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusRunning   JobStatus = "RUNNING"   // extraction in progress
	JobStatusSucceeded JobStatus = "SUCCEEDED" // record accepted
	JobStatusFailed    JobStatus = "FAILED"    // terminal failure
)
