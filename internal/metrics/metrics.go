// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Auth metrics
	IncUserRegistered()
	IncLoginSuccess()
	IncLoginFailure()

	// Entity metrics
	IncLeadCreated()
	IncLeadUpdated()
	IncLeadDeleted()
	IncContactCreated()
	IncContactUpdated()
	IncContactDeleted()

	// Note metrics
	IncNoteAdded()
	IncNoteUpdated()
	IncNoteDeleted()

	// File relay metrics
	IncFileUploaded()
	ObserveUploadSize(bytes int64)

	// Speech relay metrics
	IncTranscription(status string) // status: "success" or "failed"
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
