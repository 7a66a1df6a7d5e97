package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserRegistered is a no-op.
func (n *NoopRecorder) IncUserRegistered() {}

// IncLoginSuccess is a no-op.
func (n *NoopRecorder) IncLoginSuccess() {}

// IncLoginFailure is a no-op.
func (n *NoopRecorder) IncLoginFailure() {}

// IncLeadCreated is a no-op.
func (n *NoopRecorder) IncLeadCreated() {}

// IncLeadUpdated is a no-op.
func (n *NoopRecorder) IncLeadUpdated() {}

// IncLeadDeleted is a no-op.
func (n *NoopRecorder) IncLeadDeleted() {}

// IncContactCreated is a no-op.
func (n *NoopRecorder) IncContactCreated() {}

// IncContactUpdated is a no-op.
func (n *NoopRecorder) IncContactUpdated() {}

// IncContactDeleted is a no-op.
func (n *NoopRecorder) IncContactDeleted() {}

// IncNoteAdded is a no-op.
func (n *NoopRecorder) IncNoteAdded() {}

// IncNoteUpdated is a no-op.
func (n *NoopRecorder) IncNoteUpdated() {}

// IncNoteDeleted is a no-op.
func (n *NoopRecorder) IncNoteDeleted() {}

// IncFileUploaded is a no-op.
func (n *NoopRecorder) IncFileUploaded() {}

// ObserveUploadSize is a no-op.
func (n *NoopRecorder) ObserveUploadSize(bytes int64) {}

// IncTranscription is a no-op.
func (n *NoopRecorder) IncTranscription(status string) {}
