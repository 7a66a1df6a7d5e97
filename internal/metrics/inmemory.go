package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered       uint64
	LoginSuccesses        uint64
	LoginFailures         uint64
	LeadsCreated          uint64
	LeadsUpdated          uint64
	LeadsDeleted          uint64
	ContactsCreated       uint64
	ContactsUpdated       uint64
	ContactsDeleted       uint64
	NotesAdded            uint64
	NotesUpdated          uint64
	NotesDeleted          uint64
	FilesUploaded         uint64
	UploadBytesTotal      uint64
	TranscriptionsSuccess uint64
	TranscriptionsFailed  uint64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	usersRegistered       uint64
	loginSuccesses        uint64
	loginFailures         uint64
	leadsCreated          uint64
	leadsUpdated          uint64
	leadsDeleted          uint64
	contactsCreated       uint64
	contactsUpdated       uint64
	contactsDeleted       uint64
	notesAdded            uint64
	notesUpdated          uint64
	notesDeleted          uint64
	filesUploaded         uint64
	uploadBytesTotal      uint64
	transcriptionsSuccess uint64
	transcriptionsFailed  uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered:       atomic.LoadUint64(&m.usersRegistered),
		LoginSuccesses:        atomic.LoadUint64(&m.loginSuccesses),
		LoginFailures:         atomic.LoadUint64(&m.loginFailures),
		LeadsCreated:          atomic.LoadUint64(&m.leadsCreated),
		LeadsUpdated:          atomic.LoadUint64(&m.leadsUpdated),
		LeadsDeleted:          atomic.LoadUint64(&m.leadsDeleted),
		ContactsCreated:       atomic.LoadUint64(&m.contactsCreated),
		ContactsUpdated:       atomic.LoadUint64(&m.contactsUpdated),
		ContactsDeleted:       atomic.LoadUint64(&m.contactsDeleted),
		NotesAdded:            atomic.LoadUint64(&m.notesAdded),
		NotesUpdated:          atomic.LoadUint64(&m.notesUpdated),
		NotesDeleted:          atomic.LoadUint64(&m.notesDeleted),
		FilesUploaded:         atomic.LoadUint64(&m.filesUploaded),
		UploadBytesTotal:      atomic.LoadUint64(&m.uploadBytesTotal),
		TranscriptionsSuccess: atomic.LoadUint64(&m.transcriptionsSuccess),
		TranscriptionsFailed:  atomic.LoadUint64(&m.transcriptionsFailed),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() { atomic.AddUint64(&m.usersRegistered, 1) }

// IncLoginSuccess increments the successful login counter.
func (m *InMemoryRecorder) IncLoginSuccess() { atomic.AddUint64(&m.loginSuccesses, 1) }

// IncLoginFailure increments the failed login counter.
func (m *InMemoryRecorder) IncLoginFailure() { atomic.AddUint64(&m.loginFailures, 1) }

// IncLeadCreated increments the lead created counter.
func (m *InMemoryRecorder) IncLeadCreated() { atomic.AddUint64(&m.leadsCreated, 1) }

// IncLeadUpdated increments the lead updated counter.
func (m *InMemoryRecorder) IncLeadUpdated() { atomic.AddUint64(&m.leadsUpdated, 1) }

// IncLeadDeleted increments the lead deleted counter.
func (m *InMemoryRecorder) IncLeadDeleted() { atomic.AddUint64(&m.leadsDeleted, 1) }

// IncContactCreated increments the contact created counter.
func (m *InMemoryRecorder) IncContactCreated() { atomic.AddUint64(&m.contactsCreated, 1) }

// IncContactUpdated increments the contact updated counter.
func (m *InMemoryRecorder) IncContactUpdated() { atomic.AddUint64(&m.contactsUpdated, 1) }

// IncContactDeleted increments the contact deleted counter.
func (m *InMemoryRecorder) IncContactDeleted() { atomic.AddUint64(&m.contactsDeleted, 1) }

// IncNoteAdded increments the note added counter.
func (m *InMemoryRecorder) IncNoteAdded() { atomic.AddUint64(&m.notesAdded, 1) }

// IncNoteUpdated increments the note updated counter.
func (m *InMemoryRecorder) IncNoteUpdated() { atomic.AddUint64(&m.notesUpdated, 1) }

// IncNoteDeleted increments the note deleted counter.
func (m *InMemoryRecorder) IncNoteDeleted() { atomic.AddUint64(&m.notesDeleted, 1) }

// IncFileUploaded increments the upload counter.
func (m *InMemoryRecorder) IncFileUploaded() { atomic.AddUint64(&m.filesUploaded, 1) }

// ObserveUploadSize adds to the total relayed byte count.
func (m *InMemoryRecorder) ObserveUploadSize(bytes int64) {
	if bytes > 0 {
		atomic.AddUint64(&m.uploadBytesTotal, uint64(bytes))
	}
}

// IncTranscription increments the transcription counter for the given status.
func (m *InMemoryRecorder) IncTranscription(status string) {
	if status == "success" {
		atomic.AddUint64(&m.transcriptionsSuccess, 1)
		return
	}
	atomic.AddUint64(&m.transcriptionsFailed, 1)
}
