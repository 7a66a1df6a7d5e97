package handler

import (
	"fmt"
	"net/http"

	"github.com/siddkalani/CRM-sub000/internal/metrics"
)

// MetricsHandler exposes service counters in plain-text exposition format.
type MetricsHandler struct {
	source metrics.Snapshotter
}

// NewMetricsHandler creates a MetricsHandler over the given counter source.
func NewMetricsHandler(source metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{source: source}
}

// Metrics handles GET /metrics.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	snap := h.source.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	counters := []struct {
		name  string
		help  string
		value uint64
	}{
		{"crm_users_registered_total", "Total user registrations.", snap.UsersRegistered},
		{"crm_login_success_total", "Total successful logins.", snap.LoginSuccesses},
		{"crm_login_failure_total", "Total failed logins.", snap.LoginFailures},
		{"crm_leads_created_total", "Total leads created.", snap.LeadsCreated},
		{"crm_leads_updated_total", "Total leads updated.", snap.LeadsUpdated},
		{"crm_leads_deleted_total", "Total leads deleted.", snap.LeadsDeleted},
		{"crm_contacts_created_total", "Total contacts created.", snap.ContactsCreated},
		{"crm_contacts_updated_total", "Total contacts updated.", snap.ContactsUpdated},
		{"crm_contacts_deleted_total", "Total contacts deleted.", snap.ContactsDeleted},
		{"crm_notes_added_total", "Total notes added.", snap.NotesAdded},
		{"crm_notes_updated_total", "Total notes updated.", snap.NotesUpdated},
		{"crm_notes_deleted_total", "Total notes deleted.", snap.NotesDeleted},
		{"crm_files_uploaded_total", "Total files relayed to the object store.", snap.FilesUploaded},
		{"crm_upload_bytes_total", "Total bytes relayed to the object store.", snap.UploadBytesTotal},
		{"crm_transcriptions_success_total", "Total successful transcriptions.", snap.TranscriptionsSuccess},
		{"crm_transcriptions_failed_total", "Total failed transcriptions.", snap.TranscriptionsFailed},
	}

	for _, c := range counters {
		fmt.Fprintf(w, "# HELP %s %s\n", c.name, c.help)
		fmt.Fprintf(w, "# TYPE %s counter\n", c.name)
		fmt.Fprintf(w, "%s %d\n", c.name, c.value)
	}
}
