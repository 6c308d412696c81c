package domain

import "time"

// IngestReceipt is the server's acknowledgement of an accepted report.
type IngestReceipt struct {
	ServerID string `json:"server_id"`
}

type DrainSummary struct {
	Succeeded      int       `json:"succeeded"`
	Failed         int       `json:"failed"`
	NeedsAttention []string  `json:"needs_attention,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
}

func (s DrainSummary) Total() int {
	return s.Succeeded + s.Failed
}

type SubmitStatus string

const (
	SubmitDelivered SubmitStatus = "delivered"
	SubmitQueued    SubmitStatus = "queued"
)

type SubmitResult struct {
	Status   SubmitStatus `json:"status"`
	LocalID  string       `json:"local_id"`
	ServerID string       `json:"server_id,omitempty"`
	Notice   string       `json:"notice"`
	// Step is the capture step the submission ended on.
	Step string `json:"step,omitempty"`
}

// QueuedReport is the listing view of a pending report; photo bytes are omitted.
type QueuedReport struct {
	ID             string     `json:"id"`
	HazardType     HazardType `json:"hazard_type"`
	Severity       Severity   `json:"severity"`
	Location       Location   `json:"location"`
	Description    string     `json:"description,omitempty"`
	Anonymous      bool       `json:"anonymous"`
	PhotoBytes     int        `json:"photo_bytes"`
	CapturedAt     time.Time  `json:"captured_at"`
	Attempts       int        `json:"attempts"`
	NeedsAttention bool       `json:"needs_attention"`
}

func NewQueuedReport(r PendingReport, attentionAfter int) QueuedReport {
	return QueuedReport{
		ID:             r.ID,
		HazardType:     r.HazardType,
		Severity:       r.Severity,
		Location:       r.Location,
		Description:    r.Description,
		Anonymous:      r.Anonymous(),
		PhotoBytes:     len(r.Photo.Data),
		CapturedAt:     r.CapturedAt,
		Attempts:       r.Attempts,
		NeedsAttention: attentionAfter > 0 && r.Attempts >= attentionAfter,
	}
}
