package audit

import (
	"time"

	"github.com/rs/zerolog"
)

type Event struct {
	Timestamp   time.Time `json:"timestamp"`
	EventType   string    `json:"event_type"`
	Entity      string    `json:"entity"`
	EntityID    int64     `json:"entity_id"`
	WorkspaceID int64     `json:"workspace_id"`
	UserName    string    `json:"user_name,omitempty"`
	Amount      int64     `json:"amount"`
	Status      string    `json:"status"`
	Details     any       `json:"details,omitempty"`
}

// Logger writes audit events as structured "audit" log lines.
type Logger struct {
	log zerolog.Logger
	now func() time.Time
}

func NewLogger(log zerolog.Logger) *Logger {
	return &Logger{log: log, now: time.Now}
}

func (a *Logger) LogRecordSaved(entity string, id, workspaceID int64, user string, amount int64, status string) {
	a.write(Event{
		Timestamp:   a.now(),
		EventType:   "RECORD_SAVED",
		Entity:      entity,
		EntityID:    id,
		WorkspaceID: workspaceID,
		UserName:    user,
		Amount:      amount,
		Status:      status,
	})
}

func (a *Logger) LogInvoicePaid(invoiceID, workspaceID, incomeID int64, user string, datePaid time.Time) {
	a.write(Event{
		Timestamp:   a.now(),
		EventType:   "INVOICE_PAID",
		Entity:      "Invoice",
		EntityID:    invoiceID,
		WorkspaceID: workspaceID,
		UserName:    user,
		Status:      "SUCCESS",
		Details: map[string]any{
			"income_id": incomeID,
			"date_paid": datePaid.Format("2006-01-02"),
		},
	})
}

func (a *Logger) LogError(entity string, workspaceID int64, user string, err error) {
	a.write(Event{
		Timestamp:   a.now(),
		EventType:   "ERROR",
		Entity:      entity,
		WorkspaceID: workspaceID,
		UserName:    user,
		Status:      "FAILED",
		Details:     map[string]string{"error": err.Error()},
	})
}

func (a *Logger) write(e Event) {
	a.log.Info().
		Str("audit", e.EventType).
		Interface("event", e).
		Msg("audit")
}
