package models

import "time"

// Invoice is issued to a customer and may be paid by a linked income.
type Invoice struct {
	ID          int64      `json:"id" db:"id"`
	WorkspaceID int64      `json:"workspaceId" db:"workspace_id"`
	Title       string     `json:"title" db:"title"`
	Currency    string     `json:"currency" db:"currency"`
	Amount      int64      `json:"amount" db:"amount"` // in cents
	DateIssued  time.Time  `json:"dateIssued" db:"date_issued"`
	DueDate     time.Time  `json:"dueDate" db:"due_date"`
	DatePaid    *time.Time `json:"datePaid,omitempty" db:"date_paid"`
	Version     int        `json:"version" db:"version"`
}
