package models

// Workspace is the tenant boundary every financial record belongs to.
type Workspace struct {
	ID              int64  `json:"id" db:"id"`
	Name            string `json:"name" db:"name"`
	OwnerUserName   string `json:"-" db:"owner_user_name"`
	DefaultCurrency string `json:"defaultCurrency" db:"default_currency"`
	Version         int    `json:"version" db:"version"`
}

// WorkspaceAccessMode is the level of access a caller requests
type WorkspaceAccessMode string

const (
	WorkspaceAccessReadOnly  WorkspaceAccessMode = "READ_ONLY"
	WorkspaceAccessReadWrite WorkspaceAccessMode = "READ_WRITE"
)

// Category classifies incomes and expenses within a workspace.
type Category struct {
	ID          int64   `json:"id" db:"id"`
	WorkspaceID int64   `json:"workspaceId" db:"workspace_id"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description,omitempty" db:"description"`
	Income      bool    `json:"income" db:"income"`
	Expense     bool    `json:"expense" db:"expense"`
}

// Document is an uploaded file that records can attach.
type Document struct {
	ID          int64  `json:"id" db:"id"`
	WorkspaceID int64  `json:"workspaceId" db:"workspace_id"`
	Name        string `json:"name" db:"name"`
}

// Tax is a general tax rate owned by a workspace.
type Tax struct {
	ID          int64   `json:"id" db:"id"`
	WorkspaceID int64   `json:"workspaceId" db:"workspace_id"`
	Title       string  `json:"title" db:"title"`
	Description *string `json:"description,omitempty" db:"description"`
	RateInBps   int     `json:"rateInBps" db:"rate_in_bps"`
	Version     int     `json:"version" db:"version"`
}
