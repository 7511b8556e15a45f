package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/simpleaccounting/backend/internal/models"
)

type WorkspaceRepository struct {
	base
}

func NewWorkspaceRepository(db *sql.DB) *WorkspaceRepository {
	return &WorkspaceRepository{base{db: db}}
}

// FindByIDAndOwner returns nil when the workspace does not exist or belongs
// to someone else.
func (r *WorkspaceRepository) FindByIDAndOwner(ctx context.Context, id int64, owner string) (*models.Workspace, error) {
	var ws models.Workspace
	err := r.q(ctx).QueryRowContext(ctx, `
		SELECT id, name, owner_user_name, default_currency, version
		FROM workspaces
		WHERE id = $1 AND owner_user_name = $2`,
		id, owner).Scan(&ws.ID, &ws.Name, &ws.OwnerUserName, &ws.DefaultCurrency, &ws.Version)
	found, err := notFoundOr(ws, err)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch workspace %d: %w", id, err)
	}
	return found, nil
}

type CategoryRepository struct {
	base
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{base{db: db}}
}

func (r *CategoryRepository) ExistsByIDAndWorkspaceID(ctx context.Context, id, workspaceID int64) (bool, error) {
	var exists bool
	err := r.q(ctx).QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1 AND workspace_id = $2)`,
		id, workspaceID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check category %d: %w", id, err)
	}
	return exists, nil
}

type DocumentRepository struct {
	base
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{base{db: db}}
}

// FindIDsByWorkspaceID returns the subset of ids that exist in the workspace.
func (r *DocumentRepository) FindIDsByWorkspaceID(ctx context.Context, workspaceID int64, ids []int64) ([]int64, error) {
	rows, err := r.q(ctx).QueryContext(ctx,
		`SELECT id FROM documents WHERE workspace_id = $1 AND id = ANY($2)`,
		workspaceID, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}
	defer rows.Close()

	var found []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan document id: %w", err)
		}
		found = append(found, id)
	}
	return found, rows.Err()
}
