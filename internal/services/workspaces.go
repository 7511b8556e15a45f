package services

import (
	"context"
	"fmt"

	"github.com/simpleaccounting/backend/internal/apperr"
	"github.com/simpleaccounting/backend/internal/logger"
	"github.com/simpleaccounting/backend/internal/middleware"
	"github.com/simpleaccounting/backend/internal/models"
)

type WorkspaceRepository interface {
	FindByIDAndOwner(ctx context.Context, id int64, owner string) (*models.Workspace, error)
}

type WorkspaceService struct {
	workspaces WorkspaceRepository
}

func NewWorkspaceService(workspaces WorkspaceRepository) *WorkspaceService {
	return &WorkspaceService{workspaces: workspaces}
}

// GetAccessibleWorkspace returns the workspace if the current user may access
// it in the requested mode. Inaccessible workspaces are reported as not found.
func (s *WorkspaceService) GetAccessibleWorkspace(ctx context.Context, id int64, mode models.WorkspaceAccessMode) (*models.Workspace, error) {
	notAccessible := &apperr.NotFoundError{Entity: "Workspace", ID: id, Err: apperr.ErrWorkspaceNotAccessible}

	switch mode {
	case models.WorkspaceAccessReadOnly, models.WorkspaceAccessReadWrite:
	default:
		return nil, fmt.Errorf("unsupported workspace access mode %q", mode)
	}

	user := middleware.CurrentUser(ctx)
	if user == "" {
		return nil, notAccessible
	}

	ws, err := s.workspaces.FindByIDAndOwner(ctx, id, user)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		log := logger.FromContext(ctx)
		log.Debug().Int64("workspace_id", id).Str("user", user).Str("mode", string(mode)).Msg("workspace is not accessible")
		return nil, notAccessible
	}
	return ws, nil
}
