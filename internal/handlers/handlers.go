package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/simpleaccounting/backend/internal/apperr"
	"github.com/simpleaccounting/backend/internal/models"
	"github.com/simpleaccounting/backend/internal/query"
	"github.com/simpleaccounting/backend/internal/services"
)

const maxBodyBytes = 1_048_576 // 1 MB

// WorkspaceAccess resolves the workspace of a request.
type WorkspaceAccess interface {
	GetAccessibleWorkspace(ctx context.Context, id int64, mode models.WorkspaceAccessMode) (*models.Workspace, error)
}

// PageResolver parses paging, sorting and filtering query parameters.
type PageResolver interface {
	Resolve(params url.Values, d *query.Descriptor) (query.PageRequest, error)
}

// PageResponse is the wire shape of every pageable listing.
type PageResponse[T any] struct {
	PageNumber    int   `json:"pageNumber"`
	PageSize      int   `json:"pageSize"`
	TotalElements int64 `json:"totalElements"`
	Data          []T   `json:"data"`
}

func toPageResponse[E, T any](page query.Page[E], mapper func(E) T) PageResponse[T] {
	data := make([]T, 0, len(page.Items))
	for _, item := range page.Items {
		data = append(data, mapper(item))
	}
	return PageResponse[T]{
		PageNumber:    page.PageNumber + 1,
		PageSize:      page.PageSize,
		TotalElements: page.TotalCount,
		Data:          data,
	}
}

// decodeBody reads exactly one JSON object into dst and validates it. It
// writes the error response itself and reports whether decoding succeeded.
func decodeBody(w http.ResponseWriter, r *http.Request, v *services.ValidationHelper, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return false
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return false
	}

	if err := v.ValidateStruct(dst); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return false
	}
	return true
}

func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.Validation("'%s' is not a valid %s", raw, name)
	}
	return id, nil
}

// workspace resolves the {workspaceId} of the request in the given mode.
func workspace(r *http.Request, access WorkspaceAccess, mode models.WorkspaceAccessMode) (*models.Workspace, error) {
	id, err := idParam(r, "workspaceId")
	if err != nil {
		return nil, err
	}
	return access.GetAccessibleWorkspace(r.Context(), id, mode)
}

func parseDate(raw string) time.Time {
	// validated with the datetime tag before this is called
	t, _ := time.Parse(query.DateLayout, raw)
	return t
}

func ensureAttachments(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
