package v1

import "github.com/kubev2v/xo-harness/internal/models"

// ObjectListResponse is a page of the object cache.
type ObjectListResponse struct {
	Objects   []models.Object `json:"objects"`
	Page      int             `json:"page"`
	PageCount int             `json:"pageCount"`
	Total     int             `json:"total"`
}

// ObjectListParams are the query parameters of GET /objects.
type ObjectListParams struct {
	Type     string `form:"type"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// WaitParams are the query parameters of GET /objects/:id/wait.
// Field holds key=value conditions.
type WaitParams struct {
	Field   []string `form:"field"`
	Type    string   `form:"type"`
	Absent  bool     `form:"absent"`
	Timeout string   `form:"timeout"`
}

type WaitResponse struct {
	ID     string        `json:"id"`
	Object models.Object `json:"object,omitempty"`
}

type ResourcesResponse struct {
	Pending int `json:"pending"`
}

type CleanupResponse struct {
	Failures int `json:"failures"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
