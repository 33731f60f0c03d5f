package models

// Pagination describes an offset-paginated result set. Totals are computed
// over the privacy-filtered set, never the raw table.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalItems  int  `json:"totalItems"`
	HasMore     bool `json:"hasMore"`
}

// NewPagination derives page metadata from a total item count.
func NewPagination(page, pageSize, total int) Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
		HasMore:     page*pageSize < total,
	}
}

type ThreadPage struct {
	Items      []*ThreadView `json:"items"`
	Pagination Pagination    `json:"pagination"`
}

type NotificationPage struct {
	Items      []*Notification `json:"items"`
	Pagination Pagination      `json:"pagination"`
}

type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
