package utils

type PageResponse[T any] struct {
	Items         []T   `json:"items"`
	NextPageToken int64 `json:"nextPageToken,omitempty"`
	ItemCount     int64 `json:"itemCount"`
}

// NewPageResponse wraps one page of items out of itemCount in total. The next page
// token is omitted on the last page.
func NewPageResponse[T any](page PageRequest, items []T, itemCount int64) *PageResponse[T] {
	if items == nil {
		items = []T{}
	}
	response := &PageResponse[T]{Items: items, ItemCount: itemCount}
	if next := NextPageToken(page, itemCount); next != nil {
		response.NextPageToken = *next
	}
	return response
}
