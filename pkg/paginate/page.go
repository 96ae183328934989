package paginate

// PageRequest describes a pagination window: 1-based page number and page
// size. Both must be >= 1; a violating request is a contract violation, not
// a value to clamp.
type PageRequest struct {
	Page int
	Size int
}

// NewPageRequest validates and builds a page request.
func NewPageRequest(page, size int) (PageRequest, error) {
	req := PageRequest{Page: page, Size: size}
	if err := req.Validate(); err != nil {
		return PageRequest{}, err
	}
	return req, nil
}

// Validate reports an InvalidPageRequestError when either bound is violated.
func (r PageRequest) Validate() error {
	if r.Page < 1 || r.Size < 1 {
		return NewInvalidPageRequestError(r.Page, r.Size)
	}
	return nil
}

// Offset calculates the number of entities to skip for this window.
func (r PageRequest) Offset() int {
	return (r.Page - 1) * r.Size
}

// Limit returns the maximum number of entities in this window.
func (r PageRequest) Limit() int {
	return r.Size
}

// PageResult is the read-only envelope for one page of filtered entities.
// TotalCount always reflects the full filtered set, independent of the
// returned window.
type PageResult[T any] struct {
	Items      []T
	TotalCount int64
	Page       int
	Size       int
}

// TotalPages returns ceil(TotalCount / Size). Zero when nothing matched.
func (r PageResult[T]) TotalPages() int64 {
	if r.TotalCount == 0 {
		return 0
	}
	return (r.TotalCount + int64(r.Size) - 1) / int64(r.Size)
}

// HasNext reports whether a later page holds more filtered entities.
func (r PageResult[T]) HasNext() bool {
	return int64(r.Page) < r.TotalPages()
}

// HasPrevious reports whether an earlier page exists.
func (r PageResult[T]) HasPrevious() bool {
	return r.Page > 1 && r.TotalCount > 0
}

// FirstItemIndex returns the 1-based index of the first item of this window
// within the full filtered set, or 0 for an empty window.
func (r PageResult[T]) FirstItemIndex() int64 {
	if len(r.Items) == 0 {
		return 0
	}
	return int64(r.Page-1)*int64(r.Size) + 1
}

// LastItemIndex returns the 1-based index of the last item of this window
// within the full filtered set, or 0 for an empty window.
func (r PageResult[T]) LastItemIndex() int64 {
	if len(r.Items) == 0 {
		return 0
	}
	return r.FirstItemIndex() + int64(len(r.Items)) - 1
}
