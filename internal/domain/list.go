package domain

// ListFilter restricts and pages list queries.
type ListFilter struct {
	Type  string
	Skip  int
	Limit int
}

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// Normalize clamps skip and limit to sane bounds.
func (f ListFilter) Normalize() ListFilter {
	if f.Skip < 0 {
		f.Skip = 0
	}
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	return f
}
