package types

// SkipReason explains why a directory contributed no results.
type SkipReason int

const (
	SkipNotExist SkipReason = iota
	SkipPermission
	SkipNotDirectory
	SkipFiltered
	SkipIO
)

func (r SkipReason) String() string {
	switch r {
	case SkipNotExist:
		return "not-exist"
	case SkipPermission:
		return "permission"
	case SkipNotDirectory:
		return "not-directory"
	case SkipFiltered:
		return "filtered"
	case SkipIO:
		return "io"
	default:
		return "unknown"
	}
}

// Skip records a directory the scanner could not or would not enumerate.
type Skip struct {
	Path   string
	Reason SkipReason
	Err    error // nil for SkipFiltered
}
