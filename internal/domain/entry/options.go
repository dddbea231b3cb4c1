package entry

// ListOptions provides filtering options for listing entries.
//
// Statuses, Visibility and OwnerIDs are AND'ed together. OrOwnerID widens the
// result with every entry owned by that id regardless of the other filters.
type ListOptions struct {
	Statuses    []Status
	Visibility  *Visibility
	OwnerIDs    []string
	OrOwnerID   string
	OldestFirst bool
	Limit       int
	Offset      int
}
