package entry

// Mode selects which read path a visibility check is made for.
type Mode int

const (
	// ModeListing is an enumerable listing; unlisted entries are omitted.
	ModeListing Mode = iota
	// ModeDetail is a lookup by id or slug; unlisted entries are reachable by link.
	ModeDetail
)

func (m Mode) String() string {
	if m == ModeDetail {
		return "detail"
	}
	return "listing"
}

// CanView decides whether v may read e on the given read path.
//
// Approved public entries are visible to everyone. In detail mode approved
// unlisted entries are too. Otherwise only the owner and administrators see
// the entry, whatever its status or visibility.
func CanView(e *Entry, v Viewer, mode Mode) bool {
	if e == nil {
		return false
	}
	if e.Status == StatusApproved {
		switch e.Visibility {
		case VisibilityPublic:
			return true
		case VisibilityUnlisted:
			if mode == ModeDetail {
				return true
			}
		}
	}
	if v.Owns(e) {
		return true
	}
	return v.Admin
}

// FilterVisible returns the entries v may read in mode, preserving order.
func FilterVisible(entries []Entry, v Viewer, mode Mode) []Entry {
	visible := make([]Entry, 0, len(entries))
	for i := range entries {
		if CanView(&entries[i], v, mode) {
			visible = append(visible, entries[i])
		}
	}
	return visible
}
