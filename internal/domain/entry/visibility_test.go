package entry_test

import (
	"testing"

	"github.com/rpggio/launchpad/internal/domain/entry"
	"github.com/stretchr/testify/assert"
)

var (
	anon     = entry.Anonymous()
	stranger = entry.Viewer{ID: "stranger"}
	owner    = entry.Viewer{ID: "owner"}
	admin    = entry.Viewer{ID: "staff", Admin: true}
)

func TestCanView_UnlistedListingVersusDetail(t *testing.T) {
	e := &entry.Entry{ID: "e1", OwnerID: "owner", Status: entry.StatusApproved, Visibility: entry.VisibilityUnlisted}

	for _, v := range []entry.Viewer{anon, stranger} {
		assert.False(t, entry.CanView(e, v, entry.ModeListing), "listing for %q", v.ID)
		assert.True(t, entry.CanView(e, v, entry.ModeDetail), "detail for %q", v.ID)
	}
}

func TestCanView_OwnerAlwaysSeesOwnEntry(t *testing.T) {
	statuses := []entry.Status{entry.StatusPending, entry.StatusApproved, entry.StatusRejected}
	visibilities := []entry.Visibility{entry.VisibilityPublic, entry.VisibilityUnlisted}

	for _, st := range statuses {
		for _, vis := range visibilities {
			e := &entry.Entry{ID: "e1", OwnerID: "owner", Status: st, Visibility: vis}
			assert.True(t, entry.CanView(e, owner, entry.ModeListing), "%s/%s", st, vis)
			assert.True(t, entry.CanView(e, owner, entry.ModeDetail), "%s/%s", st, vis)
		}
	}
}

func TestCanView_NonApproved(t *testing.T) {
	for _, st := range []entry.Status{entry.StatusPending, entry.StatusRejected} {
		e := &entry.Entry{ID: "e1", OwnerID: "owner", Status: st, Visibility: entry.VisibilityPublic}

		assert.False(t, entry.CanView(e, anon, entry.ModeDetail))
		assert.False(t, entry.CanView(e, stranger, entry.ModeListing))
		assert.True(t, entry.CanView(e, admin, entry.ModeListing))
		assert.True(t, entry.CanView(e, admin, entry.ModeDetail))
	}
}

func TestCanView_ApprovedPublic(t *testing.T) {
	e := &entry.Entry{ID: "e1", OwnerID: "owner", Status: entry.StatusApproved, Visibility: entry.VisibilityPublic}

	assert.True(t, entry.CanView(e, anon, entry.ModeListing))
	assert.True(t, entry.CanView(e, stranger, entry.ModeDetail))
	assert.False(t, entry.CanView(nil, admin, entry.ModeDetail))
}

func TestFilterVisible(t *testing.T) {
	entries := []entry.Entry{
		{ID: "pub", OwnerID: "x", Status: entry.StatusApproved, Visibility: entry.VisibilityPublic},
		{ID: "unl", OwnerID: "x", Status: entry.StatusApproved, Visibility: entry.VisibilityUnlisted},
		{ID: "mine", OwnerID: "owner", Status: entry.StatusPending, Visibility: entry.VisibilityPublic},
		{ID: "rej", OwnerID: "x", Status: entry.StatusRejected, Visibility: entry.VisibilityPublic},
	}

	visible := entry.FilterVisible(entries, owner, entry.ModeListing)

	ids := make([]string, 0, len(visible))
	for _, e := range visible {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"pub", "mine"}, ids)
	assert.Len(t, entry.FilterVisible(entries, admin, entry.ModeListing), 4)
}

func TestCoerceVisibility(t *testing.T) {
	assert.Equal(t, entry.VisibilityPublic, entry.CoerceVisibility(entry.VisibilityUnlisted, owner))
	assert.Equal(t, entry.VisibilityUnlisted, entry.CoerceVisibility(entry.VisibilityUnlisted, entry.Viewer{ID: "p", Elevated: true}))
	assert.Equal(t, entry.VisibilityPublic, entry.CoerceVisibility("", entry.Viewer{ID: "p", Elevated: true}))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-world", entry.Slugify("  Hello, World! "))
	assert.Equal(t, "a-b-c", entry.Slugify("a--b__c"))
	assert.Equal(t, "", entry.Slugify("***"))
}
