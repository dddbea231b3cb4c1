package mcp

type ListEntriesParams struct {
	Sort   string `json:"sort,omitempty" jsonschema:"trending (default), newest or alphabetical"`
	Limit  int    `json:"limit,omitempty" jsonschema:"page size, at most 100"`
	Offset int    `json:"offset,omitempty" jsonschema:"entries to skip"`
}

type GetEntryParams struct {
	Ref string `json:"ref" jsonschema:"entry id or slug"`
}

type SubmitEntryParams struct {
	Name       string `json:"name" jsonschema:"project name"`
	Tagline    string `json:"tagline,omitempty" jsonschema:"one-line pitch"`
	URL        string `json:"url" jsonschema:"project homepage, http or https"`
	Visibility string `json:"visibility,omitempty" jsonschema:"public (default) or unlisted, unlisted needs a pro plan"`
}

type ModerateEntryParams struct {
	ID     string  `json:"id" jsonschema:"entry id"`
	To     string  `json:"to" jsonschema:"approved or rejected"`
	Reason *string `json:"reason,omitempty" jsonschema:"shown to the owner on rejection"`
}

type EntryIDParams struct {
	ID string `json:"id" jsonschema:"entry id"`
}

type CreatorStatsParams struct {
	OwnerID string `json:"owner_id" jsonschema:"creator user id"`
}

type EmptyParams struct{}

type CreatorStatsResult struct {
	OwnerID       string   `json:"owner_id"`
	TotalVotes    int      `json:"total_votes"`
	ApprovedCount int      `json:"approved_count"`
	HighVoteCount int      `json:"high_vote_count"`
	IsRising      bool     `json:"is_rising"`
	Badges        []string `json:"badges"`
}
