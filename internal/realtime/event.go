// Package realtime provides change-event publication and subscription for
// live feed updates.
package realtime

import "time"

// Collections whose changes are published to subscribers.
const (
	CollectionPosts     = "posts"
	CollectionComments  = "comments"
	CollectionReactions = "reactions"
	CollectionBookmarks = "bookmarks"
)

// Actions a change event can carry.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Event describes a single change to a collection. Subscribers treat any
// event as an invalidation signal and re-fetch; the event does not carry
// the changed record itself. PostID scopes post-related events (comments,
// reactions, bookmarks) to their parent post so subscribers can filter.
type Event struct {
	Collection string    `json:"collection"`
	Action     string    `json:"action"`
	RecordID   string    `json:"record_id"`
	PostID     string    `json:"post_id,omitempty"`
	At         time.Time `json:"at"`
}
