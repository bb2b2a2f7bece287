package audit

import "time"

// Action classifies a membership audit event.
type Action string

const (
	// ActionMemberRemoved records a successful kick for insufficient
	// holdings.
	ActionMemberRemoved Action = "member_removed"

	// ActionRemovalFailed records a kick attempt the homeserver rejected.
	ActionRemovalFailed Action = "removal_failed"
)

// Event is emitted by the gating engine for every removal outcome. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
	RoomID     string    `json:"room_id"`
	UserID     string    `json:"user_id"`
	Action     Action    `json:"action"`
	Reason     string    `json:"reason"`

	// MatchingCount and RequiredCount capture the decision inputs.
	MatchingCount int `json:"matching_count"`
	RequiredCount int `json:"required_count"`

	// Detail carries the gateway error text for failed removals.
	Detail string `json:"detail,omitempty"`
}
