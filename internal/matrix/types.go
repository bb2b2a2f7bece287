package matrix

import "fmt"

// Error is the standard Matrix API error payload plus the HTTP status it
// arrived with.
type Error struct {
	StatusCode int    `json:"-"`
	Code       string `json:"errcode"`
	Message    string `json:"error"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("matrix error %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// PowerLevelsContent is the subset of m.room.power_levels the service reads.
type PowerLevelsContent struct {
	Users        map[string]int `json:"users"`
	UsersDefault int            `json:"users_default"`
	Kick         int            `json:"kick"`
}

// UserLevel resolves a user's effective power level, falling back to the
// room default when the user has no explicit entry.
func (p *PowerLevelsContent) UserLevel(userID string) int {
	if level, ok := p.Users[userID]; ok {
		return level
	}
	return p.UsersDefault
}

type joinedMembersResponse struct {
	Joined map[string]joinedMember `json:"joined"`
}

type joinedMember struct {
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

type whoAmIResponse struct {
	UserID   string `json:"user_id"`
	DeviceID string `json:"device_id"`
}

type kickRequest struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason,omitempty"`
}
