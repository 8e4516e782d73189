package models

// EventMode defines how an event is held
type EventMode string

const (
	ModeOnline  EventMode = "ONLINE"
	ModeOffline EventMode = "OFFLINE"
	ModeHybrid  EventMode = "HYBRID"
)

// Valid reports whether m is a known mode
func (m EventMode) Valid() bool {
	switch m {
	case ModeOnline, ModeOffline, ModeHybrid:
		return true
	}
	return false
}

// InviteStatus is the lifecycle state of a team invite
type InviteStatus string

const (
	InvitePending  InviteStatus = "PENDING"
	InviteAccepted InviteStatus = "ACCEPTED"
	InviteDeclined InviteStatus = "DECLINED"
)

// InviteAction is the invitee's answer to an invite
type InviteAction string

const (
	InviteActionAccept  InviteAction = "ACCEPT"
	InviteActionDecline InviteAction = "DECLINE"
)
