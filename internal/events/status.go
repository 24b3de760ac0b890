package events

type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
	StatusEnded     Status = "ENDED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusEnded:
		return true
	}
	return false
}

// CanBeBooked reports whether seats of this event can be held or sold.
func (s Status) CanBeBooked() bool {
	return s == StatusPublished
}

// CanBePublished reports whether the event can transition to PUBLISHED.
func (s Status) CanBePublished() bool {
	return s == StatusDraft
}
