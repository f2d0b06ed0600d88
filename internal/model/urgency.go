package model

import "time"

// Urgency classifies how close a task is to its deadline.
type Urgency int

const (
	UrgencyNone Urgency = iota
	UrgencyNotDue
	UrgencyDueSoon
	UrgencyOverdue
)

func (u Urgency) String() string {
	switch u {
	case UrgencyNotDue:
		return "not-due"
	case UrgencyDueSoon:
		return "due-soon"
	case UrgencyOverdue:
		return "overdue"
	default:
		return "none"
	}
}

// Urgency uses the task's own reminder when set, otherwise deadline minus lead.
func (t *Task) Urgency(now time.Time, lead time.Duration) Urgency {
	if t.Done || !t.HasDeadline() {
		return UrgencyNone
	}
	if now.After(t.Deadline) {
		return UrgencyOverdue
	}
	remindAt := t.Reminder
	if remindAt.IsZero() {
		remindAt = t.Deadline.Add(-lead)
	}
	if !now.Before(remindAt) {
		return UrgencyDueSoon
	}
	return UrgencyNotDue
}
