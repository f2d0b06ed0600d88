// Package notify sends desktop reminders for tasks that are due soon or overdue.
package notify

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gen2brain/beeep"

	"todoview/internal/model"
)

const appTitle = "todoview"

// Sender delivers one notification.
type Sender func(title, message string) error

func desktop(title, message string) error {
	return beeep.Notify(title, message, "")
}

type Reminder struct {
	send Sender
	lead time.Duration
}

// New returns a Reminder that notifies through the desktop. lead is the default
// time before a deadline at which a task without its own reminder becomes due soon.
func New(lead time.Duration) *Reminder {
	return &Reminder{send: desktop, lead: lead}
}

// WithSender replaces the delivery function.
func (r *Reminder) WithSender(s Sender) *Reminder {
	r.send = s
	return r
}

// Due returns the tasks that are due soon or overdue at now, in input order.
func (r *Reminder) Due(tasks []model.Task, now time.Time) []model.Task {
	var out []model.Task
	for i := range tasks {
		switch tasks[i].Urgency(now, r.lead) {
		case model.UrgencyDueSoon, model.UrgencyOverdue:
			out = append(out, tasks[i])
		}
	}
	return out
}

// Send notifies for every due task and returns how many notifications went out.
// Delivery failures are collected; the remaining tasks are still attempted.
func (r *Reminder) Send(tasks []model.Task, now time.Time) (int, error) {
	var errs []error
	sent := 0
	for _, t := range r.Due(tasks, now) {
		if err := r.send(title(t), message(t, now)); err != nil {
			log.Printf("warning: notify task %d: %v", t.ID, err)
			errs = append(errs, fmt.Errorf("task %d: %w", t.ID, err))
			continue
		}
		sent++
	}
	return sent, errors.Join(errs...)
}

func title(t model.Task) string {
	if t.ListName != "" {
		return appTitle + ": " + t.ListName
	}
	return appTitle
}

func message(t model.Task, now time.Time) string {
	when := t.Deadline.Local().Format("Mon Jan 2 15:04")
	if now.After(t.Deadline) {
		return fmt.Sprintf("Overdue: %s (was due %s)", t.Name, when)
	}
	return fmt.Sprintf("Due soon: %s (due %s)", t.Name, when)
}
