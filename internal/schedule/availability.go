package schedule

import (
	"context"
	"errors"

	"hiring-management-api/internal/model"
)

type CalendarState string

const (
	StateIdle     CalendarState = "idle"
	StateLoading  CalendarState = "loading"
	StateNoSlots  CalendarState = "no_slots"
	StateHasSlots CalendarState = "has_slots"
	StateSelected CalendarState = "selected"
	StateNotify   CalendarState = "notification"
)

type SelectionMode string

const (
	SelectSingle   SelectionMode = "single"
	SelectMultiple SelectionMode = "multiple"
)

var (
	ErrCheckInProgress = errors.New("availability check already in progress")
	ErrNotChecked      = errors.New("availability has not been checked")
	ErrUnknownSlot     = errors.New("unknown slot")
	ErrNoSlotSelected  = errors.New("select at least one time slot")
	ErrNoCandidate     = errors.New("candidate id is required")
)

// SlotFetcher is satisfied by the upstream backend client.
type SlotFetcher interface {
	FetchSlots(ctx context.Context, sessionID, date string, allHours bool) ([]model.TimeSlot, error)
}

// Calendar drives the availability flow:
//
//	idle -> loading -> {has_slots | no_slots} -> selected -> notification
//
// Slots are never fetched implicitly; Check is the only way in.
type Calendar struct {
	mode     SelectionMode
	state    CalendarState
	slots    []model.TimeSlot
	selected []model.TimeSlot
}

func NewCalendar(mode SelectionMode) *Calendar {
	return &Calendar{mode: mode, state: StateIdle}
}

func (c *Calendar) State() CalendarState { return c.state }
func (c *Calendar) Mode() SelectionMode  { return c.mode }

func (c *Calendar) Slots() []model.TimeSlot { return c.slots }

// Selected returns the selection in the order slots were picked.
func (c *Calendar) Selected() []model.TimeSlot { return c.selected }

// SetMode switches between single and multiple selection, dropping the
// current selection since its meaning changes with the mode.
func (c *Calendar) SetMode(mode SelectionMode) {
	if mode == c.mode {
		return
	}
	c.mode = mode
	c.selected = nil
	if c.state == StateSelected {
		c.state = StateHasSlots
	}
}

// Check fetches slots for the session's panel on the given date. allHours
// requests the override endpoint that ignores working hours. A failed
// fetch returns the calendar to its previous state.
func (c *Calendar) Check(ctx context.Context, f SlotFetcher, sessionID, date string, allHours bool) error {
	if c.state == StateLoading {
		return ErrCheckInProgress
	}
	prev := c.state
	c.state = StateLoading
	slots, err := f.FetchSlots(ctx, sessionID, date, allHours)
	if err != nil {
		c.state = prev
		return err
	}
	c.slots = slots
	c.selected = nil
	if len(slots) == 0 {
		c.state = StateNoSlots
	} else {
		c.state = StateHasSlots
	}
	return nil
}

// Select picks a slot by id. Single mode replaces the selection; multiple
// mode toggles membership, preserving pick order.
func (c *Calendar) Select(slotID string) error {
	if c.state != StateHasSlots && c.state != StateSelected {
		return ErrNotChecked
	}
	var slot *model.TimeSlot
	for i := range c.slots {
		if c.slots[i].ID == slotID {
			slot = &c.slots[i]
			break
		}
	}
	if slot == nil {
		return ErrUnknownSlot
	}

	if c.mode == SelectSingle {
		c.selected = []model.TimeSlot{*slot}
	} else {
		toggled := false
		for i := range c.selected {
			if c.selected[i].ID == slotID {
				c.selected = append(c.selected[:i], c.selected[i+1:]...)
				toggled = true
				break
			}
		}
		if !toggled {
			c.selected = append(c.selected, *slot)
		}
	}

	if len(c.selected) == 0 {
		c.state = StateHasSlots
	} else {
		c.state = StateSelected
	}
	return nil
}

// Confirm validates the selection and hands it to the notification step.
// No transition happens on error.
func (c *Calendar) Confirm(candidateID string) ([]model.TimeSlot, error) {
	if candidateID == "" {
		return nil, ErrNoCandidate
	}
	if len(c.selected) == 0 {
		return nil, ErrNoSlotSelected
	}
	c.state = StateNotify
	out := make([]model.TimeSlot, len(c.selected))
	copy(out, c.selected)
	return out, nil
}
