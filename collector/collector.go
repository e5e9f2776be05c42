/*
AUTHORS
  Max Hart <max@gradsite.org>

LICENSE
  Copyright (C) 2025 the Gradsite project.

  This is free software: you can redistribute it and/or modify it
  under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.

  It is distributed in the hope that it will be useful,
  but WITHOUT ANY WARRANTY; without even the implied warranty of
  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
  GNU General Public License for more details.

  You should have received a copy of the GNU General Public License
  in gpl.txt. If not, see http://www.gnu.org/licenses/.
*/

// Package collector implements the guest-facing RSVP form state: it
// gathers field values, guards against double submission, delegates
// to the submission service and tracks the resulting UI state.
package collector

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/gradsite/invite/rsvp"
)

// Suggested bounds for the guest count widget. These are UI hints
// only; the service accepts any integer.
const (
	MinGuests     = 1
	MaxGuests     = 5
	DefaultGuests = 1
)

// Defaults for a pristine form.
const defaultAttending = string(rsvp.AttendanceYes)

// ErrInFlight is returned when a submission is attempted while one is
// already outstanding on the same form instance.
var ErrInFlight = errors.New("submission already in flight")

// timeoutResult is reported when the service does not respond within
// the collector's bounded wait.
var timeoutResult = rsvp.Result{
	Accepted: false,
	Message:  "The submission timed out. Please try again.",
}

// State is the form's presentation state.
type State int

const (
	// StateEditing is the idle form accepting input.
	StateEditing State = iota
	// StateConfirmed shows the success confirmation for a bounded
	// duration before the form returns to StateEditing, pristine.
	StateConfirmed
	// StateFailed shows the failure message; entered values are
	// preserved for retry.
	StateFailed
)

// Fields holds the editable form values.
type Fields struct {
	Name      string
	Email     string
	Attending string
	Guests    int
	Message   string
}

// defaultFields returns a pristine form.
func defaultFields() Fields {
	return Fields{Attending: defaultAttending, Guests: DefaultGuests}
}

// Submitter is the collector's view of the submission service.
type Submitter interface {
	Submit(ctx context.Context, req rsvp.Request) rsvp.Result
}

// Collector is one form instance. The single in-flight guard is local
// to the instance: concurrent instances do not coordinate. All
// methods are safe for concurrent use.
type Collector struct {
	svc        Submitter
	timeout    time.Duration
	confirmFor time.Duration

	mu          sync.Mutex
	fields      Fields
	state       State
	message     string
	inFlight    bool
	confirmedAt time.Time
}

// Option configures a Collector.
type Option func(*Collector)

// WithTimeout bounds how long a submission may remain outstanding
// before the collector resolves it to a failure.
func WithTimeout(d time.Duration) Option {
	return func(c *Collector) { c.timeout = d }
}

// WithConfirmationFor sets how long the success confirmation is shown
// before the form returns to its pristine state.
func WithConfirmationFor(d time.Duration) Option {
	return func(c *Collector) { c.confirmFor = d }
}

// New returns a pristine form bound to the given service.
func New(svc Submitter, options ...Option) *Collector {
	c := &Collector{
		svc:        svc,
		timeout:    10 * time.Second,
		confirmFor: 2 * time.Second,
		fields:     defaultFields(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Set replaces the form's field values.
func (c *Collector) Set(f Fields) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fields = f
}

// Fields returns the current field values.
func (c *Collector) Fields() Fields {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fields
}

// Submit freezes the current field values into one request and
// invokes the service exactly once. A second call while one is
// outstanding returns ErrInFlight without contacting the service. The
// wait is bounded by the collector's timeout so the form can never
// hang indefinitely.
func (c *Collector) Submit(ctx context.Context) (rsvp.Result, error) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return rsvp.Result{}, ErrInFlight
	}
	c.inFlight = true
	req := rsvp.Request{
		Name:      c.fields.Name,
		Email:     c.fields.Email,
		Attending: c.fields.Attending,
		Guests:    strconv.Itoa(c.fields.Guests),
		Message:   c.fields.Message,
	}
	c.mu.Unlock()

	cctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	done := make(chan rsvp.Result, 1)
	go func() { done <- c.svc.Submit(cctx, req) }()

	var res rsvp.Result
	select {
	case res = <-done:
	case <-cctx.Done():
		res = timeoutResult
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	c.message = res.Message
	if res.Accepted {
		c.state = StateConfirmed
		c.confirmedAt = time.Now()
		c.fields = defaultFields()
	} else {
		// Keep the entered values so the guest can correct and retry
		// without retyping.
		c.state = StateFailed
	}
	return res, nil
}

// State returns the form's presentation state. A confirmation older
// than the configured display duration reads as the pristine editing
// state.
func (c *Collector) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateConfirmed && time.Since(c.confirmedAt) >= c.confirmFor {
		c.state = StateEditing
		c.message = ""
	}
	return c.state
}

// Message returns the most recent outcome text shown to the guest.
func (c *Collector) Message() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}

// InFlight reports whether a submission is outstanding. The UI uses
// this to disable the submit trigger.
func (c *Collector) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Reset returns a failed form to the editing state. Field values are
// preserved; this is the "try again" action.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateEditing
	c.message = ""
}
