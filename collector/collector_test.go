/*
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

package collector

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gradsite/invite/rsvp"
)

// fakeService counts calls and returns a canned result. If block is
// non-nil, Submit waits on it before returning, or until the request
// context is done.
type fakeService struct {
	mu     sync.Mutex
	calls  int
	result rsvp.Result
	block  chan struct{}
}

func (s *fakeService) Submit(ctx context.Context, req rsvp.Request) rsvp.Result {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return rsvp.Result{Accepted: false, Message: "context done"}
		}
	}
	return s.result
}

func (s *fakeService) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func enteredFields() Fields {
	return Fields{
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		Attending: "yes",
		Guests:    2,
		Message:   "See you there",
	}
}

func TestDefaults(t *testing.T) {
	c := New(&fakeService{})
	f := c.Fields()
	if f.Attending != "yes" {
		t.Errorf("expected default attendance yes, got %q", f.Attending)
	}
	if f.Guests != DefaultGuests {
		t.Errorf("expected default guests %d, got %d", DefaultGuests, f.Guests)
	}
	if c.State() != StateEditing {
		t.Errorf("expected pristine form in editing state")
	}
}

// TestSingleFlight checks that a second submit while one is
// outstanding is rejected without a second service call.
func TestSingleFlight(t *testing.T) {
	svc := &fakeService{
		result: rsvp.Result{Accepted: true, Message: "ok"},
		block:  make(chan struct{}),
	}
	c := New(svc)
	c.Set(enteredFields())

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		if _, err := c.Submit(context.Background()); err != nil {
			t.Errorf("first submit failed: %v", err)
		}
	}()

	// Wait until the first submission reaches the service.
	for svc.callCount() == 0 {
		time.Sleep(time.Millisecond)
	}

	if !c.InFlight() {
		t.Errorf("expected in-flight guard to be set")
	}
	_, err := c.Submit(context.Background())
	if err != ErrInFlight {
		t.Errorf("expected ErrInFlight for concurrent submit, got %v", err)
	}
	if svc.callCount() != 1 {
		t.Errorf("expected exactly 1 service call, got %d", svc.callCount())
	}

	// Release the first call; the guard must clear.
	close(svc.block)
	<-firstDone
	if c.InFlight() {
		t.Errorf("expected in-flight guard to clear after resolution")
	}
}

// TestSuccessClearsFields checks that acceptance shows a bounded
// confirmation, then returns a pristine form.
func TestSuccessClearsFields(t *testing.T) {
	svc := &fakeService{result: rsvp.Result{Accepted: true, Message: "Thank you for your RSVP!"}}
	c := New(svc, WithConfirmationFor(20*time.Millisecond))
	c.Set(enteredFields())

	res, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if !res.Accepted {
		t.Fatalf("expected acceptance")
	}
	if c.State() != StateConfirmed {
		t.Errorf("expected confirmed state immediately after acceptance")
	}
	if f := c.Fields(); f != defaultFields() {
		t.Errorf("expected pristine fields after acceptance, got %+v", f)
	}

	time.Sleep(30 * time.Millisecond)
	if c.State() != StateEditing {
		t.Errorf("expected editing state after confirmation expired")
	}
	if c.Message() != "" {
		t.Errorf("expected message cleared after confirmation expired")
	}
}

// TestFailurePreservesFields checks that failure keeps the entered
// values for retry.
func TestFailurePreservesFields(t *testing.T) {
	svc := &fakeService{result: rsvp.Result{Accepted: false, Message: "Please try again."}}
	c := New(svc)
	c.Set(enteredFields())

	res, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if res.Accepted {
		t.Fatalf("expected failure")
	}
	if c.State() != StateFailed {
		t.Errorf("expected failed state")
	}
	if f := c.Fields(); f != enteredFields() {
		t.Errorf("expected fields preserved on failure, got %+v", f)
	}

	c.Reset()
	if c.State() != StateEditing {
		t.Errorf("expected editing state after reset")
	}
	if f := c.Fields(); f != enteredFields() {
		t.Errorf("expected fields preserved across reset, got %+v", f)
	}
}

// TestBoundedWait checks that a hung service resolves to a failure
// within the collector's timeout.
func TestBoundedWait(t *testing.T) {
	svc := &fakeService{
		result: rsvp.Result{Accepted: true, Message: "ok"},
		block:  make(chan struct{}), // never released
	}
	c := New(svc, WithTimeout(20*time.Millisecond))
	c.Set(enteredFields())

	res, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if res.Accepted {
		t.Errorf("expected timeout to resolve as failure")
	}
	if c.InFlight() {
		t.Errorf("expected in-flight guard to clear after timeout")
	}
	if f := c.Fields(); f != enteredFields() {
		t.Errorf("expected fields preserved after timeout, got %+v", f)
	}
}

// TestSubmitFreezesGuests checks the integer guest count is carried
// as text in the request, as the service expects to parse it.
func TestSubmitFreezesGuests(t *testing.T) {
	var got rsvp.Request
	svc := &captureService{result: rsvp.Result{Accepted: true}, captured: &got}
	c := New(svc)
	c.Set(enteredFields())

	if _, err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if got.Guests != "2" {
		t.Errorf("expected guests frozen as \"2\", got %q", got.Guests)
	}
	if got.SubmittedAt != "" {
		t.Errorf("collector must never supply a submission time")
	}
}

// captureService records the request it receives.
type captureService struct {
	result   rsvp.Result
	captured *rsvp.Request
}

func (s *captureService) Submit(ctx context.Context, req rsvp.Request) rsvp.Result {
	*s.captured = req
	return s.result
}
