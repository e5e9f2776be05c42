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

package rsvp

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/gradsite/invite/gauth"
)

// Guest-facing messages. Failures are deliberately generic; the
// underlying cause goes to the logs, never to the guest.
const (
	msgInvalid = "Please fill out all required fields"
	msgFailure = "There was an error submitting your RSVP. Please try again."
	msgThanks  = "Thank you for your RSVP!"
)

// RowAppender appends one row to a destination in the external
// tabular store. It is the service's only view of the store: there is
// no read-back, update or delete. Tests substitute a recording fake.
type RowAppender interface {
	AppendRow(ctx context.Context, destination string, row []interface{}) error
}

// Notifier delivers a best-effort operator notification. The sheets
// append never depends on it.
type Notifier interface {
	Send(ctx context.Context, kind, msg string) error
}

// Result is the outcome of a submission as reported to the guest.
type Result struct {
	Accepted bool   `json:"accepted"`
	Message  string `json:"message"`
}

// Stats holds process-local submission counters.
type Stats struct {
	Accepted uint64 `json:"accepted"` // Rows appended.
	Rejected uint64 `json:"rejected"` // Validation failures.
	Failed   uint64 `json:"failed"`   // Configuration or store failures.
}

// Service validates RSVP submissions and appends accepted ones to the
// guest list. It is safe for concurrent use; submissions are
// independent and share only the immutable credential and the
// counters.
type Service struct {
	cred     *gauth.ServiceCredential
	store    RowAppender
	notifier Notifier

	accepted atomic.Uint64
	rejected atomic.Uint64
	failed   atomic.Uint64
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier sets a notifier for accepted submissions.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// NewService returns a Service writing to the given store using the
// given credential. The credential may be incomplete and the store
// nil; in that case every submission fails closed with a generic
// message until the deployment is fixed.
func NewService(cred *gauth.ServiceCredential, store RowAppender, options ...Option) *Service {
	s := &Service{cred: cred, store: store}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Submit validates a request and, if it is acceptable, appends
// exactly one row to the guest list. Validation failures make no
// external call. There is no deduplication: submitting the same
// content twice appends two rows.
func (s *Service) Submit(ctx context.Context, req Request) Result {
	sub, err := parseSubmission(req)
	if err != nil {
		log.Printf("rejected submission: %v", err)
		s.rejected.Add(1)
		return Result{Accepted: false, Message: msgInvalid}
	}

	if !s.cred.Complete() || s.store == nil {
		// Nothing the guest does can fix this; shout for an operator.
		log.Printf("ERROR: cannot submit RSVP: service credential incomplete, missing %v", s.cred.Missing())
		s.failed.Add(1)
		return Result{Accepted: false, Message: msgFailure}
	}

	sub.SubmittedAt = time.Now().UTC()
	sub.Receipt = uuid.NewString()

	err = s.store.AppendRow(ctx, s.cred.SpreadsheetID, sub.Row())
	if err != nil {
		log.Printf("could not append RSVP %s: %v", sub.Receipt, err)
		s.failed.Add(1)
		return Result{Accepted: false, Message: msgFailure}
	}

	s.accepted.Add(1)
	log.Printf("appended RSVP %s: %s attending=%s guests=%d", sub.Receipt, sub.Name, sub.Attending, sub.Guests)

	if s.notifier != nil {
		msg := fmt.Sprintf("New RSVP from %s <%s>: attending=%s, guests=%d", sub.Name, sub.Email, sub.Attending, sub.Guests)
		if err := s.notifier.Send(ctx, "rsvp", msg); err != nil {
			log.Printf("could not notify for RSVP %s: %v", sub.Receipt, err)
		}
	}

	return Result{Accepted: true, Message: msgThanks}
}

// Stats returns a snapshot of the submission counters.
func (s *Service) Stats() Stats {
	return Stats{
		Accepted: s.accepted.Load(),
		Rejected: s.rejected.Load(),
		Failed:   s.failed.Load(),
	}
}
