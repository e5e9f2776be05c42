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

package notify

import (
	"context"
	"sync"
	"time"
)

// TimeStore is an interface for notification persistence.
type TimeStore interface {
	Sendable(context.Context, time.Duration, string) (bool, error) // Returns true if a message is sendable.
	Sent(context.Context, string) error                            // Records the time a message was sent.
}

// timeStore implements an in-process TimeStore. The site runs as a
// single instance, so process-local persistence suffices for rate
// limiting duplicate notifications.
type timeStore struct {
	mu   sync.Mutex
	sent map[string]time.Time
}

// NewTimeStore returns a TimeStore that uses process memory for
// notification persistence.
func NewTimeStore() TimeStore {
	return &timeStore{sent: make(map[string]time.Time)}
}

// Sendable returns true either if (1) the specified period has
// elapsed since the last time a message for the given key was sent
// or (2) a message is being sent for the first time.
func (ts *timeStore) Sendable(ctx context.Context, period time.Duration, key string) (bool, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	last, ok := ts.sent[key]
	if !ok {
		return true, nil // No record of sending this kind of message.
	}
	return time.Since(last) >= period, nil
}

// Sent records the time that a message with the given key was sent.
func (ts *timeStore) Sent(ctx context.Context, key string) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.sent[key] = time.Now()
	return nil
}
