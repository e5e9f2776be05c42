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

// Package backend provides cookie-backed sessions for the fiber web
// service. Sessions carry only guest convenience data (such as form
// prefill values); they are stored client-side and should be wrapped
// by cookie encryption middleware.
package backend

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Session is a collection of values persisted across requests.
type Session interface {
	// SetMaxAge sets the lifetime of the session.
	SetMaxAge(age time.Duration) error

	// Set sets a key value pair in the session.
	Set(key string, value any) error

	// Get retrieves the value for a given key in the session and
	// stores it in the destination.
	Get(key string, dst any) error

	// Invalidate immediately invalidates the session and marks it as
	// no longer valid.
	Invalidate() error
}

// FiberSession implements the Session interface using a fiber cookie
// based storage method.
type FiberSession struct {
	cookie *fiber.Cookie              // Cookie used to store the session.
	values map[string]json.RawMessage // Map of the key value pairs to be encoded into the session.
}

// NewFiberSession creates a FiberSession with the given id,
// populated from the given cookie value if non-empty.
func NewFiberSession(id, value string) (*FiberSession, error) {
	s := &FiberSession{cookie: &fiber.Cookie{Name: id}, values: make(map[string]json.RawMessage)}

	if value == "" {
		return s, nil
	}

	// Parse the value into the session value map.
	ckValue, err := url.QueryUnescape(value)
	if err != nil {
		return nil, fmt.Errorf("unable to unescape cookie value: %w", err)
	}
	err = json.Unmarshal([]byte(ckValue), &s.values)
	if err != nil {
		return nil, fmt.Errorf("unable to unmarshal value: %w", err)
	}

	return s, nil
}

// SetMaxAge implements the SetMaxAge method of the Session interface
// by setting the maximum age of the cookie.
func (s *FiberSession) SetMaxAge(age time.Duration) error {
	s.cookie.MaxAge = int(age.Seconds())
	return nil
}

// Set implements the Set method of the Session interface by encoding
// a query escaped map in JSON format to the cookie value.
func (s *FiberSession) Set(key string, value any) error {
	v, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("unable to marshal value to json: %w", err)
	}
	s.values[key] = json.RawMessage(v)
	bytes, err := json.Marshal(s.values)
	s.cookie.Value = url.QueryEscape(string(bytes))
	return err
}

// Get implements the Get method of the Session interface by decoding
// the value stored under the given key into dst.
func (s *FiberSession) Get(key string, dst any) error {
	raw, ok := s.values[key]
	if !ok {
		return fmt.Errorf("no value for key %s", key)
	}
	return json.Unmarshal(raw, dst)
}

// Invalidate implements the Invalidate method of the Session
// interface by setting the Max Age of the cookie to -1.
func (s *FiberSession) Invalidate() error {
	s.cookie.MaxAge = -1
	return nil
}

// getCookie returns the fiber Cookie used to store the session.
func (s *FiberSession) getCookie() *fiber.Cookie {
	return s.cookie
}
