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

package backend

import (
	"fmt"
	"reflect"

	"github.com/gofiber/fiber/v2"
)

// SessionStore loads and saves sessions for a request.
type SessionStore interface {
	// Get returns the Session with the given id for the request.
	Get(id string, c *fiber.Ctx) (Session, error)

	// Save persists the Session to the response.
	Save(session Session, c *fiber.Ctx) error
}

// FiberSessionStore implements the SessionStore interface using
// client side cookies, which should be encrypted by middleware.
type FiberSessionStore struct{}

// NewFiberSessionStore returns an empty FiberSessionStore.
func NewFiberSessionStore() *FiberSessionStore {
	return &FiberSessionStore{}
}

// Get implements the SessionStore interface for the FiberSessionStore
// type by parsing the session from the request's cookie, if any.
func (s *FiberSessionStore) Get(id string, c *fiber.Ctx) (Session, error) {
	if c == nil {
		return nil, fmt.Errorf("cannot get session with nil fiber context")
	}
	return NewFiberSession(id, c.Cookies(id))
}

// Save implements the SessionStore interface for the FiberSessionStore
// type by writing the session cookie to the response.
func (s *FiberSessionStore) Save(session Session, c *fiber.Ctx) error {
	fs, ok := session.(*FiberSession)
	if !ok {
		return fmt.Errorf("incompatible session type, wanted FiberSession, got %v", reflect.TypeOf(session))
	}
	if c == nil {
		return fmt.Errorf("cannot save session with nil fiber context")
	}

	c.Cookie(fs.getCookie())
	return nil
}
