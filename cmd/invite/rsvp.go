/*
LICENSE
  Copyright (C) 2025 the Gradsite project.

  This file is part of Gradsite. Gradsite is free software: you can
  redistribute it and/or modify it under the terms of the GNU
  General Public License as published by the Free Software
  Foundation, either version 3 of the License, or (at your option)
  any later version.

  Gradsite is distributed in the hope that it will be useful,
  but WITHOUT ANY WARRANTY; without even the implied warranty of
  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
  GNU General Public License for more details.

  You should have received a copy of the GNU General Public License
  along with Gradsite in gpl.txt.  If not, see
  <http://www.gnu.org/licenses/>.
*/

package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gradsite/invite/rsvp"
)

// Name of the session cookie carrying guest prefill details.
const prefillSession = "prefill"

// How long the prefill cookie lives for.
const prefillMaxAge = 90 * 24 * time.Hour

// rsvpHandler handles RSVP submissions. The request may be an HTML
// form post or JSON. The outcome is always reported as JSON with an
// accepted flag and a guest-facing message; a malformed body is
// treated as an empty submission and rejected by validation.
func (s *service) rsvpHandler(c *fiber.Ctx) error {
	var req rsvp.Request
	err := c.BodyParser(&req)
	if err != nil {
		log.Printf("could not parse RSVP request body: %v", err)
	}

	result := s.rsvp.Submit(c.Context(), req)

	if result.Accepted {
		s.savePrefill(c, req)
	}

	return c.JSON(result)
}

// savePrefill remembers the guest's name and email in the session
// cookie so a return visit can prefill the form. Failure to save is
// logged and otherwise ignored; the submission has already succeeded.
func (s *service) savePrefill(c *fiber.Ctx, req rsvp.Request) {
	session, err := s.sessions.Get(prefillSession, c)
	if err != nil {
		log.Printf("could not get prefill session: %v", err)
		return
	}
	session.SetMaxAge(prefillMaxAge)
	err = session.Set("name", req.Name)
	if err == nil {
		err = session.Set("email", req.Email)
	}
	if err != nil {
		log.Printf("could not set prefill session values: %v", err)
		return
	}
	err = s.sessions.Save(session, c)
	if err != nil {
		log.Printf("could not save prefill session: %v", err)
	}
}

// prefillHandler returns any remembered guest details from the
// session cookie. Guests without a prior accepted submission get
// empty fields.
func (s *service) prefillHandler(c *fiber.Ctx) error {
	var name, email string

	session, err := s.sessions.Get(prefillSession, c)
	if err == nil {
		session.Get("name", &name)
		session.Get("email", &email)
	}

	return c.JSON(fiber.Map{"name": name, "email": email})
}
