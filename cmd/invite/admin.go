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
	"crypto/subtle"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gradsite/invite/gauth"
)

// Name of the admin session cookie.
const adminSession = "admin"

// adminLoginHandler exchanges the host passphrase for a signed admin
// session cookie.
func (s *service) adminLoginHandler(c *fiber.Ctx) error {
	if s.adminSecret == "" {
		return fiber.NewError(fiber.StatusServiceUnavailable, "admin access not configured")
	}

	passphrase := c.FormValue("passphrase")
	if subtle.ConstantTimeCompare([]byte(passphrase), []byte(s.adminSecret)) != 1 {
		log.Printf("admin login failed from %s", c.IP())
		return fiber.NewError(fiber.StatusUnauthorized, "invalid passphrase")
	}

	tok, err := gauth.PutClaims(map[string]interface{}{
		"iss":   projectID,
		"admin": true,
		"exp":   time.Now().Add(adminMaxAge * time.Second).Unix(),
	}, s.jwtSecret)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create session token")
	}

	c.Cookie(&fiber.Cookie{
		Name:     adminSession,
		Value:    tok,
		MaxAge:   adminMaxAge,
		HTTPOnly: true,
	})
	return c.JSON(fiber.Map{"ok": true})
}

// adminLogoutHandler expires the admin session cookie.
func (s *service) adminLogoutHandler(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     adminSession,
		Value:    "",
		MaxAge:   -1,
		HTTPOnly: true,
	})
	return c.JSON(fiber.Map{"ok": true})
}

// requireAdmin wraps a handler with admin session validation.
func (s *service) requireAdmin(h fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := gauth.GetClaims(c.Cookies(adminSession), s.jwtSecret)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "not logged in")
		}
		if admin, ok := claims["admin"].(bool); !ok || !admin {
			return fiber.NewError(fiber.StatusForbidden, "not an admin session")
		}
		return h(c)
	}
}

// adminStatusHandler reports service health and submission counters.
// Configuration readiness is reported as booleans only; secret
// material never leaves the service.
func (s *service) adminStatusHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"version":         version,
		"uptime":          time.Since(s.started).Round(time.Second).String(),
		"credentialReady": s.cred.Complete(),
		"missing":         s.cred.Missing(),
		"notifierReady":   s.notifier != nil,
		"stats":           s.rsvp.Stats(),
	})
}
