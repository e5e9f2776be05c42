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

	"github.com/gofiber/fiber/v2"

	"github.com/gradsite/invite/countdown"
	"github.com/gradsite/invite/share"
)

// countdownHandler returns the time remaining until the event.
func (s *service) countdownHandler(c *fiber.Ctx) error {
	return c.JSON(countdown.Until(s.eventTime))
}

// galleryHandler returns the photo gallery contents.
func (s *service) galleryHandler(c *fiber.Ctx) error {
	photos, err := s.photos.List(c.Context())
	if err != nil {
		log.Printf("could not list gallery photos: %v", err)
		return fiber.NewError(fiber.StatusBadGateway, "could not list photos")
	}
	return c.JSON(photos)
}

// shareHandler returns the social share links for the invitation page.
func (s *service) shareHandler(c *fiber.Ctx) error {
	return c.JSON(share.For(s.pageURL, s.eventDesc, s.hashtags))
}

// giftHandler returns the Cash App gift links for the event.
func (s *service) giftHandler(c *fiber.Ctx) error {
	return c.JSON(share.CashApp(s.giftTag))
}

// versionHandler returns the service name and version.
func (s *service) versionHandler(c *fiber.Ctx) error {
	return c.SendString(projectID + " " + version)
}

// healthzHandler reports liveness.
func (s *service) healthzHandler(c *fiber.Ctx) error {
	return c.SendString("ok")
}
