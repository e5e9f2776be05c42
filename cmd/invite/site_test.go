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
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/gradsite/invite/countdown"
	"github.com/gradsite/invite/gallery"
	"github.com/gradsite/invite/share"
)

// get issues a GET request against the app.
func get(t *testing.T, app *fiber.App, path string) *http.Response {
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	resp, err := app.Test(req)
	assert.Nil(t, err, "unexpected error testing app: %v", err)
	return resp
}

func TestCountdownHandler(t *testing.T) {
	app, _ := newTestApp(&spyStore{})

	resp := get(t, app, "/api/v1/countdown")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var parts countdown.Parts
	err := json.NewDecoder(resp.Body).Decode(&parts)
	assert.Nil(t, err)
	assert.False(t, parts.Passed)
	assert.True(t, parts.Days == 0 && parts.Hours <= 24)
}

func TestGalleryHandler(t *testing.T) {
	app, _ := newTestApp(&spyStore{})

	resp := get(t, app, "/api/v1/gallery")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var photos []gallery.Photo
	err := json.NewDecoder(resp.Body).Decode(&photos)
	assert.Nil(t, err)
	if assert.Len(t, photos, 1) {
		assert.Equal(t, "Senior Photo", photos[0].Caption)
	}
}

func TestShareHandler(t *testing.T) {
	app, _ := newTestApp(&spyStore{})

	resp := get(t, app, "/api/v1/share")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var links share.Links
	err := json.NewDecoder(resp.Body).Decode(&links)
	assert.Nil(t, err)
	assert.Contains(t, links.Facebook, "facebook.com")
	assert.Contains(t, links.Twitter, "twitter.com")
	assert.Contains(t, links.WhatsApp, "wa.me")
}

func TestGiftHandler(t *testing.T) {
	app, _ := newTestApp(&spyStore{})

	resp := get(t, app, "/api/v1/gift")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var links share.GiftLinks
	err := json.NewDecoder(resp.Body).Decode(&links)
	assert.Nil(t, err)
	assert.Equal(t, "$"+defaultGift, links.Tag)
}

func TestVersionHandler(t *testing.T) {
	app, _ := newTestApp(&spyStore{})

	resp := get(t, app, "/api/v1/version")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, projectID+" "+version, string(body))
}

func TestHealthzHandler(t *testing.T) {
	app, _ := newTestApp(&spyStore{})

	resp := get(t, app, "/api/v1/healthz")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAdminStatusUnauthorized(t *testing.T) {
	app, _ := newTestApp(&spyStore{})

	resp := get(t, app, "/api/v1/admin/status")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminLogin(t *testing.T) {
	app, s := newTestApp(&spyStore{})
	s.adminSecret = "open sesame"

	// Wrong passphrase is rejected.
	resp := postForm(t, app, "/api/v1/admin/login", url.Values{"passphrase": {"guess"}})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Correct passphrase yields a session cookie.
	resp = postForm(t, app, "/api/v1/admin/login", url.Values{"passphrase": {"open sesame"}})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	cookies := resp.Cookies()
	if !assert.NotEmpty(t, cookies) {
		return
	}
	assert.Equal(t, adminSession, cookies[0].Name)

	// The cookie grants access to the status endpoint.
	req := httptest.NewRequest(fiber.MethodGet, "/api/v1/admin/status", nil)
	req.AddCookie(cookies[0])
	resp, err := app.Test(req)
	assert.Nil(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var status struct {
		Version         string `json:"version"`
		CredentialReady bool   `json:"credentialReady"`
	}
	err = json.NewDecoder(resp.Body).Decode(&status)
	assert.Nil(t, err)
	assert.Equal(t, version, status.Version)
	assert.True(t, status.CredentialReady)
}

func TestAdminLoginUnconfigured(t *testing.T) {
	app, _ := newTestApp(&spyStore{})

	resp := postForm(t, app, "/api/v1/admin/login", url.Values{"passphrase": {"anything"}})
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
