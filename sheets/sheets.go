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

// Package sheets appends guest list rows to a Google Sheet using a
// service account credential. It is the production implementation of
// the submission service's row appender.
package sheets

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/gradsite/invite/gauth"
	"github.com/gradsite/invite/rsvp"
)

// The append target within the destination spreadsheet. Headers are
// assumed to exist in row 1 and are never written by this client.
const appendRange = "Sheet1!A:F"

// The minimum scope needed: spreadsheet writes only.
const scopeSpreadsheets = "https://www.googleapis.com/auth/spreadsheets"

// Client is an append-only Google Sheets client.
type Client struct {
	srv *gsheets.Service
}

// Client satisfies the submission service's store interface.
var _ rsvp.RowAppender = (*Client)(nil)

// NewClient authenticates to the Sheets API with the given service
// credential and returns an append-only client. The credential must
// be complete; the signing key establishes a two-legged JWT session
// scoped to spreadsheet access only.
func NewClient(ctx context.Context, cred *gauth.ServiceCredential) (*Client, error) {
	if !cred.Complete() {
		return nil, errors.Errorf("incomplete service credential, missing %v", cred.Missing())
	}

	conf := &jwt.Config{
		Email:      cred.Email,
		PrivateKey: []byte(cred.PrivateKey),
		Scopes:     []string{scopeSpreadsheets},
		TokenURL:   google.JWTTokenURL,
	}

	srv, err := gsheets.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx)))
	if err != nil {
		return nil, errors.Wrap(err, "couldn't create new service")
	}

	return &Client{srv: srv}, nil
}

// AppendRow appends a single row to the destination spreadsheet. The
// append is one atomic call; it either fully succeeds or does not
// occur.
func (c *Client) AppendRow(ctx context.Context, destination string, row []interface{}) error {
	vr := &gsheets.ValueRange{Values: [][]interface{}{row}}
	_, err := c.srv.Spreadsheets.Values.Append(destination, appendRange, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return errors.Wrap(err, "unable to append to sheet")
	}
	return nil
}
