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

package sheets

import (
	"context"
	"testing"

	"github.com/gradsite/invite/gauth"
)

// TestNewClientIncompleteCredential checks that the client refuses to
// construct without a complete credential, so a misconfigured
// deployment fails closed before any network call.
func TestNewClientIncompleteCredential(t *testing.T) {
	tests := []*gauth.ServiceCredential{
		nil,
		{},
		{Email: "svc@gradsite.iam.gserviceaccount.com"},
		{Email: "svc@gradsite.iam.gserviceaccount.com", PrivateKey: "key"},
		{PrivateKey: "key", SpreadsheetID: "sheet"},
	}

	for i, cred := range tests {
		_, err := NewClient(context.Background(), cred)
		if err == nil {
			t.Errorf("test %d: expected error for incomplete credential, got nil", i)
		}
	}
}
