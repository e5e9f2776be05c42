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

package gauth

import (
	"context"
	"os"
	"strings"
)

// Environment variables which override the corresponding secrets.
// These match the names used by the hosting provider's dashboard so
// the same deployment configuration works unchanged.
const (
	envServiceAccountEmail = "GOOGLE_SERVICE_ACCOUNT_EMAIL"
	envPrivateKey          = "GOOGLE_PRIVATE_KEY"
	envSpreadsheetID       = "GOOGLE_SHEET_ID"
)

// Secret keys for credential fields when loaded via GetSecrets.
const (
	secretServiceAccountEmail = "serviceAccountEmail"
	secretPrivateKey          = "privateKey"
	secretSpreadsheetID       = "spreadsheetID"
)

// ServiceCredential holds the service account identity, its private
// signing key and the destination spreadsheet ID used to write RSVP
// rows. It is loaded once at startup and never mutated thereafter.
type ServiceCredential struct {
	Email         string // Service account email address.
	PrivateKey    string // PEM-encoded private signing key.
	SpreadsheetID string // Destination spreadsheet ID.
}

// LoadServiceCredential loads the service credential, preferring
// environment variables and falling back to the project secrets for
// any field not set in the environment. The private key may contain
// literal \n sequences, which are normalized to real newlines.
//
// A credential is returned even when incomplete; callers must check
// Complete before use. This lets the service start (and loudly log)
// rather than crash-loop on a misconfigured deployment.
func LoadServiceCredential(ctx context.Context, projectID string) *ServiceCredential {
	cred := &ServiceCredential{
		Email:         os.Getenv(envServiceAccountEmail),
		PrivateKey:    os.Getenv(envPrivateKey),
		SpreadsheetID: os.Getenv(envSpreadsheetID),
	}

	if cred.Complete() {
		cred.normalize()
		return cred
	}

	// Fall back to the secrets file for anything missing.
	secrets, err := GetSecrets(ctx, projectID, nil)
	if err == nil {
		if cred.Email == "" {
			cred.Email = secrets[secretServiceAccountEmail]
		}
		if cred.PrivateKey == "" {
			cred.PrivateKey = secrets[secretPrivateKey]
		}
		if cred.SpreadsheetID == "" {
			cred.SpreadsheetID = secrets[secretSpreadsheetID]
		}
	}

	cred.normalize()
	return cred
}

// normalize converts literal \n sequences in the private key into
// real line breaks. Deployment dashboards commonly flatten multi-line
// PEM keys this way.
func (c *ServiceCredential) normalize() {
	c.PrivateKey = strings.ReplaceAll(c.PrivateKey, `\n`, "\n")
}

// Complete reports whether all credential fields are present.
func (c *ServiceCredential) Complete() bool {
	return c != nil && c.Email != "" && c.PrivateKey != "" && c.SpreadsheetID != ""
}

// Missing returns the names of absent credential fields, for operator
// diagnostics. Field values are never included.
func (c *ServiceCredential) Missing() []string {
	if c == nil {
		return []string{"serviceAccountEmail", "privateKey", "spreadsheetID"}
	}
	var missing []string
	if c.Email == "" {
		missing = append(missing, "serviceAccountEmail")
	}
	if c.PrivateKey == "" {
		missing = append(missing, "privateKey")
	}
	if c.SpreadsheetID == "" {
		missing = append(missing, "spreadsheetID")
	}
	return missing
}
