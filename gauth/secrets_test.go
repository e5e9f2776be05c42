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

package gauth

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const testProjectID = "gradtest"

// writeSecrets writes a secrets file and points the project's secrets
// environment variable at it.
func writeSecrets(t *testing.T, contents string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "secrets")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("could not write secrets file: %v", err)
	}
	t.Setenv("GRADTEST_SECRETS", path)
}

func TestGetSecrets(t *testing.T) {
	ctx := context.Background()
	writeSecrets(t, "alpha:one\nbeta:two\nnot a pair\n")

	m, err := GetSecrets(ctx, testProjectID, []string{"alpha", "beta"})
	if err != nil {
		t.Fatalf("GetSecrets failed: %v", err)
	}
	if m["alpha"] != "one" || m["beta"] != "two" {
		t.Errorf("unexpected secrets map: %v", m)
	}

	_, err = GetSecrets(ctx, testProjectID, []string{"gamma"})
	if err == nil {
		t.Errorf("expected error for missing key, got nil")
	}
}

func TestGetSecretsNoEnvVar(t *testing.T) {
	t.Setenv("GRADTEST_SECRETS", "")
	_, err := GetSecrets(context.Background(), testProjectID, nil)
	if err == nil {
		t.Errorf("expected error when secrets env var is unset, got nil")
	}
}

func TestGetHexSecret(t *testing.T) {
	writeSecrets(t, "sessionKey:6772616473697465746573746b65793f\n")
	b, err := GetHexSecret(context.Background(), testProjectID, "sessionKey")
	if err != nil {
		t.Fatalf("GetHexSecret failed: %v", err)
	}
	if string(b) != "gradsitetestkey?" {
		t.Errorf("unexpected decoded secret: %q", b)
	}
}

func TestSplitPairs(t *testing.T) {
	tests := []struct {
		in   string
		want map[string]string
	}{
		{
			in:   "a:1\nb:2",
			want: map[string]string{"a": "1", "b": "2"},
		},
		{
			in:   "a: with spaces \nnot-a-pair\n",
			want: map[string]string{"a": "with spaces"},
		},
		{
			in:   "key:value:with:colons",
			want: map[string]string{"key": "value:with:colons"},
		},
	}

	for i, test := range tests {
		got := splitPairs(test.in, "\n", ":")
		if len(got) != len(test.want) {
			t.Errorf("test %d: got %v, want %v", i, got, test.want)
			continue
		}
		for k, v := range test.want {
			if got[k] != v {
				t.Errorf("test %d: key %s: got %q, want %q", i, k, got[k], v)
			}
		}
	}
}
