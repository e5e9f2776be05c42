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

// Package rsvp implements the RSVP submission service: authoritative
// validation of guest input and appending of accepted submissions to
// the spreadsheet-backed guest list.
package rsvp

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Attendance is a guest's answer to whether they will attend.
type Attendance string

// Valid attendance values.
const (
	AttendanceYes   Attendance = "yes"
	AttendanceNo    Attendance = "no"
	AttendanceMaybe Attendance = "maybe"
)

// ParseAttendance parses an attendance value, reporting whether it is
// one of the permitted answers.
func ParseAttendance(s string) (Attendance, bool) {
	switch Attendance(s) {
	case AttendanceYes, AttendanceNo, AttendanceMaybe:
		return Attendance(s), true
	}
	return "", false
}

// Request carries the raw RSVP fields as received from a guest. All
// fields are untrusted text. SubmittedAt is accepted for wire
// compatibility but always ignored; the submission time is assigned
// server-side.
type Request struct {
	Name        string `json:"name" form:"name"`
	Email       string `json:"email" form:"email"`
	Attending   string `json:"attending" form:"attending"`
	Guests      string `json:"guests" form:"guests"`
	Message     string `json:"message" form:"message"`
	SubmittedAt string `json:"submittedAt,omitempty" form:"submittedAt"`
}

// Submission is a validated RSVP. It exists only in transit: it is
// built from a Request at submit time and converted into exactly one
// sheet row, or discarded.
type Submission struct {
	Name        string
	Email       string
	Attending   Attendance
	Guests      int
	Message     string
	SubmittedAt time.Time // Server-assigned at receipt.
	Receipt     string    // Server-assigned ID for logs and notifications only.
}

// parseSubmission validates a request and returns the resulting
// submission. Checks are ordered and the first failure wins; the
// returned error names the offending field for the logs only and is
// never shown to the guest. SubmittedAt and Receipt are left unset
// for the service to assign.
func parseSubmission(req Request) (Submission, error) {
	var sub Submission

	sub.Name = strings.TrimSpace(req.Name)
	if sub.Name == "" {
		return sub, fmt.Errorf("missing name")
	}

	// Email format is deliberately not validated beyond non-emptiness;
	// tightening it would silently narrow acceptance.
	sub.Email = strings.TrimSpace(req.Email)
	if sub.Email == "" {
		return sub, fmt.Errorf("missing email")
	}

	att, ok := ParseAttendance(req.Attending)
	if !ok {
		return sub, fmt.Errorf("invalid attendance %q", req.Attending)
	}
	sub.Attending = att

	guests, err := strconv.Atoi(strings.TrimSpace(req.Guests))
	if err != nil {
		return sub, fmt.Errorf("invalid guest count %q", req.Guests)
	}
	sub.Guests = guests

	sub.Message = req.Message
	return sub, nil
}

// Row returns the submission as the ordered spreadsheet tuple. Column
// order is a fixed external contract; the header row already exists
// in the destination sheet and is never written here.
func (s Submission) Row() []interface{} {
	return []interface{}{
		s.Name,
		s.Email,
		string(s.Attending),
		s.Guests,
		s.Message,
		s.SubmittedAt.Format(time.RFC3339),
	}
}
