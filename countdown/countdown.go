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

// Package countdown computes the time remaining until the event for
// the countdown display.
package countdown

import "time"

// Parts is the remaining time broken into display units. All parts
// are zero once the event has passed.
type Parts struct {
	Days    int  `json:"days"`
	Hours   int  `json:"hours"`
	Minutes int  `json:"minutes"`
	Seconds int  `json:"seconds"`
	Passed  bool `json:"passed"`
}

// Between returns the countdown parts for the given moment.
func Between(now, event time.Time) Parts {
	d := event.Sub(now)
	if d <= 0 {
		return Parts{Passed: true}
	}
	secs := int(d / time.Second)
	return Parts{
		Days:    secs / 86400,
		Hours:   secs / 3600 % 24,
		Minutes: secs / 60 % 60,
		Seconds: secs % 60,
	}
}

// Until returns the countdown parts as of now.
func Until(event time.Time) Parts {
	return Between(time.Now(), event)
}
