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

// Package share builds the outbound links for the invitation page:
// social share URLs and the Cash App gift links.
package share

import (
	"net/url"
	"strings"
)

// Links holds one share URL per supported destination.
type Links struct {
	Facebook string `json:"facebook"`
	Twitter  string `json:"twitter"`
	WhatsApp string `json:"whatsapp"`
	Email    string `json:"email"`
}

// For returns the share links for an invitation page.
func For(pageURL, description string, hashtags []string) Links {
	return Links{
		Facebook: Facebook(pageURL, description),
		Twitter:  Twitter(pageURL, description, hashtags),
		WhatsApp: WhatsApp(pageURL, description),
		Email:    Email(pageURL, description),
	}
}

// Facebook returns a sharer URL quoting the description.
func Facebook(pageURL, quote string) string {
	return "https://www.facebook.com/sharer/sharer.php?u=" + url.QueryEscape(pageURL) +
		"&quote=" + url.QueryEscape(quote)
}

// Twitter returns a tweet intent URL. Hashtags are passed bare and
// comma-separated, as the intent endpoint expects.
func Twitter(pageURL, text string, hashtags []string) string {
	u := "https://twitter.com/intent/tweet?text=" + url.QueryEscape(text) +
		"&url=" + url.QueryEscape(pageURL)
	if len(hashtags) > 0 {
		u += "&hashtags=" + strings.Join(hashtags, ",")
	}
	return u
}

// WhatsApp returns a wa.me URL with the description and page URL as
// the prefilled message.
func WhatsApp(pageURL, description string) string {
	return "https://wa.me/?text=" + url.QueryEscape(description+" "+pageURL)
}

// Email returns a mailto URL with the description as the subject and
// the page URL as the body.
func Email(pageURL, description string) string {
	return "mailto:?subject=" + url.QueryEscape(description) +
		"&body=" + url.QueryEscape(pageURL)
}

// GiftLinks holds the Cash App links for the gift section. The deep
// link opens the app; the web link is the fallback.
type GiftLinks struct {
	Tag  string `json:"tag"`
	Deep string `json:"deep"`
	Web  string `json:"web"`
}

// CashApp returns the gift links for a Cash App tag. The tag is given
// without the $ prefix.
func CashApp(tag string) GiftLinks {
	return GiftLinks{
		Tag:  "$" + tag,
		Deep: "cash://cash.app/$" + tag,
		Web:  "https://cash.app/$" + tag,
	}
}
