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

// Package gallery lists the photos shown on the invitation page,
// either from a Google Storage bucket or from a fixed set bundled
// with the site.
package gallery

import (
	"context"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"
)

// Photo is one gallery entry.
type Photo struct {
	Src     string `json:"src"`
	Alt     string `json:"alt"`
	Caption string `json:"caption"`
}

// Lister lists the photos to display, in display order.
type Lister interface {
	List(ctx context.Context) ([]Photo, error)
}

// Static is a fixed photo list.
type Static []Photo

// List returns the fixed photos.
func (s Static) List(ctx context.Context) ([]Photo, error) {
	return []Photo(s), nil
}

// Bucket lists photos from a public Google Storage bucket. Objects
// under the prefix are served via their public URLs; captions come
// from object names.
type Bucket struct {
	clt    *storage.Client
	name   string
	prefix string
}

// NewBucket returns a Bucket lister for the named bucket and prefix.
func NewBucket(ctx context.Context, name, prefix string) (*Bucket, error) {
	clt, err := storage.NewClient(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create GSB client")
	}
	return &Bucket{clt: clt, name: name, prefix: prefix}, nil
}

// List returns a Photo per object under the bucket prefix.
func (b *Bucket) List(ctx context.Context) ([]Photo, error) {
	var photos []Photo
	it := b.clt.Bucket(b.name).Objects(ctx, &storage.Query{Prefix: b.prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "cannot list bucket %s", b.name)
		}
		if attrs.Name == b.prefix {
			// The prefix itself can appear as a zero-byte directory object.
			continue
		}
		caption := attrs.Metadata["caption"]
		if caption == "" {
			caption = captionFor(strings.TrimPrefix(attrs.Name, b.prefix))
		}
		photos = append(photos, Photo{
			Src:     "https://storage.googleapis.com/" + b.name + "/" + attrs.Name,
			Alt:     caption,
			Caption: caption,
		})
	}
	return photos, nil
}

// captionFor derives a display caption from an object name:
// "team-victory.jpg" becomes "Team Victory".
func captionFor(name string) string {
	name = strings.TrimSuffix(name, path.Ext(name))
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == '/'
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
