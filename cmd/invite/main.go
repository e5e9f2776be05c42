/*
AUTHORS
  Max Hart <max@gradsite.org>

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

// Gradsite is a cloud service serving a graduation invitation site:
// the invitation page with countdown, photo gallery, gift links and
// share links, plus the RSVP API writing to the guest list.
package main

import (
	"context"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/gradsite/invite/backend"
	"github.com/gradsite/invite/gallery"
	"github.com/gradsite/invite/gauth"
	"github.com/gradsite/invite/notify"
	"github.com/gradsite/invite/rsvp"
	"github.com/gradsite/invite/sheets"
)

// Project constants.
const (
	projectID     = "gradsite"
	version       = "v1.0.2"
	adminMaxAge   = 60 * 60 * 12 // 12 hours.
	defaultEvent  = "2025-06-14T18:00:00-04:00"
	defaultTitle  = "Maxwell Kotay's Graduation Invitation"
	defaultDesc   = "Join us to celebrate Maxwell's graduation from Rocky River High School!"
	defaultURL    = "https://gradsite.org/"
	defaultGift   = "MaxwellKotay"
	defaultPhotos = "images" // Bucket prefix for gallery photos.
)

// Default share hashtags.
var defaultHashtags = []string{"Graduation2025", "RavensKingdom"}

// service defines the properties of our web service.
type service struct {
	setupMutex  sync.Mutex
	cred        *gauth.ServiceCredential
	rsvp        *rsvp.Service
	notifier    *notify.Notifier
	sessions    backend.SessionStore
	photos      gallery.Lister
	jwtSecret   []byte
	adminSecret string
	started     time.Time

	debug      bool
	standalone bool
	publicDir  string

	eventTime time.Time
	eventName string
	eventDesc string
	pageURL   string
	hashtags  []string
	giftTag   string
}

// svc is an instance of our service.
var svc *service = &service{}

func main() {
	defaultPort := 8086
	v := os.Getenv("PORT")
	if v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			defaultPort = i
		}
	}

	var host string
	var port int
	var bucket string
	flag.BoolVar(&svc.debug, "debug", false, "Run in debug mode.")
	flag.BoolVar(&svc.standalone, "standalone", false, "Run in standalone mode.")
	flag.StringVar(&host, "host", "localhost", "Host we run on in standalone mode")
	flag.IntVar(&port, "port", defaultPort, "Port we listen on in standalone mode")
	flag.StringVar(&svc.publicDir, "public", "public", "Directory of static site assets")
	flag.StringVar(&bucket, "bucket", os.Getenv("GALLERY_BUCKET"), "Google Storage bucket holding gallery photos")
	flag.Parse()

	// Create app.
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler, ReadBufferSize: 8192})

	// Encrypt cookies.
	// NOTE: This must be done before any middleware which uses cookies.
	ctx := context.Background()
	keyBytes, err := gauth.GetHexSecret(ctx, projectID, "sessionKey")
	if err != nil {
		log.Panicf("unable to get sessionKey secret: %v", err)
	}
	if len(keyBytes) != 16 && len(keyBytes) != 24 && len(keyBytes) != 32 {
		log.Panicf("sessionKey has invalid length %d", len(keyBytes))
	}
	svc.jwtSecret = keyBytes
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: base64.StdEncoding.EncodeToString(keyBytes),
	}))

	// Recover from panics.
	app.Use(recover.New())
	app.Use(cors.New())

	// Perform one-time setup or bail.
	svc.setup(ctx, bucket)

	svc.registerRoutes(app)

	// Send the host a daily RSVP digest.
	c := cron.New()
	_, err = c.AddFunc("@daily", svc.dailyDigest)
	if err != nil {
		log.Fatalf("could not schedule daily digest: %v", err)
	}
	c.Start()
	defer c.Stop()

	// Serve until interrupted.
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// In standalone mode we bind to the given host only, otherwise we
	// bind to all interfaces for the cloud load balancer.
	if !svc.standalone {
		host = ""
	}

	g, gCtx := errgroup.WithContext(sigCtx)
	g.Go(func() error {
		listenOn := fmt.Sprintf("%s:%d", host, port)
		log.Printf("Listening on %s", listenOn)
		return app.Listen(listenOn)
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Printf("shutting down")
		return app.Shutdown()
	})
	if err := g.Wait(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

// registerRoutes registers the static site and the API routes.
func (s *service) registerRoutes(app *fiber.App) {
	app.Static("/", s.publicDir)

	v1 := app.Group("/api/v1")

	v1.Post("/rsvp", s.rsvpHandler)
	v1.Get("/rsvp/prefill", s.prefillHandler)

	v1.Get("/countdown", s.countdownHandler)
	v1.Get("/gallery", s.galleryHandler)
	v1.Get("/share", s.shareHandler)
	v1.Get("/gift", s.giftHandler)

	v1.Get("/version", s.versionHandler)
	v1.Get("/healthz", s.healthzHandler)

	v1.Group("/admin").
		Post("/login", s.adminLoginHandler).
		Post("/logout", s.adminLogoutHandler).
		Get("/status", s.requireAdmin(s.adminStatusHandler))
}

// setup executes per-instance one-time warmup and is used to
// initialize the service. A missing or incomplete service credential
// is not fatal: the RSVP pipeline fails closed per submission and
// the misconfiguration is loudly logged instead.
func (s *service) setup(ctx context.Context, bucket string) {
	s.setupMutex.Lock()
	defer s.setupMutex.Unlock()

	if s.rsvp != nil {
		return
	}

	s.started = time.Now()
	s.sessions = backend.NewFiberSessionStore()
	s.loadEvent()

	s.cred = gauth.LoadServiceCredential(ctx, projectID)
	var store rsvp.RowAppender
	if s.cred.Complete() {
		clt, err := sheets.NewClient(ctx, s.cred)
		if err != nil {
			log.Printf("ERROR: could not create sheets client: %v", err)
		} else {
			store = clt
			log.Printf("set up sheets client")
		}
	} else {
		log.Printf("ERROR: service credential incomplete, missing %v; submissions will fail", s.cred.Missing())
	}

	var options []rsvp.Option
	secrets, err := gauth.GetSecrets(ctx, projectID, nil)
	if err == nil && secrets["mailjetPublicKey"] != "" && secrets["mailjetPrivateKey"] != "" {
		hostEmail, period := notify.GetHostEnvVars()
		s.notifier = &notify.Notifier{}
		err = s.notifier.Init(
			notify.WithRecipient(hostEmail),
			notify.WithSecrets(secrets),
			notify.WithStore(notify.NewTimeStore()),
			notify.WithPeriod(period),
		)
		if err != nil {
			log.Printf("could not initialize notifier: %v", err)
			s.notifier = nil
		} else {
			options = append(options, rsvp.WithNotifier(s.notifier))
			log.Printf("set up host notifier")
		}
	} else {
		log.Printf("running without host notifications")
	}
	s.adminSecret = secrets["adminSecret"]

	s.rsvp = rsvp.NewService(s.cred, store, options...)

	if bucket != "" {
		b, err := gallery.NewBucket(ctx, bucket, envOr("GALLERY_PREFIX", defaultPhotos))
		if err != nil {
			log.Printf("could not create gallery bucket lister: %v", err)
		} else {
			s.photos = b
			log.Printf("set up gallery bucket %s", bucket)
		}
	}
	if s.photos == nil {
		s.photos = defaultGallery()
	}
}

// loadEvent loads the event details from the environment, falling
// back to the defaults.
func (s *service) loadEvent() {
	s.eventName = envOr("EVENT_TITLE", defaultTitle)
	s.eventDesc = envOr("EVENT_DESCRIPTION", defaultDesc)
	s.pageURL = envOr("EVENT_URL", defaultURL)
	s.giftTag = envOr("GIFT_CASHTAG", defaultGift)
	s.hashtags = defaultHashtags

	v := envOr("EVENT_TIME", defaultEvent)
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		log.Printf("could not parse EVENT_TIME %q: %v", v, err)
		t, _ = time.Parse(time.RFC3339, defaultEvent)
	}
	s.eventTime = t
}

// envOr returns the value of the named environment variable, or the
// fallback if unset.
func envOr(name, fallback string) string {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	return v
}

// defaultGallery is the photo set bundled with the site, used when no
// bucket is configured.
func defaultGallery() gallery.Static {
	return gallery.Static{
		{Src: "/images/football-1.jpg", Alt: "Maxwell playing football", Caption: "Football Championship 2024"},
		{Src: "/images/senior-photo.jpg", Alt: "Graduation photo", Caption: "Senior Photo"},
		{Src: "/images/team-victory.jpg", Alt: "Team celebration", Caption: "Team Victory"},
		{Src: "/images/academic.jpg", Alt: "Academic achievement", Caption: "Academic Excellence"},
	}
}

// dailyDigest emails the host a summary of submission activity.
func (s *service) dailyDigest() {
	if s.notifier == nil {
		return
	}
	stats := s.rsvp.Stats()
	msg := fmt.Sprintf("RSVP totals to date: %d accepted, %d rejected, %d failed.",
		stats.Accepted, stats.Rejected, stats.Failed)
	err := s.notifier.Send(context.Background(), "digest", msg)
	if err != nil {
		log.Printf("could not send daily digest: %v", err)
	}
}

// errorHandler returns unhandled errors as JSON without leaking
// internal detail.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := fiber.ErrInternalServerError.Message
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		msg = e.Message
	}
	log.Printf("%s %s failed: %v", c.Method(), c.Path(), err)
	return c.Status(code).JSON(fiber.Map{"error": msg})
}
