// cmd/web/main.go
//
// Survey Lingkungan – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load env vars (jail-wide file → conf/.env fallback).
//
//  2. Build a Vault client when VAULT_ADDR is set, then load and validate
//     the layered config (defaults → conf/global.yaml → SURVEY_ env), with
//     `vault:` references resolved.
//
//  3. Start the daily rotating logger (tees to console in a TTY).
//
//  4. Load the survey definition (configured file or embedded default),
//     the CSRF signer, the optional GeoLite2 locator, and the in-memory
//     session store.
//
//  5. Build the chi router:
//
//     • RequestID → access log → Recoverer → security headers
//     • optional ForceHTTPS redirect
//     • request info (UA + geo) on the context
//     • /healthz, /metrics, development modules when survey.debug is set
//     • the survey component mounted at “/”
//
//  6. Serve until SIGINT or SIGTERM, then drain.  SIGHUP reloads the
//     config; new sessions pick up the new survey knobs.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/survey/components/survey"
	"github.com/yanizio/survey/internal/component"
	"github.com/yanizio/survey/internal/config"
	"github.com/yanizio/survey/internal/form"
	"github.com/yanizio/survey/internal/logger"
	"github.com/yanizio/survey/internal/middleware"
	"github.com/yanizio/survey/internal/module"
	"github.com/yanizio/survey/internal/remote"
	"github.com/yanizio/survey/internal/requestinfo"
	"github.com/yanizio/survey/internal/server"
	"github.com/yanizio/survey/internal/session"
	"github.com/yanizio/survey/internal/vault"
	"github.com/yanizio/survey/internal/wizard"

	_ "github.com/yanizio/survey/modules/debug" // development state dump
)

const serverEnvPath = "/usr/local/etc/survey/global.env"

// loadEnv prefers the jail-wide env file; on dev the config loader picks
// up conf/.env itself.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
	}
}

func init() { loadEnv() }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Secrets + config ────────────────────────────────────────────
	//
	var sec config.Secrets
	if vault.Enabled() {
		cli, err := vault.New(ctx, nil)
		if err != nil {
			log.Fatalf("vault: %v", err)
		}
		sec = cli
	}
	cfg, err := config.Load(ctx, sec)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	//
	// ── 2.  Logger ──────────────────────────────────────────────────────
	//
	logOut, err := logger.New(cfg.Paths.Root, cfg.Log.Tee || logger.IsTTY(), cfg.Log.Level)
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = logOut.Sync() }()

	//
	// ── 3.  Survey definition, CSRF, geo, sessions ─────────────────────
	//
	def, err := loadDefinition(cfg.Survey.Definition)
	if err != nil {
		logOut.Fatalw("survey definition", "err", err)
	}
	form.Register(def)
	logOut.Infow("survey definition loaded", "id", def.ID, "questions", len(def.Questions))

	key, err := form.DecodeKey(cfg.Security.CSRFKey)
	if err != nil {
		logOut.Fatalw("csrf key", "err", err)
	}
	csrf := form.NewCSRF(key)

	var geo *requestinfo.Locator
	if p := cfg.RequestInfo.GeoIPPath; p != "" {
		if geo, err = requestinfo.OpenGeo(p, cfg.RequestInfo.GeoCacheSize); err != nil {
			logOut.Warnw("geoip disabled", "err", err)
		} else {
			defer geo.Close()
		}
	}

	store := session.NewStore(session.Options{
		IdleTTL:       cfg.Session.IdleTTL,
		MaxEntries:    cfg.Session.MaxEntries,
		EvictInterval: cfg.Session.EvictInterval,
		Logger:        logOut,
	}, sessionFactory(def, logOut))
	defer store.Close()

	//
	// ── 4.  Router ──────────────────────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog(logOut))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Security)
	r.Use(middleware.ForceHTTPS(cfg.HTTP.ForceHTTPS))
	r.Use(requestinfo.Enrich(geo))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	if cfg.Survey.Debug {
		env := &module.Env{Sessions: store, Config: cfg}
		for _, p := range module.Paths() {
			r.Get(p, module.Bind(env, module.Lookup(p)))
			logOut.Warnw("development module mounted", "path", p)
		}
	}

	component.Register(survey.New(survey.Deps{
		Definition: def,
		Sessions:   store,
		CSRF:       csrf,
	}))
	component.Mount(r)

	//
	// ── 5.  Config reload on SIGHUP ─────────────────────────────────────
	//
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				if err := config.Reload(ctx); err != nil {
					logOut.Errorw("config reload failed", "err", err)
					continue
				}
				logOut.Infow("config reloaded")
			}
		}
	}()

	//
	// ── 6.  Serve ───────────────────────────────────────────────────────
	//
	srv := server.New(cfg.HTTP, r)
	if err := server.Run(ctx, srv, cfg.HTTP.ShutdownTimeout, logOut); err != nil {
		logOut.Errorw("server stopped", "err", err)
		os.Exit(1)
	}
	logOut.Infow("bye", "uptime", time.Since(start))
}

var start = time.Now()

// loadDefinition reads path, or the embedded survey when path is empty.
func loadDefinition(path string) (*form.Definition, error) {
	if path == "" {
		return form.LoadDefault()
	}
	return form.LoadDefinition(path)
}

// sessionFactory builds each new wizard from the config current at the
// time the session starts, so a reload affects only new respondents.
func sessionFactory(def *form.Definition, log *zap.SugaredLogger) session.Factory {
	return func() (*wizard.Wizard, *form.Errors) {
		cfg := config.Get()
		loc, err := cfg.Survey.Location()
		if err != nil {
			loc = time.Local
		}
		return survey.Factory(def, wizard.Config{
			Caller:       remote.NewSimulated(cfg.Survey.FailureRate, nil),
			LoginDelay:   cfg.Survey.LoginDelay,
			SubmitDelay:  cfg.Survey.SubmitDelay,
			DemoDelay:    cfg.Survey.DemoDelay,
			Location:     loc,
			ShareBase:    cfg.Survey.ShareBase,
			ShareContact: cfg.Survey.ShareContact,
			Logger:       log,
		})()
	}
}
