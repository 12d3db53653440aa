package httpinterface

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/net/netutil"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/token-launcher/internal/core/application"
	"github.com/tdex-network/token-launcher/internal/infrastructure/pubsub/stream"
	interfaces "github.com/tdex-network/token-launcher/internal/interfaces"
	"github.com/tdex-network/token-launcher/internal/interfaces/http/middleware"
	"github.com/tdex-network/token-launcher/pkg/macaroons"
)

const shutdownTimeout = 5 * time.Second

type ServiceOpts struct {
	NoMacaroons bool

	// Datadir is where macaroons and TLS files are stored. Macaroon root
	// keys are kept in memory and no file is written if it's empty.
	Datadir           string
	MacaroonsLocation string
	TLSLocation       string
	EnableTLS         bool
	TLSExtraIPs       []string
	TLSExtraDomains   []string

	Address            string
	CORSAllowedOrigins []string
	// MaxConnections caps the number of concurrent connections, 0 means no
	// limit.
	MaxConnections int

	LauncherSvc application.LauncherService
	GuestSvc    application.GuestService
	IntentSvc   application.IntentService
	PubSubSvc   application.PubSubService
	EventsHub   *stream.Hub

	// Metrics are collected only if Registerer is defined, and exposed at
	// /metrics only if Gatherer is.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

func (o ServiceOpts) validate() error {
	if len(o.Address) <= 0 {
		return fmt.Errorf("missing listening address")
	}
	if o.EnableTLS {
		if len(o.Datadir) <= 0 {
			return fmt.Errorf("datadir is required to enable TLS")
		}
		for _, ip := range o.TLSExtraIPs {
			if net.ParseIP(ip) == nil {
				return fmt.Errorf("invalid TLS extra ip %s", ip)
			}
		}
	}
	if o.LauncherSvc == nil {
		return fmt.Errorf("launcher app service must not be null")
	}
	if o.GuestSvc == nil {
		return fmt.Errorf("guest app service must not be null")
	}
	if o.IntentSvc == nil {
		return fmt.Errorf("intent app service must not be null")
	}
	if o.PubSubSvc == nil {
		return fmt.Errorf("pubsub app service must not be null")
	}
	return nil
}

func (o ServiceOpts) macaroonsDatadir() string {
	if len(o.Datadir) <= 0 {
		return ""
	}
	return filepath.Join(o.Datadir, o.MacaroonsLocation)
}

func (o ServiceOpts) tlsDatadir() string {
	return filepath.Join(o.Datadir, o.TLSLocation)
}

type service struct {
	opts        ServiceOpts
	macaroonSvc *macaroons.Service
	handler     http.Handler
	server      *http.Server
}

func NewService(opts ServiceOpts) (interfaces.Service, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid opts: %s", err)
	}

	var macaroonSvc *macaroons.Service
	if !opts.NoMacaroons {
		dbDir := ""
		if macDir := opts.macaroonsDatadir(); len(macDir) > 0 {
			dbDir = filepath.Join(macDir, macaroonsDBLocation)
		}
		svc, err := macaroons.NewService(dbDir, Location, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to init macaroon service: %s", err)
		}
		macaroonSvc = svc

		if macDir := opts.macaroonsDatadir(); len(macDir) > 0 {
			if err := genMacaroons(
				context.Background(), macaroonSvc, macDir,
			); err != nil {
				macaroonSvc.Close()
				return nil, fmt.Errorf("failed to create macaroons: %s", err)
			}
		}
	} else {
		log.Warn("macaroon auth disabled, every endpoint is open")
	}

	if opts.EnableTLS {
		if err := generateTLSKeyCert(
			opts.tlsDatadir(), opts.TLSExtraIPs, opts.TLSExtraDomains,
		); err != nil {
			return nil, err
		}
	}

	router, err := newRouter(opts, macaroonSvc)
	if err != nil {
		return nil, err
	}

	allowedOrigins := opts.CORSAllowedOrigins
	if len(allowedOrigins) <= 0 {
		allowedOrigins = []string{"*"}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", macaroons.HeaderKey},
	})

	return &service{
		opts:        opts,
		macaroonSvc: macaroonSvc,
		handler:     corsHandler.Handler(router),
	}, nil
}

func (s *service) Start() error {
	lis, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}
	if s.opts.MaxConnections > 0 {
		lis = netutil.LimitListener(lis, s.opts.MaxConnections)
	}

	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		var err error
		if s.opts.EnableTLS {
			err = s.server.ServeTLS(
				lis,
				filepath.Join(s.opts.tlsDatadir(), TLSCertFile),
				filepath.Join(s.opts.tlsDatadir(), TLSKeyFile),
			)
		} else {
			err = s.server.Serve(lis)
		}
		if err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("http interface stopped unexpectedly")
		}
	}()

	log.Infof("http interface listening on %s", lis.Addr())
	return nil
}

func (s *service) Stop() {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			log.WithError(err).Warn("failed to gracefully stop http interface")
		}
		log.Debug("disabled http interface")
	}

	if s.opts.EventsHub != nil {
		s.opts.EventsHub.Close()
		log.Debug("closed events stream")
	}

	if s.macaroonSvc != nil {
		s.macaroonSvc.Close()
		log.Debug("stopped macaroon service")
	}
}

func newRouter(
	opts ServiceOpts, macaroonSvc *macaroons.Service,
) (*mux.Router, error) {
	h := newHandler(opts)
	router := mux.NewRouter()

	mws, err := middleware.Middlewares(macaroonSvc, opts.Registerer)
	if err != nil {
		return nil, err
	}
	router.Use(mws...)

	// Token launch and owner operations
	router.HandleFunc("/launch-token", h.launchToken).Methods(http.MethodPost)
	router.HandleFunc("/transfer-tokens", h.transferTokens).Methods(http.MethodPost)
	router.HandleFunc("/mint", h.mint).Methods(http.MethodPost)
	router.HandleFunc("/update-drop-amount", h.updateDropAmount).Methods(http.MethodPost)
	router.HandleFunc("/add-key", h.addKey).Methods(http.MethodPost)
	router.HandleFunc("/delete-access-keys", h.deleteAccessKeys).Methods(http.MethodPost)
	router.HandleFunc("/tokens", h.listTokens).Methods(http.MethodGet)

	// Guests
	router.HandleFunc("/add-guest", h.addGuest).Methods(http.MethodPost)
	router.HandleFunc("/remove-guest", h.removeGuest).Methods(http.MethodPost)
	router.HandleFunc("/guests", h.listGuests).Methods(http.MethodGet)
	router.HandleFunc("/guests/reconcile", h.reconcileGuests).Methods(http.MethodPost)

	// Views
	router.HandleFunc("/balance-of", h.balanceOf).Methods(http.MethodPost)
	router.HandleFunc("/total-supply", h.totalSupply).Methods(http.MethodPost)
	router.HandleFunc("/storage-balance-of", h.storageBalanceOf).Methods(http.MethodPost)
	router.HandleFunc("/get-guest", h.getGuest).Methods(http.MethodPost)

	// Access key proofs
	router.HandleFunc("/storage-deposit", h.storageDeposit).Methods(http.MethodPost)
	router.HandleFunc("/has-access-key", h.hasAccessKey).Methods(http.MethodPost)

	// Intents
	router.HandleFunc("/intents", h.listIntents).Methods(http.MethodGet)
	router.HandleFunc("/intents/resolve", h.resolveIntent).Methods(http.MethodPost)

	// Webhooks and events
	router.HandleFunc("/webhooks", h.addWebhook).Methods(http.MethodPost)
	router.HandleFunc("/webhooks", h.listWebhooks).Methods(http.MethodGet)
	router.HandleFunc("/webhooks/{id}", h.removeWebhook).Methods(http.MethodDelete)
	router.HandleFunc("/events", h.events).Methods(http.MethodGet)

	if opts.Gatherer != nil {
		router.Handle(
			"/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}),
		).Methods(http.MethodGet)
	}

	return router, nil
}
