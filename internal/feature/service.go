package feature

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/Integral-X/meditrack-backend/config"
	"github.com/Unleash/unleash-client-go/v4"
)

// Service evaluates feature flags against a mock, remote, or degraded
// backend. The mode is fixed at construction; the remote client maintains its
// own periodically refreshed snapshot, so concurrent reads never block on a
// refresh in flight.
type Service struct {
	mu        sync.RWMutex
	mode      Mode
	client    *unleash.Client
	mockFlags []FeatureFlag

	syncedOnce sync.Once
}

// NewService builds the flag service. It never fails: mock mode serves fixed
// definitions without network access, and any remote misconfiguration or
// construction error falls back to the all-disabled degraded mode instead of
// leaving the service non-functional. Startup does not wait for the remote
// to synchronize.
func NewService(cfg *config.Config) *Service {
	s := &Service{}

	if cfg.UnleashMock {
		log.Printf("feature: using mock flag client (everything enabled)")
		s.mode = ModeMock
		s.mockFlags = mockDefinitions()
		s.logAvailableFeatures()
		return s
	}

	if err := s.initRemote(cfg); err != nil {
		log.Printf("feature: failed to initialize Unleash client: %v", err)
		log.Printf("feature: falling back to degraded mode, all flags disabled")
		s.mode = ModeDegraded
	}

	return s
}

func (s *Service) initRemote(cfg *config.Config) error {
	if cfg.UnleashURL == "" || cfg.UnleashAppName == "" || cfg.UnleashAPIToken == "" {
		return fmt.Errorf("missing required Unleash configuration: url, app name, and API token are required")
	}

	client, err := unleash.NewClient(
		unleash.WithUrl(cfg.UnleashURL),
		unleash.WithAppName(cfg.UnleashAppName),
		unleash.WithCustomHeaders(http.Header{"Authorization": {cfg.UnleashAPIToken}}),
		unleash.WithRefreshInterval(time.Duration(cfg.UnleashRefreshInterval)*time.Second),
		unleash.WithMetricsInterval(time.Duration(cfg.UnleashMetricsInterval)*time.Second),
		unleash.WithListener(&clientListener{service: s}),
	)
	if err != nil {
		return err
	}

	s.mode = ModeRemote
	s.client = client
	log.Printf("feature: Unleash client polling %s every %ds", cfg.UnleashURL, cfg.UnleashRefreshInterval)

	return nil
}

// IsEnabled reports whether the named flag is enabled for the given context.
// It is total: uninitialized or degraded state, and any internal evaluation
// failure, resolve to false.
func (s *Service) IsEnabled(name string, ctx *Context) (enabled bool) {
	mode, client := s.snapshot()

	switch mode {
	case ModeUninitialized:
		log.Printf("feature: client not initialized, returning false for %q", name)
		return false
	case ModeMock:
		return true
	case ModeDegraded:
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("feature: error checking %q: %v", name, r)
			enabled = false
		}
	}()

	return client.IsEnabled(name, unleash.WithContext(ctx.toUnleash()))
}

// GetVariant resolves the experimentation variant for the named flag. Any
// failure or uninitialized state yields the disabled sentinel variant.
func (s *Service) GetVariant(name string, ctx *Context) (variant Variant) {
	mode, client := s.snapshot()

	switch mode {
	case ModeUninitialized:
		log.Printf("feature: client not initialized, returning disabled variant for %q", name)
		return DisabledVariant()
	case ModeMock:
		return Variant{Name: "enabled", Enabled: true}
	case ModeDegraded:
		return DisabledVariant()
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("feature: error getting variant for %q: %v", name, r)
			variant = DisabledVariant()
		}
	}()

	v := client.GetVariant(name, unleash.WithVariantContext(ctx.toUnleash()))
	if v == nil {
		return DisabledVariant()
	}
	return Variant{Name: v.Name, Enabled: v.Enabled}
}

// GetAllFeatures returns every known flag definition merged with its enabled
// state under the given context. Uninitialized, degraded, and failure states
// all yield an empty list.
func (s *Service) GetAllFeatures(ctx *Context) (flags []FeatureFlag) {
	mode, client := s.snapshot()

	flags = []FeatureFlag{}

	switch mode {
	case ModeUninitialized:
		log.Printf("feature: client not initialized, returning empty feature list")
		return flags
	case ModeMock:
		return append(flags, s.mockFlags...)
	case ModeDegraded:
		return flags
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("feature: error getting feature definitions: %v", r)
			flags = []FeatureFlag{}
		}
	}()

	for _, def := range client.ListFeatures() {
		flags = append(flags, FeatureFlag{
			Name:        def.Name,
			Enabled:     client.IsEnabled(def.Name, unleash.WithContext(ctx.toUnleash())),
			Description: def.Description,
			Type:        def.Type,
			Strategies:  def.Strategies,
			Variants:    def.Variants,
		})
	}

	return flags
}

// Refresh requests an out-of-band resynchronization. The Unleash Go client
// refreshes on its own polling interval and exposes no forced refresh, so
// this logs and returns in every mode.
func (s *Service) Refresh() {
	mode, _ := s.snapshot()

	switch mode {
	case ModeRemote:
		log.Printf("feature: forced refresh not supported; flags refresh on the polling interval")
	default:
		log.Printf("feature: cannot refresh, client is %s", mode)
	}
}

// IsReady reports whether a flag client (mock, remote, or the degraded
// fallback evaluator) has been constructed.
func (s *Service) IsReady() bool {
	mode, _ := s.snapshot()
	return mode != ModeUninitialized
}

// Mode returns the backend variant selected at initialization.
func (s *Service) Mode() Mode {
	mode, _ := s.snapshot()
	return mode
}

// Close shuts down the remote client, flushing pending metrics.
func (s *Service) Close() error {
	mode, client := s.snapshot()
	if mode == ModeRemote {
		return client.Close()
	}
	return nil
}

func (s *Service) snapshot() (Mode, *unleash.Client) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode, s.client
}

func (s *Service) logAvailableFeatures() {
	features := s.GetAllFeatures(nil)
	if len(features) == 0 {
		log.Printf("feature: no feature flags found")
		return
	}

	enabled := 0
	for _, f := range features {
		status := "disabled"
		if f.Enabled {
			status = "enabled"
			enabled++
		}
		log.Printf("feature: %s: %s", f.Name, status)
	}
	log.Printf("feature: %d flags total, %d enabled, %d disabled", len(features), enabled, len(features)-enabled)
}

func mockDefinitions() []FeatureFlag {
	return []FeatureFlag{
		{Name: "mock-feature-1", Enabled: true, Description: "Mock feature for development"},
		{Name: "mock-feature-2", Enabled: false, Description: "Another mock feature"},
	}
}

// clientListener receives Unleash client events; they are log-worthy
// notifications, not control flow. The first synchronization also dumps the
// flag list once.
type clientListener struct {
	service *Service
}

func (l *clientListener) OnReady() {
	log.Printf("feature: Unleash client synchronized with server")
	l.service.syncedOnce.Do(l.service.logAvailableFeatures)
}

func (l *clientListener) OnError(err error) {
	log.Printf("feature: Unleash client error: %v", err)
}

func (l *clientListener) OnWarning(warning error) {
	log.Printf("feature: Unleash client warning: %v", warning)
}

func (l *clientListener) OnCount(name string, enabled bool) {}

func (l *clientListener) OnSent(payload unleash.MetricsData) {}

func (l *clientListener) OnRegistered(payload unleash.ClientData) {}
