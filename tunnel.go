package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/nikhilr612/alesia/game/service"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// tunnelSettings configure the optional public ngrok endpoint
type tunnelSettings struct {
	Enabled   bool
	AuthToken string
	Domain    string
}

// tunnelSettingsFromEnv merges the -ngrok flags with NGROK_* variables.
// Flags win when both are set.
func tunnelSettingsFromEnv() tunnelSettings {
	s := tunnelSettings{
		Enabled:   *ngrokEnabled,
		AuthToken: *ngrokAuth,
		Domain:    *ngrokDomain,
	}

	if !s.Enabled {
		switch os.Getenv("NGROK_ENABLED") {
		case "true", "1":
			s.Enabled = true
		}
	}
	if s.AuthToken == "" {
		s.AuthToken = os.Getenv("NGROK_AUTHTOKEN")
	}
	if s.AuthToken == "" {
		s.AuthToken = os.Getenv("NGROK_AUTH_TOKEN")
	}
	if s.Domain == "" {
		s.Domain = os.Getenv("NGROK_DOMAIN")
	}
	return s
}

func (s tunnelSettings) endpoint() ngrokConfig.Tunnel {
	if s.Domain != "" {
		return ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(s.Domain))
	}
	return ngrokConfig.HTTPEndpoint()
}

// serveTunnel publishes handler through ngrok until ctx is cancelled
func serveTunnel(ctx context.Context, s tunnelSettings, handler http.Handler, worldService service.WorldService) error {
	if s.AuthToken == "" {
		return errors.New("ngrok enabled without an auth token (set -ngrok-auth or NGROK_AUTHTOKEN)")
	}

	tun, err := ngrok.Listen(ctx, s.endpoint(), ngrok.WithAuthtoken(s.AuthToken))
	if err != nil {
		return fmt.Errorf("failed to start ngrok tunnel: %w", err)
	}

	log.Printf("🚀 Worlds published at %s", tun.URL())
	logEndpoints(ctx, tun.URL(), worldService)

	srv := &http.Server{Handler: handler}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	if err := srv.Serve(tun); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("tunnel closed: %w", err)
	}
	log.Println("Tunnel closed")
	return nil
}
