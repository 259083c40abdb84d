package identity

import (
	"context"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/argo-platform/program-service/internal/config"
	"github.com/argo-platform/program-service/internal/telemetry"
)

// FromConfig builds a Client from application configuration.
//
// The service credential is a static bearer token, or an OAuth2 client
// credentials grant against TokenURL when ClientID is set.
func FromConfig(ctx context.Context, cfg config.IdentityConfig, logger *slog.Logger, metrics *telemetry.IdentityMetrics) (*Client, error) {
	httpClient := &http.Client{Transport: NewTransport(cfg.MaxIdleConns)}

	var tokenSource oauth2.TokenSource
	switch {
	case cfg.ClientID != "":
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		tokenCtx := context.WithValue(ctx, oauth2.HTTPClient, &http.Client{
			Transport: httpClient.Transport,
			Timeout:   cfg.RequestTimeout,
		})
		tokenSource = cc.TokenSource(tokenCtx)
	case cfg.StaticToken != "":
		tokenSource = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.StaticToken, TokenType: "Bearer"})
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return NewClient(Config{
		BaseURL:        cfg.BaseURL,
		HTTPClient:     httpClient,
		TokenSource:    tokenSource,
		RequestTimeout: cfg.RequestTimeout,
		Limiter:        limiter,
		Logger:         logger,
		Metrics:        metrics,
	})
}
