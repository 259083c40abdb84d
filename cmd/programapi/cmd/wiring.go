package cmd

import (
	"context"
	"crypto"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/uptrace/bun"

	"github.com/argo-platform/program-service/internal/auth"
	"github.com/argo-platform/program-service/internal/config"
	"github.com/argo-platform/program-service/internal/db/bunx"
	"github.com/argo-platform/program-service/internal/identity"
	"github.com/argo-platform/program-service/internal/lock"
	"github.com/argo-platform/program-service/internal/repository"
	"github.com/argo-platform/program-service/internal/services/access"
	"github.com/argo-platform/program-service/internal/services/program"
	"github.com/argo-platform/program-service/internal/services/reference"
	"github.com/argo-platform/program-service/internal/telemetry"
)

// components holds everything the serve and access commands share.
type components struct {
	db         *bun.DB
	idp        *identity.Client
	reconciler *access.Reconciler
	references *reference.Service
	programs   *program.Service

	closers []func() error
}

// buildComponents connects to the database, identity service and lock
// backend and assembles the program service.
func buildComponents(ctx context.Context) (_ *components, err error) {
	c := &components{}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	c.db, err = bunx.NewDB(cfg.DatabaseURL, cfg.MaxDBConnections)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.closers = append(c.closers, c.db.Close)
	logger.Info("connected to database", "type", bunx.DetectDatabaseType(cfg.DatabaseURL))

	identityMetrics, err := telemetry.NewIdentityMetrics()
	if err != nil {
		return nil, fmt.Errorf("create identity metrics: %w", err)
	}
	c.idp, err = identity.FromConfig(ctx, cfg.Identity, logger, identityMetrics)
	if err != nil {
		return nil, fmt.Errorf("create identity client: %w", err)
	}

	reconcileMetrics, err := telemetry.NewReconcileMetrics()
	if err != nil {
		return nil, fmt.Errorf("create reconcile metrics: %w", err)
	}
	c.reconciler, err = access.NewReconciler(c.idp, repository.NewBunRoleBindingRepository(c.db), access.Options{
		MaxAttempts:     cfg.Reconcile.MaxAttempts,
		InitialInterval: cfg.Reconcile.InitialInterval,
		MaxInterval:     cfg.Reconcile.MaxInterval,
		Concurrency:     cfg.Reconcile.Concurrency,
		Logger:          logger,
		Metrics:         reconcileMetrics,
	})
	if err != nil {
		return nil, fmt.Errorf("create reconciler: %w", err)
	}

	locker, closeLock, err := lock.Open(ctx, cfg.Lock, logger)
	if err != nil {
		return nil, fmt.Errorf("open program lock: %w", err)
	}
	c.closers = append(c.closers, closeLock)

	c.references, err = reference.NewService(repository.NewBunReferenceRepository(c.db), reference.DefaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create reference service: %w", err)
	}

	c.programs, err = program.NewService(program.Dependencies{
		Programs:   repository.NewBunProgramRepository(c.db),
		Members:    repository.NewBunMembershipRepository(c.db),
		References: c.references,
		Users:      c.idp,
		Reconciler: c.reconciler,
		Locker:     locker,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create program service: %w", err)
	}

	return c, nil
}

// Close releases resources in reverse order of acquisition.
func (c *components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			logger.Warn("close failed", "error", err)
		}
	}
	c.closers = nil
}

// loadVerificationKey resolves the token verification key from the first
// configured source. Without any source the key is fetched from the identity
// service itself.
func loadVerificationKey(ctx context.Context, a config.AuthConfig, idp *identity.Client) (crypto.PublicKey, error) {
	switch {
	case a.PublicKey != "":
		return auth.LoadPublicKey(a.PublicKey, a.Algorithm)
	case a.PublicKeyFile != "":
		return auth.LoadPublicKeyFile(a.PublicKeyFile, a.Algorithm)
	case a.PublicKeyURL != "":
		material, err := fetchPublicKey(ctx, a.PublicKeyURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", auth.ErrKeyUnavailable, err)
		}
		return auth.LoadPublicKey(material, a.Algorithm)
	default:
		material, err := idp.GetPublicKey(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", auth.ErrKeyUnavailable, err)
		}
		return auth.LoadPublicKey(material, a.Algorithm)
	}
}

const publicKeyFetchTimeout = 30 * time.Second

// fetchPublicKey downloads key material, retrying while the key endpoint is
// not yet reachable.
func fetchPublicKey(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, publicKeyFetchTimeout)
	defer cancel()

	client := &http.Client{Timeout: 5 * time.Second}
	var material string
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if err != nil {
			return err
		}
		switch {
		case resp.StatusCode >= 500:
			return fmt.Errorf("GET %s: HTTP %d", url, resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return backoff.Permanent(fmt.Errorf("GET %s: HTTP %d", url, resp.StatusCode))
		}
		material = strings.TrimSpace(string(body))
		if material == "" {
			return backoff.Permanent(errors.New("empty key response"))
		}
		return nil
	}

	notify := func(err error, wait time.Duration) {
		logger.Warn("public key fetch failed, retrying", "url", url, "error", err, "wait", wait)
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(backoff.NewExponentialBackOff(), ctx), notify); err != nil {
		return "", err
	}
	return material, nil
}
