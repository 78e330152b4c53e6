// Copyright 2026 The resched Authors
// This file is part of resched.
//
// resched is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// resched is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with resched.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/RichardKnop/redsync"
	"github.com/avast/retry-go"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/gamechanger/resched/codec"
	"github.com/gamechanger/resched/config"
	"github.com/gamechanger/resched/log"
	"github.com/gamechanger/resched/metrics"
	mprom "github.com/gamechanger/resched/metrics/prometheus"
	"github.com/gamechanger/resched/queue"
	"github.com/gamechanger/resched/scheduler"
	"github.com/gamechanger/resched/store"
	"github.com/gamechanger/resched/store/redisstore"
)

// daemon owns one store connection and a maintenance goroutine per
// configured namespace.
type daemon struct {
	cfg      config.Config
	store    store.Store
	rs       *redsync.Redsync
	workerID string
	log      log.Logger
}

func newDaemon(cfg config.Config) *daemon {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	metrics.Enable()
	return &daemon{
		cfg:      cfg,
		store:    redisstore.New(rdb),
		rs:       newRedsync(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB),
		workerID: uuid.NewString(),
		log:      log.New("component", "reschedctl"),
	}
}

// run starts one maintenance goroutine per namespace and blocks until ctx
// is cancelled or any goroutine returns a non-context error.
func (d *daemon) run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, ns := range d.cfg.Namespaces {
		ns := ns
		g.Go(func() error { return d.maintainLoop(ctx, ns) })
	}

	if d.cfg.MetricsAddr != "" {
		g.Go(func() error { return d.serveMetrics(ctx) })
	}

	d.log.Info("reschedctl started", "worker_id", d.workerID, "namespaces", len(d.cfg.Namespaces))
	return g.Wait()
}

// maintainLoop runs ReclaimTasks (queue) or RescheduleDroppedItems
// (scheduler) for one namespace on cfg.PollInterval, rate-limited so a
// misconfigured short interval can't hammer the store, and guarded by a
// per-namespace distributed lock so only one reschedctl replica drives a
// given namespace's maintenance at a time.
func (d *daemon) maintainLoop(ctx context.Context, ns config.Namespace) error {
	limiter := rate.NewLimiter(rate.Every(d.cfg.PollInterval), 1)
	c, err := codec.New(codec.Structured)
	if err != nil {
		return err
	}

	for {
		if err := limiter.Wait(ctx); err != nil {
			return ctx.Err()
		}

		lockTTL := d.cfg.PollInterval * 3
		if lockTTL < time.Second {
			lockTTL = time.Second
		}
		lock, err := acquireNamespaceLock(d.rs, ns.Name, lockTTL)
		if err != nil {
			d.log.Warn("reschedctl: lock contended, skipping cycle", "namespace", ns.Name, "err", err)
			continue
		}

		err = retry.Do(func() error {
			return d.sweep(ctx, ns, c)
		}, retry.Attempts(3), retry.Context(ctx))
		lock.release()

		if err != nil && !errors.Is(err, context.Canceled) {
			d.log.Error("reschedctl: maintenance sweep failed", "namespace", ns.Name, "err", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

func (d *daemon) sweep(ctx context.Context, ns config.Namespace, c *codec.Codec) error {
	switch ns.Kind {
	case "queue":
		q, err := queue.New(d.store, ns.Name, c, queue.WithWorkTTL(d.cfg.WorkTTL))
		if err != nil {
			return err
		}
		return q.ReclaimTasks(ctx)
	case "scheduler":
		s, err := scheduler.New(d.store, ns.Name, c, scheduler.WithDefaultProgressTTL(d.cfg.ProgressTTL))
		if err != nil {
			return err
		}
		return s.RescheduleDroppedItems(ctx)
	default:
		return fmt.Errorf("reschedctl: unknown namespace kind %q", ns.Kind)
	}
}

func (d *daemon) serveMetrics(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		fmt.Fprint(w, mprom.Collect(metrics.DefaultRegistry))
	})
	srv := &http.Server{Addr: d.cfg.MetricsAddr, Handler: mux}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
