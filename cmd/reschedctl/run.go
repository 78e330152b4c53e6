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
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/gamechanger/resched/config"
)

var runCommand = &cli.Command{
	Name:   "run",
	Usage:  "run the maintenance daemon (default if no subcommand given)",
	Action: runAction,
}

func runAction(c *cli.Context) error {
	setupLogging(c)

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	d := newDaemon(cfg)
	return d.run(ctx)
}

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String(configFlag.Name); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if addr := c.String(redisAddrFlag.Name); addr != "" {
		cfg.RedisAddr = addr
	}
	if addr := c.String(metricsAddrFlag.Name); addr != "" {
		cfg.MetricsAddr = addr
	}
	return cfg, nil
}
