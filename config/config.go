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

// Package config loads cmd/reschedctl's operational configuration: where
// Redis lives and the knobs the maintenance daemon runs with. Library
// consumers embedding queue/scheduler directly construct Options in code
// and never touch this package (spec.md §6: "no ... persisted state beyond
// what the store holds" — this file is the daemon's own bootstrap, not
// part of the core protocol).
package config

import (
	"time"

	"github.com/BurntSushi/toml"

	"github.com/gamechanger/resched/errs"
)

// Namespace describes one queue or scheduler namespace the maintenance
// daemon should run ReclaimTasks/RescheduleDroppedItems against.
type Namespace struct {
	Name string `toml:"name"`
	Kind string `toml:"kind"` // "queue" or "scheduler"
}

// Config is the root of a reschedctl TOML config file.
type Config struct {
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
	WorkTTL       time.Duration `toml:"work_ttl"`
	ProgressTTL   time.Duration `toml:"progress_ttl"`
	PollInterval  time.Duration `toml:"poll_interval"`
	MetricsAddr   string        `toml:"metrics_addr"`
	Namespaces    []Namespace   `toml:"namespace"`
}

// Default returns the zero-config fallback: a local Redis, 60s work/progress
// TTLs matching spec.md's stated defaults, and a 1s maintenance poll.
func Default() Config {
	return Config{
		RedisAddr:    "localhost:6379",
		WorkTTL:      60 * time.Second,
		ProgressTTL:  60 * time.Second,
		PollInterval: time.Second,
		MetricsAddr:  ":9090",
	}
}

// Load reads and validates a TOML config file at path, starting from
// Default() so an unset field keeps its default.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errs.ConfigError("decode config file " + path + ": " + err.Error())
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.RedisAddr == "" {
		return errs.ConfigError("redis_addr must not be empty")
	}
	for _, ns := range c.Namespaces {
		if ns.Name == "" {
			return errs.ConfigError("namespace entry missing name")
		}
		if ns.Kind != "queue" && ns.Kind != "scheduler" {
			return errs.ConfigError("namespace " + ns.Name + ": kind must be \"queue\" or \"scheduler\"")
		}
	}
	return nil
}
