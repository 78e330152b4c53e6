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
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"

	"github.com/gamechanger/resched/codec"
	"github.com/gamechanger/resched/queue"
	"github.com/gamechanger/resched/scheduler"
	"github.com/gamechanger/resched/store/redisstore"
)

var statusCommand = &cli.Command{
	Name:   "status",
	Usage:  "print queue depth / scheduled count for every configured namespace",
	Action: statusAction,
}

func statusAction(c *cli.Context) error {
	setupLogging(c)

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()
	s := redisstore.New(rdb)

	cd, err := codec.New(codec.Structured)
	if err != nil {
		return err
	}

	ctx := context.Background()
	for _, ns := range cfg.Namespaces {
		switch ns.Kind {
		case "queue":
			q, err := queue.New(s, ns.Name, cd)
			if err != nil {
				return err
			}
			size, err := q.Size(ctx)
			if err != nil {
				return err
			}
			inProgress, err := q.NumberInProgressAll(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("%s (queue): pending=%d in_progress=%d\n", ns.Name, size, inProgress)
		case "scheduler":
			sc, err := scheduler.New(s, ns.Name, cd)
			if err != nil {
				return err
			}
			n, err := sc.CountScheduled(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("%s (scheduler): scheduled=%d\n", ns.Name, n)
		default:
			return fmt.Errorf("reschedctl: unknown namespace kind %q for %q", ns.Kind, ns.Name)
		}
	}
	return nil
}
