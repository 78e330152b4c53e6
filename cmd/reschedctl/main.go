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

// Command reschedctl is the maintenance daemon for resched namespaces: it
// runs ReclaimTasks/RescheduleDroppedItems on a poll loop, serves /metrics,
// and uses a distributed lock so only one replica drives a given namespace
// at a time (spec.md §4.2/§4.3 call these operations out as needing some
// external driver; the library itself never schedules its own upkeep).
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/gamechanger/resched/log"
)

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "path to a reschedctl TOML config file",
	}
	redisAddrFlag = &cli.StringFlag{
		Name:  "redis-addr",
		Usage: "override config's redis_addr",
	}
	metricsAddrFlag = &cli.StringFlag{
		Name:  "metrics-addr",
		Usage: "override config's metrics_addr",
	}
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "log verbosity: 0=crit 1=error 2=warn 3=info 4=debug 5=trace",
		Value: 3,
	}
)

func main() {
	app := &cli.App{
		Name:  "reschedctl",
		Usage: "maintenance daemon and inspection CLI for resched queues and schedulers",
		Flags: []cli.Flag{configFlag, redisAddrFlag, metricsAddrFlag, verbosityFlag},
		Commands: []*cli.Command{
			runCommand,
			statusCommand,
		},
		Action: runAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var verbosityLevels = []log.Level{
	log.LevelCrit,
	log.LevelError,
	log.LevelWarn,
	log.LevelInfo,
	log.LevelDebug,
	log.LevelTrace,
}

func setupLogging(c *cli.Context) {
	v := c.Int(verbosityFlag.Name)
	if v < 0 {
		v = 0
	}
	if v >= len(verbosityLevels) {
		v = len(verbosityLevels) - 1
	}
	log.SetDefault(log.NewLogger(log.NewTerminalHandler(os.Stderr, verbosityLevels[v])))
}
