// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/hamed0406/webmon/internal/config"
)

// Validates the deployment environment before starting the monitor:
// config file parses, an interval is resolvable, storage env sanity.
func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	interval := pflag.Int("interval", 0, "check interval in seconds, overrides the config file")
	file := pflag.String("file", config.DefaultConfigPath, "config file path")
	pflag.Parse()

	cfg, err := config.Load(*file, *interval)
	if err != nil {
		fail("config: " + err.Error())
	}
	ok(fmt.Sprintf("config parsed: %d target(s), interval %ds", len(cfg.Targets), cfg.Interval))

	if len(cfg.Targets) == 0 {
		warn("no targets configured; the dashboard will stay empty")
	}
	for _, t := range cfg.Targets {
		if !strings.HasPrefix(t.URL, "http://") && !strings.HasPrefix(t.URL, "https://") {
			warn(fmt.Sprintf("target %q has no http(s) scheme", t.URL))
		}
	}

	db := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if db == "" {
		env := config.FromEnv()
		ok("DATABASE_URL empty; probe log goes to sqlite file " + env.DBPath)
	} else {
		ok("DATABASE_URL present; probe log goes to PostgreSQL")
	}

	ok("preflight passed")
}
