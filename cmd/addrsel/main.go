// Command addrsel is a terminal front end for the cascading address
// selector.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/dukerupert/thaiaddress/cmd/addrsel/interactive"
	"github.com/dukerupert/thaiaddress/internal"
	"github.com/dukerupert/thaiaddress/internal/address"
	"github.com/dukerupert/thaiaddress/internal/selector"
	"gopkg.in/yaml.v3"
)

type options struct {
	DataFile     string
	Format       string
	OverrideFile string
	Province     string
	District     string
	SubDistrict  string
	LogLevel     string
	Watch        bool
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.DataFile, "data", "data/thai-address.json", "Address dataset file")
	flag.StringVar(&o.Format, "format", "", "Dataset format: json, json-nested, yaml (default: detect)")
	flag.StringVar(&o.OverrideFile, "override", "", "YAML file mapping province -> district -> sub-districts; replaces the dataset")
	flag.StringVar(&o.Province, "province", "", "Initial province")
	flag.StringVar(&o.District, "district", "", "Initial district")
	flag.StringVar(&o.SubDistrict, "sub-district", "", "Initial sub-district")
	flag.StringVar(&o.LogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	flag.BoolVar(&o.Watch, "watch", false, "Reload the dataset when the file changes")
	flag.Parse()
	return o
}

func run() error {
	o := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := internal.NewLogger(os.Stderr, "dev", o.LogLevel)

	format, err := address.ParseFormat(o.Format)
	if err != nil {
		return err
	}

	store := address.NewStore(address.WithLogger(logger), address.WithFormat(format))
	if err := store.Load(ctx, address.FileSource(o.DataFile)); err != nil {
		return err
	}

	if o.Watch {
		go func() {
			if err := address.Watch(ctx, store, o.DataFile, logger, nil); err != nil {
				logger.Error("Dataset watcher stopped", "error", err)
			}
		}()
	}

	cfg := selector.Config{
		Data: store,
		Initial: selector.Value{
			Province:    o.Province,
			District:    o.District,
			SubDistrict: o.SubDistrict,
		},
		Logger: logger,
	}

	var finder interactive.Finder = store
	if o.OverrideFile != "" {
		override, err := loadOverride(o.OverrideFile)
		if err != nil {
			return err
		}
		cfg.Override = override
		finder = nil
	}

	session, err := interactive.NewSession(cfg, finder, os.Stdout)
	if err != nil {
		return err
	}
	return session.Run(ctx)
}

func loadOverride(path string) (address.Override, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read override: %w", err)
	}
	var override address.Override
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse override %s: %w", path, err)
	}
	if len(override) == 0 {
		return nil, fmt.Errorf("override %s is empty", path)
	}
	return override, nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
