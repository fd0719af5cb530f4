// Command mysterybox-detail shows the detail screen of one mystery box: it
// resolves the device location, fetches the box from the mystery box
// service and prints every screen state until the fetch settles.
//
//	mysterybox-detail [-json] <mystery-box-id>
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Dffarhn/recyle-food-mobile/internal/client"
	"github.com/Dffarhn/recyle-food-mobile/internal/config"
	"github.com/Dffarhn/recyle-food-mobile/internal/detail"
	"github.com/Dffarhn/recyle-food-mobile/internal/format"
	"github.com/Dffarhn/recyle-food-mobile/internal/location"
	"github.com/Dffarhn/recyle-food-mobile/pkg/httpclient"
	"github.com/Dffarhn/recyle-food-mobile/pkg/logger"
)

const serviceName = "mysterybox-detail"

var (
	errUsage               = errors.New("usage: mysterybox-detail [-json] <mystery-box-id>")
	errLocationUnavailable = errors.New("device location unavailable")
	errFetchFailed         = errors.New("mystery box could not be loaded")
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		switch {
		case errors.Is(err, errUsage):
			os.Exit(2)
		case errors.Is(err, errLocationUnavailable):
			os.Exit(3)
		default:
			os.Exit(1)
		}
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet(serviceName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "print each screen state as a JSON object")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() != 1 {
		return errUsage
	}
	id := fs.Arg(0)

	cfg, err := config.LoadDetail()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.NewWithWriter(serviceName, cfg.LogLevel, stderr)
	if cfg.DeviceID != "" {
		ctx = logger.WithDeviceID(ctx, cfg.DeviceID)
	}

	machine := detail.NewMachine(newRepository(cfg, log), newLocator(cfg, log), log)
	defer machine.Close()

	states, unsubscribe := machine.Subscribe()
	defer unsubscribe()

	loc := format.LocaleFor(cfg.Locale)
	show := func(s detail.State) error {
		view := detail.Render(s, loc)
		if *asJSON {
			return json.NewEncoder(stdout).Encode(view)
		}
		_, err := fmt.Fprintf(stdout, "%s\n\n", view)
		return err
	}

	if !machine.Enter(ctx, id) {
		if err := show(machine.State()); err != nil {
			return err
		}
		return errLocationUnavailable
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s, ok := <-states:
			if !ok {
				return nil
			}
			if s.Status == detail.StatusIdle {
				continue
			}
			if err := show(s); err != nil {
				return err
			}
			if s.Status == detail.StatusError {
				return errFetchFailed
			}
			if s.Terminal() {
				return nil
			}
		}
	}
}

func newRepository(cfg *config.DetailConfig, log *slog.Logger) *client.MysteryBoxClient {
	doer := httpclient.NewCircuitBreakerClient(httpclient.New(cfg.HTTPClient()), cfg.CircuitBreaker("mysterybox-api"), log)
	return client.NewMysteryBoxClient(cfg.APIBaseURL, doer, log)
}

func newLocator(cfg *config.DetailConfig, log *slog.Logger) location.Chain {
	chain := location.Chain{location.NewStatic(cfg.DeviceLatitude, cfg.DeviceLongitude)}
	if cfg.IPLookupEnabled {
		doer := httpclient.NewCircuitBreakerClient(httpclient.New(cfg.HTTPClient()), cfg.CircuitBreaker("ip-geolocation"), log)
		chain = append(chain, location.NewIPLocator(cfg.IPLookupURL, doer, log))
	}
	return chain
}
