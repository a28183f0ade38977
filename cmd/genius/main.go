package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fystack/lottery-genius/internal/events"
	"github.com/fystack/lottery-genius/internal/export"
	"github.com/fystack/lottery-genius/internal/lottery"
	"github.com/fystack/lottery-genius/pkg/common/config"
	"github.com/fystack/lottery-genius/pkg/common/logger"
	"github.com/fystack/lottery-genius/pkg/infra"
	"github.com/nats-io/nats.go"
)

type CLI struct {
	Serve    ServeCmd    `cmd:"" default:"1" help:"Run the HTTP service."`
	Generate GenerateCmd `cmd:"" help:"Generate tickets and print them."`
	Latest   LatestCmd   `cmd:"" help:"Print the latest draw."`
	Watch    WatchCmd    `cmd:"" help:"Print events published on NATS."`
}

type ConfigFlags struct {
	ConfigPath string `help:"Path to config file." default:"configs/config.yaml" name:"config" type:"path"`
	Debug      bool   `help:"Enable debug logs." name:"debug"`
}

// load reads config and initialises the logger.
func (f ConfigFlags) load() (*config.Config, error) {
	cfg, err := loadConfig(f.ConfigPath)
	if err != nil {
		return nil, err
	}
	initLogger(cfg, f.Debug)
	return cfg, nil
}

type ServeCmd struct {
	ConfigFlags
	Port int `help:"Override the listen port." name:"port"`
}

type GenerateCmd struct {
	ConfigFlags
	Count   int    `help:"Number of tickets (1-50)." default:"10" name:"count" short:"n"`
	Size    int    `help:"Numbers per ticket (15-20)." default:"15" name:"size" short:"s"`
	Uniform bool   `help:"Skip history and use uniform weights." name:"uniform"`
	Output  string `help:"Write to this file instead of stdout." name:"output" short:"o" type:"path"`
	JSON    bool   `help:"Print JSON with per-ticket analysis." name:"json"`
}

type LatestCmd struct {
	ConfigFlags
	Refresh bool `help:"Drop the shared cache entry and fetch again." name:"refresh"`
}

type WatchCmd struct {
	NATSURL string `help:"NATS server URL." default:"nats://127.0.0.1:4222" name:"nats-url" env:"NATS_URL"`
	Subject string `help:"NATS subject to subscribe to." default:"lotofacil.>" name:"subject"`
	LogFile string `help:"Also append events to this file." name:"log" type:"path"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("genius"),
		kong.Description("Lotofácil results, statistics and weighted ticket generation."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

func (c *ServeCmd) Run() error {
	cfg, err := c.load()
	if err != nil {
		return err
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	handler := NewGeniusHTTPHandler(cfg.Version, a.fetcher.Source(), a.history, a.generator, a.emitter, cfg.Generator, a.fetcher.Stats)
	server := newHTTPServer(cfg, handler)
	startHTTPServer(server)

	logger.Info("Lottery Genius is running... Press Ctrl+C to stop")
	waitForShutdown()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", "err", err)
	}
	logger.Info("Lottery Genius stopped")
	return nil
}

func (c *GenerateCmd) Run() error {
	cfg, err := c.load()
	if err != nil {
		return err
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	count := min(max(c.Count, minTickets), maxTickets)
	size := min(max(c.Size, lottery.MinTicketSize), lottery.MaxTicketSize)

	freq := lottery.NewFrequencyTable()
	var latest *lottery.Draw
	if !c.Uniform {
		ctx, cancel := signalContext()
		defer cancel()
		freq, latest = a.history.Frequencies(ctx)
	}

	tickets, err := a.generator.Generate(count, size, freq)
	if err != nil {
		return err
	}
	batch := events.TicketBatch{Size: size, Tickets: tickets, Channel: "cli"}
	if latest != nil {
		batch.Contest = latest.Contest
	}
	if err := a.emitter.EmitTickets(batch); err != nil {
		logger.Warn("Failed to emit tickets event", "err", err)
	}

	w := io.Writer(os.Stdout)
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if c.JSON {
		views := make([]TicketView, len(tickets))
		for i, t := range tickets {
			views[i] = TicketView{Numbers: t, Analysis: t.Analyze()}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(GenerateResponse{
			Success:      true,
			LatestResult: latest,
			Frequencies:  freq,
			Tickets:      views,
			Count:        count,
			Size:         size,
		})
	}
	return export.WriteTickets(w, tickets)
}

func (c *LatestCmd) Run() error {
	cfg, err := c.load()
	if err != nil {
		return err
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	if c.Refresh {
		snap, err := a.history.Refresh(ctx)
		if err != nil {
			return err
		}
		return printJSON(snap.Latest)
	}
	draw, err := a.history.Latest(ctx)
	if err != nil {
		return err
	}
	return printJSON(draw)
}

func (c *WatchCmd) Run() error {
	logger.Init(&logger.Options{TimeFormat: time.RFC3339})

	out := io.Writer(os.Stdout)
	if c.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(c.LogFile), 0o755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(c.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = io.MultiWriter(os.Stdout, f)
	}
	bw := bufio.NewWriter(out)

	nc, err := infra.GetNATSConnection(config.NatsConfig{URL: c.NATSURL})
	if err != nil {
		return fmt.Errorf("NATS connect failed: %w", err)
	}
	defer nc.Close()

	msgs := make(chan *nats.Msg, 64)
	sub, err := nc.ChanSubscribe(c.Subject, msgs)
	if err != nil {
		return fmt.Errorf("NATS subscribe failed: %w", err)
	}
	defer sub.Unsubscribe()
	logger.Info("Subscribed", "subject", c.Subject, "url", nc.ConnectedUrl())

	ctx, cancel := signalContext()
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return bw.Flush()
		case msg := <-msgs:
			fmt.Fprintf(bw, "[%s] %s\n", msg.Subject, strings.TrimSpace(string(msg.Data)))
			if err := bw.Flush(); err != nil {
				return err
			}
		}
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func waitForShutdown() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}
