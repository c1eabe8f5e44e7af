package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/wdjwxh/d2rtz-bot/announcer"
	"github.com/wdjwxh/d2rtz-bot/appraise"
	"github.com/wdjwxh/d2rtz-bot/bot"
	"github.com/wdjwxh/d2rtz-bot/config"
	"github.com/wdjwxh/d2rtz-bot/logging"
	"github.com/wdjwxh/d2rtz-bot/metrics"
	"github.com/wdjwxh/d2rtz-bot/onebot"
	"github.com/wdjwxh/d2rtz-bot/terrorzone"
)

func main() {

	var mockMode bool
	var testMode bool
	var model string
	flag.BoolVar(&mockMode, "mockMode", false, "Answer OCR and appraisal calls with canned replies")
	flag.BoolVar(&testMode, "testMode", false, "Treat the 鉴定 text argument as OCR output")
	flag.StringVar(&model, "model", "", "Override the appraisal model")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalln(err)
	}
	if mockMode {
		cfg.MockMode = true
	}
	if testMode {
		cfg.TestMode = true
	}
	if model != "" {
		cfg.AIModel = model
	}

	logger := logging.NewLogger(logging.LogLevel(cfg.LogLevel), os.Stdout)

	// listen and serve for metrics server.
	server := metrics.SetupServer()
	go server.Run()

	areas, err := terrorzone.LoadAreas()
	if err != nil {
		log.Fatalln(err)
	}
	rotations := terrorzone.NewClient(cfg.APIURL, cfg.CachePath, logger)

	appraiser, err := appraise.Setup(cfg, logger)
	if err != nil {
		log.Fatalln(err)
	}

	chat := onebot.NewClient(cfg.OneBotAPIURL, cfg.SendMessageURL, cfg.AuthToken, logger)
	commands := bot.New(chat, rotations, appraiser, areas, cfg, logger)
	events := onebot.NewServer(cfg.ListenAddr, commands, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening for chat events", "addr", cfg.ListenAddr)
		if err := events.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.AnnounceInterval > 0 && cfg.GroupID != 0 {
		tz := announcer.New(rotations, chat, areas, cfg.GroupID, cfg.AnnounceInterval, logger)
		g.Go(func() error {
			err := tz.Start(gctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	} else {
		logger.Info("announcer disabled", "group_id", cfg.GroupID, "interval", cfg.AnnounceInterval.String())
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	logger.Info("Press Ctrl+C to exit")

	select {
	case <-stop:
	case <-gctx.Done():
	}

	cancel()
	_ = events.Close()
	_ = server.Close()

	if err := g.Wait(); err != nil {
		log.Fatalln(err)
	}
	logger.Info("Shutting down")
}
