package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"splitbill/pkg/config"
	"splitbill/pkg/logging"
	"splitbill/pkg/metrics"
	"splitbill/pkg/ocr"
	"splitbill/pkg/split"
	"splitbill/pkg/venmo"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logging.Setup(conf.LogLevel)
	if logging.ParseLevel(conf.LogLevel) != slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	pipeline := ocr.NewPipeline(ocr.NewTesseractRecognizer(), receiptMode(conf), preprocessOptions(conf))

	var dispatchOpts []split.DispatcherOption
	if conf.Dispatch.ContinueOnError {
		dispatchOpts = append(dispatchOpts, split.WithContinueOnError())
	}
	s := newServer(pipeline, paymentService(conf), metrics.New(), conf.MaxUploadBytes, []byte(conf.Auth.JWTSecret), dispatchOpts...)

	r := gin.New()
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = conf.MaxUploadBytes
	setupRoutes(r, s)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", conf.Port),
		Handler:           withCORS(r),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "address", srv.Addr, "payments", s.payments != nil, "payment_auth", len(s.jwtSecret) > 0)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		slog.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}
}

func receiptMode(conf *config.Config) ocr.Mode {
	mode := ocr.ModeReceipt
	mode.Languages = conf.OCR.Languages
	return mode
}

func preprocessOptions(conf *config.Config) ocr.PreprocessOptions {
	opts := ocr.DefaultPreprocessOptions()
	opts.Threshold = uint8(conf.OCR.Threshold)
	opts.DebugDir = conf.OCR.DebugDir
	return opts
}

// paymentService builds the payment capability once for the process.
// It returns nil when no credential is configured; payment routes then answer 503.
func paymentService(conf *config.Config) venmo.Service {
	switch {
	case conf.Venmo.Mock:
		slog.Warn("using in-memory payment network")
		return venmo.NewMockService(
			venmo.Profile{ID: "0", Username: "dev"},
			venmo.Profile{ID: "1", Username: "alice"},
			venmo.Profile{ID: "2", Username: "bob"},
		)
	case conf.Venmo.AccessToken != "":
		var opts []venmo.Option
		if conf.Venmo.BaseURL != "" {
			opts = append(opts, venmo.WithBaseURL(conf.Venmo.BaseURL))
		}
		return venmo.NewClient(conf.Venmo.AccessToken, opts...)
	default:
		slog.Warn("ACCESS_TOKEN not set; payment routes disabled")
		return nil
	}
}
