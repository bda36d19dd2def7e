package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/mailvet/mailvet/cmd/web/config"
	"github.com/mailvet/mailvet/cmd/web/mailhttp"
	"github.com/mailvet/mailvet/cmd/web/mailhttp/handlers"
	"github.com/mailvet/mailvet/cmd/web/services"
	"github.com/mailvet/mailvet/shutdown"
	"github.com/mailvet/mailvet/verifier"
	"github.com/mailvet/mailvet/verifier/mxresolver"

	"github.com/Dynom/TySug/finder"
	"github.com/sirupsen/logrus"
)

// Version contains the app version, the value is changed during compile time to the appropriate Git tag
var Version = "dev"

func main() {
	var conf config.Config
	var err error

	conf, err = config.NewConfig("config.toml")
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(conf)
	if err != nil {
		panic(err)
	}

	logger.WithFields(logrus.Fields{
		"version": Version,
	}).Info("Starting up...")

	resolver, err := newResolver(conf)
	if err != nil {
		panic(err)
	}

	v := verifier.New(resolver, verifierOptions(conf)...)

	var myFinder *finder.Finder
	if refs := conf.Verifier.Suggest.ReferenceDomains; len(refs) > 0 {
		myFinder, err = finder.New(refs,
			finder.WithLengthTolerance(0.2),
			finder.WithAlgorithm(finder.NewJaroWinklerDefaults()),
		)

		if err != nil {
			panic(err)
		}
	}

	verifySvc := services.NewVerifyService(v, myFinder, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/", NewIndexHandler(logger))
	mux.HandleFunc("/health", NewHealthHandler(logger))
	mux.HandleFunc("/verify", NewVerifyHandler(logger, &verifySvc, int64(conf.Client.InputLengthMax)))

	lw := logger.WriterLevel(logger.Level)
	defer func() {
		_ = lw.Close()
	}()

	s := mailhttp.BuildHTTPServer(mux, conf, logger, lw,
		handlers.WithRequestLogger(logger),
		handlers.WithGzipHandler(),
		handlers.WithHeaders(headersToHTTP(conf.Server.Headers)),
		handlers.WithCORS(conf.Server.CORS.AllowedOrigins, conf.Server.CORS.AllowedHeaders),
	)

	sh := shutdown.OnSignal(time.Second*30, os.Interrupt, syscall.SIGTERM)
	sh.Register(func(ctx context.Context) {
		logger.Info("Shutting down")
		if err := s.Shutdown(ctx); err != nil {
			logger.WithError(err).Error("Server shutdown failed")
		}
	})

	logger.WithFields(logrus.Fields{
		"listen_on": conf.Server.ListenOn,
	}).Info("Done, serving requests")

	err = s.Serve()
	if errors.Is(err, http.ErrServerClosed) {
		sh.Wait()
		logger.Info("Stopped")
		return
	}

	logger.Errorf("HTTP server stopped %s", err)
}

func newResolver(conf config.Config) (mxresolver.Resolver, error) {
	timeout := conf.Verifier.LookupTimeout.AsDuration()

	switch conf.Verifier.Strategy {
	case config.RSDoH:
		return mxresolver.NewDoH(conf.Verifier.DoHEndpoint, timeout), nil
	default:
		return mxresolver.NewDNS(conf.Verifier.Resolvers, timeout)
	}
}

func verifierOptions(conf config.Config) []verifier.Option {
	options := []verifier.Option{
		verifier.WithLookupTimeout(conf.Verifier.LookupTimeout.AsDuration()),
	}

	if p := conf.Verifier.Probe; p.Enabled {
		options = append(options, verifier.WithProber(
			verifier.NewSMTPProber(p.HeloDomain, p.Sender, p.Timeout.AsDuration()),
		))
	}

	return options
}
