package mailhttp

import (
	"context"
	"io"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/mailvet/mailvet/cmd/web/config"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/netutil"
)

// BuildHTTPServer wires the mux into a hardened http.Server, wrapping it in
// the given middleware, outermost first.
func BuildHTTPServer(mux http.Handler, conf config.Config, logger logrus.FieldLogger, logWriter io.Writer, wrappers ...func(h http.Handler) http.Handler) *Server {
	for _, w := range wrappers {
		mux = w(mux)
	}

	server := &http.Server{
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,

		// The verify pipeline may legitimately spend close to 20s on a slow
		// resolver plus a blocked probe before it settles.
		WriteTimeout: 25 * time.Second,

		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 19, // 512 kb
		Handler:        mux,
		Addr:           conf.Server.ListenOn,
		ErrorLog:       log.New(logWriter, "", 0),
	}

	listener, err := net.Listen("tcp", conf.Server.ListenOn)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"error":     err,
			"listen_on": conf.Server.ListenOn,
		}).Error("Unable to start listener")
	}

	if conf.Server.ConnectionLimit > 0 {
		listener = netutil.LimitListener(listener, int(conf.Server.ConnectionLimit))
	}

	server.RegisterOnShutdown(func() {
		err := listener.Close()
		logger.WithError(err).Debug("Closing listener")
	})

	return &Server{
		server:   server,
		listener: listener,
	}
}

type Server struct {
	server   *http.Server
	listener net.Listener
}

func (s *Server) Serve() error {
	return s.server.Serve(s.listener)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
