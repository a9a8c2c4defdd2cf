package server

import (
	"bytes"
	"context"
	"errors"
	"github.com/Geniuskaa/race_results/pkg/convert"
	"github.com/Geniuskaa/race_results/pkg/parser"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"net/http"
	"strconv"
	"time"
)

const (
	MAX_BODY_SIZE    = 10 << 20
	SHUTDOWN_TIMEOUT = time.Second * 10

	REJECTED_HEADER = "X-Rejected-Lines"
)

type Server struct {
	ctx      context.Context
	logger   *zap.Logger
	mux      *chi.Mux
	conv     *convert.Service
	defaults convert.Options
	maxBody  int64
	serv     *http.Server
}

// NewServer serves conversions with defaults, a request may override layout, strictness and race.
func NewServer(ctx context.Context, logger *zap.Logger, mux *chi.Mux, conv *convert.Service, defaults convert.Options) *Server {
	defaults.Echo = nil
	defaults.XlsxPath = ""
	return &Server{ctx: ctx, logger: logger, mux: mux, conv: conv, defaults: defaults, maxBody: MAX_BODY_SIZE}
}

func (s *Server) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	s.mux.ServeHTTP(writer, request)
}

func (s *Server) Init(atom zap.AtomicLevel, reg *prometheus.Registry) {
	s.mux.Use(middleware.RequestID)

	s.mux.Get("/health", func(writer http.ResponseWriter, request *http.Request) {
		writer.Write([]byte("ok"))
	})
	s.mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	s.mux.Handle("/internal/log-level", atom)

	s.mux.With(s.recoverer).Post("/api/v1/convert", s.handleConvert)
}

func (s *Server) handleConvert(writer http.ResponseWriter, request *http.Request) {
	opts := s.defaults
	query := request.URL.Query()

	if v := query.Get("layout"); v != "" {
		layout, err := parser.ParseLayout(v)
		if err != nil {
			http.Error(writer, err.Error(), http.StatusBadRequest)
			return
		}
		opts.Layout = layout
	}
	if v := query.Get("strict"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(writer, "strict must be a boolean", http.StatusBadRequest)
			return
		}
		opts.Strict = strict
	}
	if v := query.Get("race"); v != "" {
		opts.Race = v
	}

	body := http.MaxBytesReader(writer, request.Body, s.maxBody)
	defer body.Close()

	var out bytes.Buffer
	summary, err := s.conv.Convert(request.Context(), body, &out, opts)
	if err != nil {
		s.logger.Error("Convert failed", zap.Error(err),
			zap.String("request-id", middleware.GetReqID(request.Context())))
		status := http.StatusInternalServerError
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, parser.ErrUnknownLayout):
			status = http.StatusBadRequest
		case errors.As(err, &tooLarge):
			status = http.StatusRequestEntityTooLarge
		}
		http.Error(writer, err.Error(), status)
		return
	}

	writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
	writer.Header().Set(REJECTED_HEADER, strconv.Itoa(summary.Response.Rejected))
	writer.WriteHeader(http.StatusOK)
	writer.Write(out.Bytes())
}

// Start blocks until the server stops. Cancelling the server context shuts it down gracefully.
func (s *Server) Start(addr string) error {
	s.serv = &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-s.ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
		defer cancel()
		if err := s.serv.Shutdown(ctx); err != nil {
			s.logger.Error("Shutdown failed", zap.Error(err))
		}
	}()

	s.logger.Info("Service successfully started", zap.String("addr", addr))
	if err := s.serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) recoverer(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

		defer func() {
			if err := recover(); err != nil {
				writer.WriteHeader(http.StatusInternalServerError)
				writer.Write([]byte("Something going wrong..."))
				s.logger.Error("panic occurred", zap.Any("panic", err))
			}
		}()
		handler.ServeHTTP(writer, request)
	})
}
