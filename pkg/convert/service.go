package convert

import (
	"context"
	"fmt"
	"github.com/Geniuskaa/race_results/pkg/export"
	"github.com/Geniuskaa/race_results/pkg/metrics"
	"github.com/Geniuskaa/race_results/pkg/parser"
	"github.com/Geniuskaa/race_results/pkg/sports/xc"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	SOURCE_TEXT = "text"
	SOURCE_XLSX = "xlsx"

	XLSX_EXTENSION = ".xlsx"
)

type fileParser interface {
	ParseText(r io.Reader, opts parser.Options) (*parser.Response, error)
	ParseXlsx(r io.Reader, opts parser.XlsxOptions) (*parser.Response, error)
}

type Uploader interface {
	UploadResults(ctx context.Context, race string, results []xc.Result) (*xc.Response, error)
}

type Options struct {
	Layout     parser.Layout
	Strict     bool
	Race       string
	Sheet      string
	HeaderRows int
	// Echo receives every written line, nil keeps the console quiet.
	Echo io.Writer
	// XlsxPath additionally exports the lines as a workbook when set.
	XlsxPath string
}

func (o Options) parseOptions() parser.Options {
	return parser.Options{Layout: o.Layout, Strict: o.Strict}
}

type Summary struct {
	Source   string
	Written  int
	Response *parser.Response
	Upload   *xc.Response
}

type Service struct {
	logger   *zap.Logger
	parser   fileParser
	uploader Uploader
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

// NewService wires the conversion pipeline. uploader and tracer may be nil.
func NewService(logger *zap.Logger, m *metrics.Metrics, tracer trace.Tracer, uploader Uploader) *Service {
	if tracer == nil {
		tracer = trace.NewNoopTracerProvider().Tracer("")
	}
	return &Service{logger: logger, parser: parser.Impl{}, uploader: uploader, metrics: m, tracer: tracer}
}

// ConvertFile reads in (text, or a workbook when it ends in .xlsx) and replaces out with pipe lines.
func (s *Service) ConvertFile(ctx context.Context, in, out string, opts Options) (*Summary, error) {
	ctx, span := s.tracer.Start(ctx, "ConvertFile", trace.WithAttributes(
		attribute.String("input", in), attribute.String("output", out)))
	defer span.End()

	start := time.Now()

	f, err := os.Open(in)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("os.Open failed: %w", err)
	}
	defer f.Close()

	source := SOURCE_TEXT
	var resp *parser.Response
	if strings.EqualFold(filepath.Ext(in), XLSX_EXTENSION) {
		source = SOURCE_XLSX
		resp, err = s.parser.ParseXlsx(f, parser.XlsxOptions{
			Options:    opts.parseOptions(),
			SheetName:  opts.Sheet,
			HeaderRows: opts.HeaderRows,
		})
	} else {
		resp, err = s.parser.ParseText(f, opts.parseOptions())
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("ConvertFile failed: %w", err)
	}

	written, err := export.WriteFile(out, resp.Lines, opts.Echo)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("ConvertFile failed: %w", err)
	}

	summary := &Summary{Source: source, Written: written, Response: resp}
	if err := s.finish(ctx, summary, opts); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return summary, err
	}

	s.observe(span, summary, start)
	s.logger.Info("Results converted", zap.String("input", in), zap.String("output", out),
		zap.String("source", source), zap.Int("lines", resp.Total), zap.Int("written", written),
		zap.Int("rejected", resp.Rejected), zap.Int("skipped", resp.Skipped))

	return summary, nil
}

// Convert transforms result text from r into pipe lines on w.
func (s *Service) Convert(ctx context.Context, r io.Reader, w io.Writer, opts Options) (*Summary, error) {
	ctx, span := s.tracer.Start(ctx, "Convert")
	defer span.End()

	start := time.Now()

	resp, err := s.parser.ParseText(r, opts.parseOptions())
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("Convert failed: %w", err)
	}

	written, err := export.NewPipeWriter(w, opts.Echo).Write(resp.Lines)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("Convert failed: %w", err)
	}

	summary := &Summary{Source: SOURCE_TEXT, Written: written, Response: resp}
	if err := s.finish(ctx, summary, opts); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return summary, err
	}

	s.observe(span, summary, start)
	return summary, nil
}

// finish runs the optional outputs: rejected line logging, xlsx export and the database upload.
func (s *Service) finish(ctx context.Context, summary *Summary, opts Options) error {
	resp := summary.Response

	for _, err := range resp.Errs {
		s.logger.Warn("Line rejected", zap.Error(err))
	}

	if opts.XlsxPath != "" {
		if err := export.WriteXlsx(opts.XlsxPath, resp.Lines); err != nil {
			return fmt.Errorf("export.WriteXlsx failed: %w", err)
		}
	}

	if s.uploader == nil {
		return nil
	}

	results, errs := xc.Results(resp.Lines)
	upload, err := s.uploader.UploadResults(ctx, opts.Race, results)
	if err != nil {
		return fmt.Errorf("UploadResults failed: %w", err)
	}
	upload.ErrsOfFailedRows = append(upload.ErrsOfFailedRows, errs...)
	upload.CountOfFailedRows += len(errs)
	summary.Upload = upload

	for _, err := range errs {
		s.logger.Warn("Result not stored", zap.String("race", opts.Race), zap.Error(err))
	}
	if s.metrics != nil {
		s.metrics.Uploaded.Add(float64(upload.CountOfAddedParts))
	}

	return nil
}

func (s *Service) observe(span trace.Span, summary *Summary, start time.Time) {
	resp := summary.Response
	span.SetAttributes(
		attribute.String("source", summary.Source),
		attribute.Int("lines", resp.Total),
		attribute.Int("rejected", resp.Rejected),
	)

	if s.metrics == nil {
		return
	}
	s.metrics.Lines.Add(float64(resp.Total))
	s.metrics.Rejected.Add(float64(resp.Rejected))
	s.metrics.Conversions.WithLabelValues(summary.Source).Inc()
	s.metrics.Duration.Observe(time.Since(start).Seconds())
}
