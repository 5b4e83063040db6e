package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/baditaflorin/l"
	"github.com/valyala/fasthttp"

	ocraccuracy "github.com/baditaflorin/go_ocr_accuracy"
	"github.com/baditaflorin/go_ocr_accuracy/internal/upload"
)

// Default configuration
const (
	DefaultPort           = 8080
	DefaultReadTimeout    = 30 * time.Second
	DefaultWriteTimeout   = 30 * time.Second
	DefaultMaxRequestSize = 10 * 1024 * 1024 // 10MB
	DefaultConcurrency    = 0                // 0 means fasthttp's default (256K concurrent connections)
)

var logger l.Logger

// analyzeConfig carries the per-request evaluation settings. Pointer
// fields distinguish absent values from explicit zero values.
type analyzeConfig struct {
	CaseSensitive     *bool   `json:"case_sensitive,omitempty"`
	IgnorePunctuation *bool   `json:"ignore_punctuation,omitempty"`
	Threshold         *int    `json:"edit_distance_threshold,omitempty"`
	PunctuationChars  *string `json:"punctuation_chars,omitempty"`
}

// AnalyzeRequest represents a single comparison request
type AnalyzeRequest struct {
	GroundTruth string        `json:"ground_truth"`
	OCROutput   string        `json:"ocr_output"`
	Config      analyzeConfig `json:"config"`
}

// AnalyzeResponse represents a single comparison response
type AnalyzeResponse struct {
	Success        bool                 `json:"success"`
	Metrics        metricsResponse      `json:"metrics"`
	GTAnnotations  []annotationResponse `json:"gt_annotations"`
	OCRAnnotations []annotationResponse `json:"ocr_annotations"`
}

// BatchResponse represents a batch comparison response
type BatchResponse struct {
	Success bool          `json:"success"`
	Results []batchResult `json:"results"`
	Errors  []string      `json:"errors"`
}

type batchResult struct {
	ModelName      string               `json:"model_name"`
	Metrics        metricsResponse      `json:"metrics"`
	GTAnnotations  []annotationResponse `json:"gt_annotations"`
	OCRAnnotations []annotationResponse `json:"ocr_annotations"`
	Error          string               `json:"error,omitempty"`
}

type metricsResponse struct {
	Precision     float64 `json:"precision"`
	Recall        float64 `json:"recall"`
	F1Score       float64 `json:"f1_score"`
	AvgCRR        float64 `json:"avg_crr"`
	ExactMatches  int     `json:"exact_matches"`
	FuzzyMatches  int     `json:"fuzzy_matches"`
	TotalGTWords  int     `json:"total_gt_words"`
	TotalOCRWords int     `json:"total_ocr_words"`
	UnmatchedGT   int     `json:"unmatched_gt"`
	UnmatchedOCR  int     `json:"unmatched_ocr"`
}

type annotationResponse struct {
	Word         string `json:"word"`
	MatchType    string `json:"match_type"`
	MatchedWith  string `json:"matched_with,omitempty"`
	EditDistance *int   `json:"edit_distance,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Errors  []string `json:"errors,omitempty"`
}

func main() {
	port := flag.Int("port", DefaultPort, "HTTP server port")
	readTimeout := flag.Duration("read-timeout", DefaultReadTimeout, "HTTP read timeout")
	writeTimeout := flag.Duration("write-timeout", DefaultWriteTimeout, "HTTP write timeout")
	maxRequestSize := flag.Int("max-request-size", DefaultMaxRequestSize, "Maximum request size in bytes")
	concurrency := flag.Int("concurrency", DefaultConcurrency, "Maximum number of concurrent connections (0 = fasthttp default)")
	warmUp := flag.Bool("warm-up", true, "Perform system warm-up on startup")
	logFile := flag.String("log-file", "", "Log file path (empty = stdout)")
	flag.Parse()

	var err error
	logger, err = createLogger(*logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	logger.Info("Starting OCR accuracy HTTP server",
		"port", *port,
		"read_timeout", *readTimeout,
		"write_timeout", *writeTimeout,
		"max_request_size", *maxRequestSize,
		"concurrency", *concurrency,
	)

	// Warm the default pipeline once so the first request does not pay
	// for pool and allocator ramp-up.
	if *warmUp {
		if _, err := buildEvaluator(analyzeConfig{}, true); err != nil {
			logger.Error("Failed to warm up evaluator", "error", err)
			os.Exit(1)
		}
	}

	server := &fasthttp.Server{
		Handler:               requestHandler,
		ReadTimeout:           *readTimeout,
		WriteTimeout:          *writeTimeout,
		MaxRequestBodySize:    *maxRequestSize,
		Concurrency:           *concurrency,
		DisableKeepalive:      false,
		TCPKeepalive:          true,
		TCPKeepalivePeriod:    3 * time.Minute,
		MaxIdleWorkerDuration: 10 * time.Second,
	}

	// Set up graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		logger.Info("Shutting down server...")
		if err := server.Shutdown(); err != nil {
			logger.Error("Error during server shutdown", "error", err)
		}
		close(idleConnsClosed)
	}()

	logger.Info("Server listening", "address", fmt.Sprintf(":%d", *port))
	if err := server.ListenAndServe(fmt.Sprintf(":%d", *port)); err != nil {
		logger.Error("Server error", "error", err)
	}

	<-idleConnsClosed
	logger.Info("Server stopped")
}

// requestHandler is the main fasthttp request handler
func requestHandler(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()

	ctx.Response.Header.Set("Content-Type", "application/json")
	ctx.Response.Header.Set("Server", "OCRAccuracyServer")

	switch string(ctx.Path()) {
	case "/health":
		handleHealthCheck(ctx)
	case "/api/analyze":
		handleAnalyze(ctx)
	case "/api/batch-analyze":
		handleBatchAnalyze(ctx)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		writeJSONError(ctx, "Not found", nil)
	}

	logger.Info("Request processed",
		"method", string(ctx.Method()),
		"path", string(ctx.Path()),
		"status", ctx.Response.StatusCode(),
		"ip", ctx.RemoteIP().String(),
		"duration", time.Since(startTime),
	)
}

// handleHealthCheck responds to health check requests
func handleHealthCheck(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
	writeJSONResponse(ctx, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleAnalyze handles single ground-truth/OCR comparison requests
func handleAnalyze(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		writeJSONError(ctx, "Method not allowed", nil)
		return
	}

	var req AnalyzeRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, "Invalid request: "+err.Error(), nil)
		return
	}

	ev, err := buildEvaluator(req.Config, false)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, err.Error(), nil)
		return
	}

	c, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	report, err := ev.Evaluate(c, req.GroundTruth, req.OCROutput)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		writeJSONError(ctx, err.Error(), nil)
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	writeJSONResponse(ctx, AnalyzeResponse{
		Success:        true,
		Metrics:        toMetricsResponse(report.Metrics),
		GTAnnotations:  toAnnotationResponses(report.GTAnnotations),
		OCRAnnotations: toAnnotationResponses(report.OCRAnnotations),
	})
}

// handleBatchAnalyze handles multipart batch comparison requests
func handleBatchAnalyze(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		writeJSONError(ctx, "Method not allowed", nil)
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, "Invalid multipart form: "+err.Error(), nil)
		return
	}

	parsed := upload.ParseFiles(form)
	if !parsed.HasGroundTruth || len(parsed.Models) == 0 {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, "Invalid file upload", parsed.Errors)
		return
	}

	cfg, err := formConfig(ctx)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, err.Error(), nil)
		return
	}

	ev, err := buildEvaluator(cfg, false)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, err.Error(), nil)
		return
	}

	c, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	reports := ev.EvaluateBatch(c, parsed.GroundTruth, parsed.Models)

	results := make([]batchResult, 0, len(reports))
	for _, r := range reports {
		results = append(results, batchResult{
			ModelName:      r.Model,
			Metrics:        toMetricsResponse(r.Metrics),
			GTAnnotations:  toAnnotationResponses(r.GTAnnotations),
			OCRAnnotations: toAnnotationResponses(r.OCRAnnotations),
			Error:          r.Err,
		})
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	writeJSONResponse(ctx, BatchResponse{
		Success: true,
		Results: results,
		Errors:  parsed.Errors,
	})
}

// buildEvaluator turns a request config into an evaluator, applying
// the documented defaults for absent fields.
func buildEvaluator(cfg analyzeConfig, warm bool) (*ocraccuracy.Evaluator, error) {
	opts := []ocraccuracy.Option{
		ocraccuracy.WithLogger(logger),
		ocraccuracy.WithFastNormalizer(),
	}

	if cfg.CaseSensitive != nil {
		opts = append(opts, ocraccuracy.WithCaseSensitive(*cfg.CaseSensitive))
	}
	if cfg.IgnorePunctuation != nil {
		opts = append(opts, ocraccuracy.WithIgnorePunctuation(*cfg.IgnorePunctuation))
	}
	if cfg.Threshold != nil {
		opts = append(opts, ocraccuracy.WithThreshold(*cfg.Threshold))
	}
	if cfg.PunctuationChars != nil {
		opts = append(opts, ocraccuracy.WithPunctuation(*cfg.PunctuationChars))
	}
	if warm {
		opts = append(opts, ocraccuracy.WithWarmUp())
	}

	return ocraccuracy.New(opts...)
}

// formConfig reads evaluation settings from batch form values.
func formConfig(ctx *fasthttp.RequestCtx) (analyzeConfig, error) {
	var cfg analyzeConfig

	if v := string(ctx.FormValue("case_sensitive")); v != "" {
		b := v == "true"
		cfg.CaseSensitive = &b
	}
	if v := string(ctx.FormValue("ignore_punctuation")); v != "" {
		b := v == "true"
		cfg.IgnorePunctuation = &b
	}
	if v := string(ctx.FormValue("edit_distance_threshold")); v != "" {
		th, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid edit_distance_threshold: %q", v)
		}
		cfg.Threshold = &th
	}

	return cfg, nil
}

func toMetricsResponse(m ocraccuracy.Metrics) metricsResponse {
	return metricsResponse{
		Precision:     m.Precision,
		Recall:        m.Recall,
		F1Score:       m.F1,
		AvgCRR:        m.AvgCRR,
		ExactMatches:  m.ExactMatches,
		FuzzyMatches:  m.FuzzyMatches,
		TotalGTWords:  m.TotalGTWords,
		TotalOCRWords: m.TotalOCRWords,
		UnmatchedGT:   m.UnmatchedGT,
		UnmatchedOCR:  m.UnmatchedOCR,
	}
}

func toAnnotationResponses(anns []ocraccuracy.Annotation) []annotationResponse {
	out := make([]annotationResponse, 0, len(anns))
	for _, a := range anns {
		resp := annotationResponse{
			Word:        a.Word,
			MatchType:   a.Type.String(),
			MatchedWith: a.MatchedWith,
		}
		if a.Type == ocraccuracy.Exact || a.Type == ocraccuracy.Fuzzy {
			d := a.Distance
			resp.EditDistance = &d
		}
		out = append(out, resp)
	}
	return out
}

// Helper functions

// writeJSONResponse writes a JSON response to the context
func writeJSONResponse(ctx *fasthttp.RequestCtx, data interface{}) {
	response, err := json.Marshal(data)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		logger.Error("Error marshaling JSON response", "error", err)
		writeJSONError(ctx, "Internal server error", nil)
		return
	}

	ctx.SetBody(response)
}

// writeJSONError writes a JSON error response to the context
func writeJSONError(ctx *fasthttp.RequestCtx, message string, errs []string) {
	errResponse := ErrorResponse{
		Error:  message,
		Errors: errs,
	}

	response, err := json.Marshal(errResponse)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		logger.Error("Error marshaling JSON error response", "error", err)
		ctx.SetBodyString(`{"success":false,"error":"Internal server error"}`)
		return
	}

	ctx.SetBody(response)
}

// createLogger creates and configures a logger
func createLogger(logFile string) (l.Logger, error) {
	factory := l.NewStandardFactory()

	var output io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
	}

	logger, err := factory.CreateLogger(l.Config{
		Output:      output,
		JsonFormat:  true,
		AsyncWrite:  true,
		BufferSize:  1024 * 1024,       // 1MB
		MaxFileSize: 100 * 1024 * 1024, // 100MB
		MaxBackups:  5,
		AddSource:   true,
		Metrics:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return logger, nil
}
