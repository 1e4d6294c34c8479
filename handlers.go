package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"splitbill/models"
	"splitbill/pkg/metrics"
	"splitbill/pkg/ocr"
	"splitbill/pkg/split"
	"splitbill/pkg/venmo"
)

var errNegativeCost = fmt.Errorf("%w: item cost must not be negative", split.ErrInvalidInput)

// server carries the process-lifetime capabilities the handlers need.
type server struct {
	pipeline       *ocr.Pipeline
	payments       venmo.Service // nil when no payment client is configured
	dispatcher     *split.Dispatcher
	metrics        *metrics.Metrics
	maxUploadBytes int64
	jwtSecret      []byte
}

func newServer(pipeline *ocr.Pipeline, payments venmo.Service, m *metrics.Metrics, maxUploadBytes int64, jwtSecret []byte, dispatchOpts ...split.DispatcherOption) *server {
	s := &server{
		pipeline:       pipeline,
		payments:       payments,
		metrics:        m,
		maxUploadBytes: maxUploadBytes,
		jwtSecret:      jwtSecret,
	}
	if payments != nil {
		opts := append([]split.DispatcherOption{split.WithOutcomeObserver(m.ObserveOutcome)}, dispatchOpts...)
		s.dispatcher = split.NewDispatcher(payments, opts...)
	}
	return s
}

func setupRoutes(r *gin.Engine, s *server) {
	r.Use(requestIDMiddleware(), requestLogger(s.metrics))
	r.GET("/test", testHandler)
	r.GET("/healthz", healthHandler)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	r.POST("/parse-receipt", s.parseReceiptHandler)
	r.POST("/assign-items", assignItemsHandler)

	paymentGroup := r.Group("")
	paymentGroup.Use(jwtAuthMiddleware(s.jwtSecret))
	paymentGroup.GET("/friends-list", s.friendsListHandler)
	paymentGroup.POST("/request-payments", s.requestPaymentsHandler)
}

func testHandler(c *gin.Context) {
	c.String(http.StatusOK, "Server is accessible!")
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// multipartSlack covers part headers and boundaries around the uploaded file.
const multipartSlack = 64 << 10

// parseReceiptHandler runs the OCR pipeline over a multipart "file" upload.
func (s *server) parseReceiptHandler(c *gin.Context) {
	limit := s.maxUploadBytes + multipartSlack
	if c.Request.ContentLength > limit {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	file, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file part"})
		return
	}
	if file.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No selected file"})
		return
	}
	if file.Size > s.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}
	f, err := file.Open()
	if err != nil {
		respondError(c, "Failed to read upload", err)
		return
	}
	defer f.Close()

	start := time.Now()
	items, err := s.pipeline.ParseReceipt(c.Request.Context(), f)
	took := time.Since(start)
	if err != nil {
		s.metrics.ObserveParse(parseResult(err), 0, took)
		respondError(c, "Failed to parse receipt", err)
		return
	}
	s.metrics.ObserveParse(metrics.ParseOK, len(items), took)
	slog.Info("receipt parsed", "file", file.Filename, "items", len(items), "duration_ms", took.Milliseconds())
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func parseResult(err error) string {
	switch {
	case errors.Is(err, ocr.ErrDecode):
		return metrics.ParseDecodeError
	case errors.Is(err, ocr.ErrNoItemsFound):
		return metrics.ParseNoItems
	default:
		return metrics.ParseError
	}
}

// friendsListHandler lists the usernames of the payment account's friends.
func (s *server) friendsListHandler(c *gin.Context) {
	if s.payments == nil {
		respondError(c, "", venmo.ErrNotConfigured)
		return
	}
	ctx := c.Request.Context()
	profile, err := s.payments.GetProfile(ctx)
	if err != nil {
		slog.Error("error getting profile", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user profile"})
		return
	}
	friends, err := s.payments.ListFriends(ctx, profile.ID)
	if err != nil {
		respondError(c, "Failed to fetch friends list", err)
		return
	}
	names := make([]string, 0, len(friends))
	for _, f := range friends {
		names = append(names, f.Username)
	}
	c.JSON(http.StatusOK, gin.H{"friends": names})
}

// assignItemsHandler distributes items over friends round-robin.
func assignItemsHandler(c *gin.Context) {
	var req struct {
		Items   *[]models.LineItem `json:"items"`
		Friends *[]string          `json:"friends"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Items == nil || req.Friends == nil {
		respondError(c, "", split.ErrInvalidInput)
		return
	}
	for _, it := range *req.Items {
		if it.Cost.IsNegative() {
			respondError(c, "", errNegativeCost)
			return
		}
	}
	assigned, err := split.Assign(*req.Items, *req.Friends)
	if err != nil {
		respondError(c, "", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assigned_items": assigned})
}

// requestPaymentsHandler asks every assignee to pay for their item.
func (s *server) requestPaymentsHandler(c *gin.Context) {
	var req struct {
		AssignedItems *[]models.AssignedItem `json:"assigned_items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.AssignedItems == nil {
		respondError(c, "", split.ErrInvalidInput)
		return
	}
	// a negative request would move money out of the account
	for _, it := range *req.AssignedItems {
		if it.Cost.IsNegative() {
			respondError(c, "", errNegativeCost)
			return
		}
	}
	if s.dispatcher == nil {
		respondError(c, "", venmo.ErrNotConfigured)
		return
	}
	results := s.dispatcher.Dispatch(c.Request.Context(), *req.AssignedItems)
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// respondError maps domain errors onto the {"error": ...} envelope.
// Caller-side problems are 4xx, a missing payment client is 503 and the rest is 500.
func respondError(c *gin.Context, prefix string, err error) {
	if errors.Is(err, ocr.ErrNoItemsFound) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "No valid items found"})
		return
	}
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, split.ErrInvalidInput), errors.Is(err, ocr.ErrDecode):
		status = http.StatusBadRequest
	case errors.Is(err, venmo.ErrNotConfigured):
		status = http.StatusServiceUnavailable
	}
	msg := err.Error()
	if prefix != "" {
		msg = prefix + ": " + msg
	}
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
