package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/soat-quoter/app/requests"
	"github.com/soat-quoter/app/responses"
	"github.com/soat-quoter/app/services"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 20
	maxListLimit     = 500
)

// QuoteController handles /v1/quotes.
type QuoteController struct {
	quoteService *services.QuoteService
	logger       *zap.Logger
}

func NewQuoteController(quoteService *services.QuoteService, logger *zap.Logger) *QuoteController {
	return &QuoteController{
		quoteService: quoteService,
		logger:       logger,
	}
}

// CreateQuote prices a vehicle with every insurer.
func (qc *QuoteController) CreateQuote(c *gin.Context) {
	var req requests.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_REQUEST",
			Message: "invalid request: " + err.Error(),
		})
		return
	}

	startTime := time.Now()
	broker := IsBroker(c)

	rec, err := qc.quoteService.Quote(c.Request.Context(), &req, broker)
	if errors.Is(err, services.ErrInvalidRequest) {
		c.JSON(http.StatusUnprocessableEntity, responses.ErrorResponse{
			Error:   "VALIDATION_ERROR",
			Message: err.Error(),
		})
		return
	}
	if err != nil {
		qc.logger.Error("quote failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "QUOTE_ERROR",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, responses.QuoteResponse{
		QuoteNumber:      rec.QuoteNumber,
		RecordID:         rec.ID,
		Role:             rec.Role,
		Results:          rec.Lines,
		BestOffer:        rec.Best,
		DocumentName:     rec.DocumentName,
		ProcessingTimeMs: time.Since(startTime).Milliseconds(),
	})
}

func (qc *QuoteController) GetQuote(c *gin.Context) {
	rec, err := qc.quoteService.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, services.ErrQuoteNotFound) {
		c.JSON(http.StatusNotFound, responses.ErrorResponse{
			Error:   "NOT_FOUND",
			Message: "quote " + c.Param("id") + " not found",
		})
		return
	}
	if err != nil {
		qc.logger.Error("load quote", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "HISTORY_ERROR",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// ListQuotes returns the newest quotes; limit defaults to 20.
func (qc *QuoteController) ListQuotes(c *gin.Context) {
	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, responses.ErrorResponse{
				Error:   "INVALID_LIMIT",
				Message: "limit must be a positive integer",
			})
			return
		}
		limit = n
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	recs, err := qc.quoteService.Recent(c.Request.Context(), limit)
	if err != nil {
		qc.logger.Error("list quotes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "HISTORY_ERROR",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, responses.QuoteListResponse{Quotes: recs, Count: len(recs)})
}
