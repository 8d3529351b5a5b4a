// ABOUTME: Request handlers for the feed API routes
// ABOUTME: Translate typed feed errors into JSON error bodies and HTTP status codes

package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/harper/rssedit/internal/config"
	"github.com/harper/rssedit/internal/export"
	"github.com/harper/rssedit/internal/feederr"
	"github.com/harper/rssedit/internal/loader"
	"github.com/harper/rssedit/internal/metrics"
	"github.com/harper/rssedit/internal/models"
	"github.com/harper/rssedit/internal/parse"
)

const (
	msgInvalidLoadBody     = `Invalid request body. Expected JSON with "url" field.`
	msgInvalidGenerateBody = `Invalid request body. Expected JSON with "feed" field.`
	msgEmptyXML            = "Request body must contain feed XML."
)

type loadRequest struct {
	URL *string `json:"url"`
}

type generateRequest struct {
	Feed *models.Feed `json:"feed"`
}

func errorBody(err *feederr.Error) gin.H {
	return gin.H{"error": err}
}

func (s *Server) handleLoad(c *gin.Context) {
	var req loadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(feederr.Validation(msgInvalidLoadBody)))
		return
	}
	if req.URL == nil || strings.TrimSpace(*req.URL) == "" {
		c.JSON(http.StatusBadRequest, errorBody(feederr.Validation(loader.MsgMissingURL)))
		return
	}

	res, err := s.loader.Load(c.Request.Context(), *req.URL)
	if err != nil {
		ferr, ok := feederr.As(err)
		if !ok {
			ferr = feederr.Network(err)
		}
		c.JSON(loader.HTTPStatus(ferr), errorBody(ferr))
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (s *Server) handleParse(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBody()))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, errorBody(feederr.Validation(fmt.Sprintf("Feed XML exceeds %d bytes.", tooLarge.Limit))))
			return
		}
		c.JSON(http.StatusBadRequest, errorBody(feederr.Validation(msgEmptyXML)))
		return
	}
	if strings.TrimSpace(string(body)) == "" {
		c.JSON(http.StatusBadRequest, errorBody(feederr.Validation(msgEmptyXML)))
		return
	}

	res := parse.Parse(body)
	outcome := metrics.OutcomeOK
	if res.Err != nil {
		outcome = string(res.Err.Kind)
	}
	metrics.Parses.WithLabelValues(string(res.Feed.FeedType), outcome).Inc()

	if res.Err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": res.Err, "feed": res.Feed})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"feed": res.Feed}})
}

func (s *Server) handleGenerate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Feed == nil {
		c.JSON(http.StatusBadRequest, errorBody(feederr.Validation(msgInvalidGenerateBody)))
		return
	}

	xml, err := export.Render(req.Feed)
	if err != nil {
		ferr, _ := feederr.As(err)
		c.JSON(http.StatusInternalServerError, errorBody(ferr))
		return
	}

	filename := export.Filename(req.Feed.Title(), s.cfg.MaxFilenameLength)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(xml))
}

func (s *Server) maxBody() int64 {
	if s.cfg.MaxBodyBytes > 0 {
		return s.cfg.MaxBodyBytes
	}
	return config.DefaultMaxBodyBytes
}
