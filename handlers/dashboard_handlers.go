package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"shopsmart/api/analytics"
	"shopsmart/api/middleware"
	"shopsmart/api/models"
	"shopsmart/api/session"
	"shopsmart/api/utils"
)

const (
	maxRecentLimit    = 100
	streamKeepAlive   = 15 * time.Second
	snapshotEventName = "snapshot"
)

// DashboardHandlers exposes the marketer view of the session: the raw log,
// the aggregates and the AI insight.
type DashboardHandlers struct {
	Session *session.Session
}

func NewDashboardHandlers(s *session.Session) *DashboardHandlers {
	return &DashboardHandlers{Session: s}
}

func (h *DashboardHandlers) Register(rg *gin.RouterGroup) {
	dashboard := rg.Group("/dashboard")
	{
		dashboard.GET("/events", h.ListEvents)
		dashboard.DELETE("/events", h.ClearEvents)
		dashboard.GET("/recent", h.RecentEvents)
		dashboard.GET("/aggregates", h.Aggregates)
		dashboard.GET("/snapshot", h.Snapshot)
		dashboard.GET("/insight", h.GetInsight)
		dashboard.POST("/insight", h.RequestInsight)
		dashboard.GET("/stream", h.Stream)
	}
}

type aggregatesResponse struct {
	TotalEvents      int                 `json:"totalEvents"`
	TypeDistribution []models.CountEntry `json:"typeDistribution"`
	CategoryInterest []models.CountEntry `json:"categoryInterest"`
}

type insightResponse struct {
	State     session.InsightState `json:"state"`
	Insight   *models.Insight      `json:"insight"`
	Discarded bool                 `json:"discarded,omitempty"`
}

func (h *DashboardHandlers) ListEvents(c *gin.Context) {
	c.JSON(http.StatusOK, h.Session.Events())
}

func (h *DashboardHandlers) ClearEvents(c *gin.Context) {
	h.Session.Clear()
	c.Status(http.StatusNoContent)
}

// RecentEvents returns the newest events first, five by default.
func (h *DashboardHandlers) RecentEvents(c *gin.Context) {
	limit, err := utils.ParseLimit(c.Query("limit"), session.RecentLimit, maxRecentLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.Session.Recent(limit))
}

func (h *DashboardHandlers) Aggregates(c *gin.Context) {
	events := h.Session.Events()
	c.JSON(http.StatusOK, aggregatesResponse{
		TotalEvents:      len(events),
		TypeDistribution: analytics.TypeDistribution(events),
		CategoryInterest: analytics.CategoryInterest(events),
	})
}

func (h *DashboardHandlers) Snapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.Session.Snapshot())
}

func (h *DashboardHandlers) GetInsight(c *gin.Context) {
	in, state := h.Session.Insight()
	c.JSON(http.StatusOK, insightResponse{State: state, Insight: in})
}

// RequestInsight starts an analysis. It answers 202 right away unless
// ?wait=true is given or the log is empty, in which case it answers 200 with
// the result.
func (h *DashboardHandlers) RequestInsight(c *gin.Context) {
	wait := false
	if raw := c.Query("wait"); raw != "" {
		var err error
		if wait, err = strconv.ParseBool(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'wait' parameter. Must be a boolean."})
			return
		}
	}
	empty := len(h.Session.Events()) == 0

	task, err := h.Session.RequestInsight(c.Request.Context())
	if errors.Is(err, session.ErrInsightPending) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		middleware.FromContext(c.Request.Context()).Error("Error requesting insight", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to request insight"})
		return
	}

	if !wait && !empty {
		c.JSON(http.StatusAccepted, insightResponse{State: session.StatePending})
		return
	}

	result, err := task.Wait(c.Request.Context())
	if err != nil {
		// The client went away; the analysis carries on and lands in the session.
		c.Status(http.StatusRequestTimeout)
		return
	}
	if task.Discarded() {
		// The log was cleared meanwhile; report what the session displays now.
		in, state := h.Session.Insight()
		c.JSON(http.StatusOK, insightResponse{State: state, Insight: in, Discarded: true})
		return
	}
	c.JSON(http.StatusOK, insightResponse{State: session.StateIdle, Insight: &result})
}

// Stream pushes a snapshot over SSE on connect and after every change.
func (h *DashboardHandlers) Stream(c *gin.Context) {
	updates, unsubscribe := h.Session.Subscribe()
	defer unsubscribe()

	logger := middleware.FromContext(c.Request.Context())
	logger.Debug("dashboard stream opened")

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	keepAlive := time.NewTicker(streamKeepAlive)
	defer keepAlive.Stop()

	c.SSEvent(snapshotEventName, h.Session.Snapshot())
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-updates:
			c.SSEvent(snapshotEventName, h.Session.Snapshot())
			return true
		case <-keepAlive.C:
			c.SSEvent("ping", gin.H{"time": time.Now().UnixMilli()})
			return true
		}
	})
	logger.Debug("dashboard stream closed")
}
