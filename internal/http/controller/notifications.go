package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"notifycenter/internal/config"
	"notifycenter/internal/domain"
	"notifycenter/internal/http/dto"
	"notifycenter/internal/http/resp"
	"notifycenter/internal/model"
	"notifycenter/internal/queue"
	"notifycenter/internal/service/notify"
	"notifycenter/internal/sse"
)

const (
	sseEventSnapshot    = "snapshot"
	defaultHeartbeat    = 15 * time.Second
	defaultHistoryLimit = 50
)

var invalidDelayMessage = fmt.Sprintf("dismiss_after_ms must be between 0 and %d", domain.MaxDismissAfterMS)

type Handler struct {
	cfg *config.Config
	svc *notify.Service
	hub *sse.Hub
	log *zap.Logger
	pub queue.Publisher
}

func NewHandler(cfg *config.Config, svc *notify.Service, hub *sse.Hub, logger *zap.Logger, publisher queue.Publisher) *Handler {
	return &Handler{cfg: cfg, svc: svc, hub: hub, log: logger, pub: publisher}
}

func (h *Handler) ListNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ListNotificationsResponse{Notifications: h.svc.List(c.Request.Context())})
}

func (h *Handler) CreateNotification(c *gin.Context) {
	var req dto.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}

	created, err := h.svc.Add(c.Request.Context(), notify.AddRequest{
		Message:        req.Message,
		Kind:           req.Kind,
		DismissAfterMS: req.DismissAfterMS,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDismissDelay) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: invalidDelayMessage})
			return
		}
		h.log.Error("create notification failed", zap.String("kind", req.Kind), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to create notification"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// RemoveNotification always answers 204 for a well-formed id, whether or not
// the notification was still active.
func (h *Handler) RemoveNotification(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "id must be an integer"})
		return
	}
	if !h.svc.Remove(c.Request.Context(), id) {
		h.log.Debug("remove of inactive notification ignored", zap.Int64("id", id))
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) PublishNotification(c *gin.Context) {
	var req dto.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}
	if req.DismissAfterMS != nil {
		if _, err := domain.DismissDelay(*req.DismissAfterMS); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: invalidDelayMessage})
			return
		}
	}

	kind := domain.NormalizeKind(req.Kind)
	payload, err := json.Marshal(queue.Message{
		Message:        req.Message,
		Kind:           kind,
		DismissAfterMS: req.DismissAfterMS,
	})
	if err != nil {
		h.log.Error("publish payload marshal failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to publish notification"})
		return
	}

	prefix := h.cfg.RabbitPublishPrefix
	if prefix == "" {
		prefix = "notification"
	}
	routingKey := prefix + "." + kind
	if err := h.pub.Publish(c.Request.Context(), payload, routingKey); err != nil {
		h.log.Error("publish notification failed",
			zap.String("kind", kind),
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to publish notification"})
		return
	}

	c.JSON(http.StatusAccepted, dto.StatusResponse{Code: resp.CodeQueued, Message: "queued"})
}

func (h *Handler) History(c *gin.Context) {
	limit := h.cfg.HistoryLimit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	// zero, negative or malformed limits keep the default
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := h.svc.History(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to load history"})
		return
	}
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	c.JSON(http.StatusOK, dto.HistoryResponse{Entries: entries})
}

func (h *Handler) SSE(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		h.log.Error("streaming unsupported")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "streaming unsupported"})
		return
	}

	client := sse.NewClient(32)
	if !h.hub.Register(client) {
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "shutting down"})
		return
	}
	defer h.hub.Unregister(client)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	// registered before the snapshot, so every later change reaches the client
	snapshot, version := h.svc.Snapshot()
	if err := writeEvent(c.Writer, sseEventSnapshot, version, dto.ListNotificationsResponse{Notifications: snapshot}); err != nil {
		h.log.Error("write snapshot failed", zap.Error(err))
		return
	}
	flusher.Flush()

	interval := h.cfg.SSEHeartbeat
	if interval <= 0 {
		interval = defaultHeartbeat
	}
	heartbeat := time.NewTicker(interval)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-h.hub.Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(c.Writer, ": ping\n\n"); err != nil {
				h.log.Debug("heartbeat write failed", zap.Error(err))
				return
			}
			flusher.Flush()
		case change, ok := <-client.Ch:
			if !ok {
				return
			}
			if change.Version <= version {
				continue
			}
			if err := writeEvent(c.Writer, change.Type, change.Version, change); err != nil {
				h.log.Error("write change failed", zap.Uint64("version", change.Version), zap.Error(err))
				return
			}
			flusher.Flush()
		}
	}
}

// writeEvent frames one SSE event: the id is the center version, the event
// name is snapshot/added/removed and data is the JSON payload.
func writeEvent(w http.ResponseWriter, event string, version uint64, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", version, event, data)
	return err
}
