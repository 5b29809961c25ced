package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"mapa_editor/internal/geo"
	"mapa_editor/internal/middleware"
	"mapa_editor/internal/repository"
	"mapa_editor/internal/routing"
	"mapa_editor/internal/session"
)

// upgrader configures the WebSocket connection.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all for development (restrict in production!)
	},
}

// trackingRouter is wired at boot alongside the REST controllers.
var trackingRouter *routing.Service

// InitTracking injects the geometry service used by tracking sessions.
func InitTracking(svc *routing.Service) {
	trackingRouter = svc
}

// positionPayload is an inbound observer position sample. Timestamp parsing
// tolerates missing timezone suffixes from mobile clients.
type positionPayload struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

// UnmarshalJSON handles the timestamp formats mobile geolocation plugins
// emit, defaulting naive timestamps to UTC.
func (p *positionPayload) UnmarshalJSON(data []byte) error {
	type alias positionPayload
	aux := &struct {
		Timestamp string `json:"timestamp"`
		*alias
	}{alias: (*alias)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	ts := aux.Timestamp
	if ts == "" {
		p.Timestamp = time.Now().UTC()
		return nil
	}
	if len(ts) > 6 && !(strings.HasSuffix(ts, "Z") || strings.ContainsAny(ts[len(ts)-6:], "+-")) {
		ts += "Z"
	}

	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", aux.Timestamp, err)
	}
	p.Timestamp = t
	return nil
}

// clientMessage is the envelope for all inbound tracking frames.
type clientMessage struct {
	Type      string          `json:"type"`
	Position  json.RawMessage `json:"position,omitempty"`
	RouteID   uint            `json:"route_id,omitempty"`
	PresentID uint            `json:"present_id,omitempty"`
}

// TrackHub fans live tracking frames out to monitor connections, so a
// second client (support view, big-screen map) can watch a user's session.
type TrackHub struct {
	monitors  map[uint]map[*websocket.Conn]bool
	broadcast chan hubFrame
	mu        sync.Mutex
}

type hubFrame struct {
	userID uint
	event  session.Event
}

// NewTrackHub creates the hub and starts its broadcast loop.
func NewTrackHub() *TrackHub {
	hub := &TrackHub{
		monitors:  make(map[uint]map[*websocket.Conn]bool),
		broadcast: make(chan hubFrame, 100),
	}
	go hub.run()
	return hub
}

func (h *TrackHub) run() {
	for frame := range h.broadcast {
		h.mu.Lock()
		for conn := range h.monitors[frame.userID] {
			if err := conn.WriteJSON(frame.event); err != nil {
				if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
					logrus.WithField("user_id", frame.userID).Info("Monitor connection closed during broadcast, unregistering.")
					delete(h.monitors[frame.userID], conn)
				} else {
					logrus.WithError(err).WithField("user_id", frame.userID).Warn("Failed to send frame to monitor.")
				}
			}
		}
		h.mu.Unlock()
	}
}

// RegisterMonitor registers a monitor connection for a user's session feed.
func (h *TrackHub) RegisterMonitor(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.monitors[userID]; !ok {
		h.monitors[userID] = make(map[*websocket.Conn]bool)
	}
	h.monitors[userID][conn] = true
	logrus.WithField("user_id", userID).Info("Monitor registered with TrackHub.")
}

// UnregisterMonitor removes a disconnected monitor connection.
func (h *TrackHub) UnregisterMonitor(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.monitors[userID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.monitors, userID)
		}
	}
	logrus.WithField("user_id", userID).Info("Monitor unregistered from TrackHub.")
}

// Publish queues a session event for the user's monitors.
func (h *TrackHub) Publish(userID uint, event session.Event) {
	select {
	case h.broadcast <- hubFrame{userID: userID, event: event}:
	default:
		logrus.Warn("Track broadcast channel full, dropping frame.")
	}
}

var trackHub = NewTrackHub()

// authenticateWebSocket validates the JWT passed as a query parameter
// (browsers cannot set headers on WebSocket dials).
func authenticateWebSocket(c *gin.Context) (uint, error) {
	tokenString := c.Query("token")
	if tokenString == "" {
		return 0, errors.New("missing authentication token")
	}

	claims, err := middleware.ValidateToken(tokenString)
	if err != nil {
		return 0, fmt.Errorf("invalid token: %w", err)
	}
	return claims.UserID, nil
}

// wsWriter serializes writes to one connection; session events arrive from
// multiple goroutines (read loop, geometry refresh, repository fan-out).
type wsWriter struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (w *wsWriter) WriteEvent(event session.Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteJSON(event)
}

func (w *wsWriter) WriteError(message string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.conn.WriteJSON(gin.H{"type": "error", "error": message})
}

// HandleTrackingWebSocket runs one editor tracking session over a
// WebSocket: inbound observer positions and user actions, outbound alerts,
// prompts, geometry and sync frames.
func HandleTrackingWebSocket(c *gin.Context) {
	userID, authErr := authenticateWebSocket(c)
	if authErr != nil {
		logrus.WithError(authErr).Warn("Tracking WebSocket connection attempt failed.")
		c.JSON(http.StatusUnauthorized, gin.H{"error": authErr.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to upgrade WebSocket connection.")
		return
	}
	defer conn.Close()

	writer := &wsWriter{conn: conn}
	emit := func(event session.Event) {
		if err := writer.WriteEvent(event); err != nil {
			logrus.WithError(err).WithField("user_id", userID).Debug("Failed to write session event.")
		}
		trackHub.Publish(userID, event)
	}

	sess, err := session.New(userID, repository.Default, trackingRouter, emit)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to open tracking session.")
		writer.WriteError("Failed to load map data.")
		return
	}
	defer sess.Close()

	logrus.WithField("user_id", userID).Info("Tracking WebSocket connection established.")

	// Initial state so the client can render without a REST round trip.
	snap := sess.CurrentSnapshot()
	emit(session.Event{Type: session.EventSync, Snapshot: &snap})

	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithField("user_id", userID).Info("Tracking WebSocket closed.")
			} else {
				logrus.WithError(err).WithField("user_id", userID).Error("Error reading tracking WebSocket message.")
			}
			break
		}

		var msg clientMessage
		if err := json.Unmarshal(p, &msg); err != nil {
			writer.WriteError("Invalid message format.")
			continue
		}

		dispatchTrackingMessage(sess, writer, userID, msg)
	}
}

func dispatchTrackingMessage(sess *session.TrackingSession, writer *wsWriter, userID uint, msg clientMessage) {
	switch msg.Type {
	case "position":
		var pos positionPayload
		if err := json.Unmarshal(msg.Position, &pos); err != nil {
			writer.WriteError("Invalid position payload. Check timestamp format.")
			return
		}
		sess.UpdatePosition(geo.Point{Lat: pos.Lat, Lng: pos.Lng}, pos.Timestamp)

	case "select_route":
		if err := sess.SelectRoute(msg.RouteID); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"user_id":  userID,
				"route_id": msg.RouteID,
			}).Warn("Route selection failed.")
			writer.WriteError("Route not found.")
		}

	case "collect":
		if err := sess.Collect(msg.PresentID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writer.WriteError("Present not found.")
				return
			}
			logrus.WithError(err).WithField("present_id", msg.PresentID).Error("Collect failed.")
			writer.WriteError("Failed to collect present.")
		}

	case "dismiss_present":
		sess.DismissPresent()

	case "start_race":
		sess.StartRace()

	case "dismiss_race":
		sess.DismissRace()

	default:
		logrus.WithFields(logrus.Fields{
			"user_id": userID,
			"type":    msg.Type,
		}).Warn("Unknown tracking message type. Ignoring.")
	}
}

// HandleMonitorWebSocket attaches a read-only client to a user's live
// session feed (alerts, geometry, prompts) without driving it.
func HandleMonitorWebSocket(c *gin.Context) {
	userID, authErr := authenticateWebSocket(c)
	if authErr != nil {
		logrus.WithError(authErr).Warn("Monitor WebSocket connection attempt failed.")
		c.JSON(http.StatusUnauthorized, gin.H{"error": authErr.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to upgrade WebSocket connection.")
		return
	}
	defer conn.Close()

	trackHub.RegisterMonitor(userID, conn)
	defer trackHub.UnregisterMonitor(userID, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithField("user_id", userID).Info("Monitor WebSocket closed.")
			} else {
				logrus.WithError(err).WithField("user_id", userID).Error("Error reading monitor WebSocket message.")
			}
			break
		}
		logrus.WithField("user_id", userID).Warn("Monitor client sent unexpected message. Ignoring.")
	}
}
