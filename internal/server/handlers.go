package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/leadline-hq/leadline/internal/assign"
	"github.com/leadline-hq/leadline/internal/leads"
	"github.com/leadline-hq/leadline/internal/phone"
	"github.com/leadline-hq/leadline/internal/store"
)

type trackRequest struct {
	EventType string `json:"eventType"`
	Variant   string `json:"variant"`
	VisitorID string `json:"visitorId"`
	Timestamp string `json:"timestamp"`
	UserAgent string `json:"userAgent"`
	Referrer  string `json:"referrer"`
}

func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.EventType == "" || req.Variant == "" || req.VisitorID == "" {
		s.writeError(w, http.StatusBadRequest, "Missing required fields: eventType, variant, visitorId")
		return
	}

	ev := &store.Event{
		EventType:       req.EventType,
		Variant:         req.Variant,
		VisitorID:       req.VisitorID,
		Timestamp:       req.Timestamp,
		UserAgent:       req.UserAgent,
		Referrer:        req.Referrer,
		IP:              r.RemoteAddr,
		ServerTimestamp: time.Now().UTC().Format(time.RFC3339),
	}

	result := s.tracker.Track(r.Context(), ev)
	s.writeJSON(w, http.StatusOK, result)
}

type submitRequest struct {
	Phone     string `json:"phone"`
	Variant   string `json:"variant"`
	VisitorID string `json:"visitorId"`
	Timestamp string `json:"timestamp"`
	UserAgent string `json:"userAgent"`
	Referrer  string `json:"referrer"`
	URL       string `json:"url"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	result, err := s.pipeline.Submit(r.Context(), leads.Submission{
		Phone:     req.Phone,
		Variant:   req.Variant,
		VisitorID: req.VisitorID,
		Timestamp: req.Timestamp,
		UserAgent: req.UserAgent,
		Referrer:  req.Referrer,
		URL:       req.URL,
		IP:        r.RemoteAddr,
	})
	if errors.Is(err, phone.ErrRequired) || errors.Is(err, phone.ErrInvalidFormat) {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("submit failed")
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Internal server error",
			"message": err.Error(),
		})
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	report := s.reporter.Report(r.Context(), period)

	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		s.renderDashboard(w, report)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// Cookie names for the server-side assignment path. The browser script
// keeps the same values in localStorage instead.
const (
	visitorCookie = "lp_visitor_id"
	variantCookie = "lp_variant"
)

type assignResponse struct {
	Variant   string `json:"variant"`
	VisitorID string `json:"visitorId"`
}

// handleAssign is the no-JS/SSR assignment path: sticky visitor id and
// variant in cookies, impression fired through the tracker without
// blocking the response.
func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request) {
	storage := &cookieStorage{r: r, w: w}
	userAgent := r.UserAgent()
	referrer := r.Referer()
	ip := r.RemoteAddr

	assignor := assign.New(storage, func(variant, visitorID string) {
		ev := &store.Event{
			EventType:       store.EventImpression,
			Variant:         variant,
			VisitorID:       visitorID,
			Timestamp:       time.Now().UTC().Format(time.RFC3339),
			UserAgent:       userAgent,
			Referrer:        referrer,
			IP:              ip,
			ServerTimestamp: time.Now().UTC().Format(time.RFC3339),
		}
		// Detached from the request: the assignment response never
		// waits on tracking.
		go s.tracker.Track(context.Background(), ev)
	})

	variant, visitorID := assignor.Assign()
	s.writeJSON(w, http.StatusOK, assignResponse{Variant: variant, VisitorID: visitorID})
}

// cookieStorage adapts the request/response cookie pair to
// assign.Storage.
type cookieStorage struct {
	r *http.Request
	w http.ResponseWriter
}

func cookieName(key string) string {
	if key == assign.VisitorKey {
		return visitorCookie
	}
	return variantCookie
}

func (c *cookieStorage) Get(key string) (string, bool) {
	cookie, err := c.r.Cookie(cookieName(key))
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (c *cookieStorage) Set(key, value string) {
	http.SetCookie(c.w, &http.Cookie{
		Name:     cookieName(key),
		Value:    value,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

type healthResponse struct {
	Status        string `json:"status"`
	Backend       string `json:"backend"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if err := s.store.Ping(r.Context()); err != nil {
		status = "degraded"
	}
	s.writeJSON(w, http.StatusOK, healthResponse{
		Status:        status,
		Backend:       s.store.Kind(),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
	})
}
