package dashboard

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"perfume-dashboard/models"
	"perfume-dashboard/services"
)

const (
	wsReadLimit   = 64 << 10
	wsWriteWait   = 10 * time.Second
	wsIdleTimeout = 10 * time.Minute
)

// wsFilter is a filter change sent by the page. Absent selections are nil
// and fall back to the defaults; an empty list selects nothing.
type wsFilter struct {
	Category    string   `json:"category"`
	Brand       string   `json:"brand"`
	BoxBrands   []string `json:"box_brands"`
	StripBrands []string `json:"strip_brands"`
	Ceiling     *float64 `json:"ceiling"`
	Limit       int      `json:"limit"`
}

func (f wsFilter) request() (services.DashboardRequest, error) {
	cat, ok := models.ParseCategory(f.Category)
	if !ok {
		return services.DashboardRequest{}, fmt.Errorf("invalid category %q", f.Category)
	}
	if f.Ceiling != nil && !validCeiling(*f.Ceiling) {
		return services.DashboardRequest{}, fmt.Errorf("invalid ceiling %v", *f.Ceiling)
	}
	brand := f.Brand
	if services.IsAllBrands(brand) {
		brand = ""
	}
	return services.DashboardRequest{
		Category:    cat,
		Brand:       brand,
		BoxBrands:   f.BoxBrands,
		StripBrands: f.StripBrands,
		Ceiling:     f.Ceiling,
		Limit:       f.Limit,
	}, nil
}

// wsMessage is a server reply: either a full view or an error.
type wsMessage struct {
	Type  string                `json:"type"`
	View  *models.DashboardView `json:"view,omitempty"`
	Error string                `json:"error,omitempty"`
}

// serveWS pushes a view for the query-string filter on connect, then one
// view per filter message received.
func (s *Server) serveWS(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("[ws] Upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsReadLimit)

	initial, err := parseRequest(c)
	if err != nil {
		if s.send(conn, wsMessage{Type: "error", Error: err.Error()}) != nil {
			return
		}
	} else if s.sendView(conn, initial) != nil {
		return
	}

	for {
		_ = conn.SetReadDeadline(time.Now().Add(wsIdleTimeout))
		var f wsFilter
		if err := conn.ReadJSON(&f); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("[ws] Read: %v", err)
			}
			return
		}
		s.metrics.ObserveWSMessage()

		req, err := f.request()
		if err != nil {
			err = s.send(conn, wsMessage{Type: "error", Error: err.Error()})
		} else {
			err = s.sendView(conn, req)
		}
		if err != nil {
			s.logger.Warn("[ws] Write: %v", err)
			return
		}
	}
}

func (s *Server) sendView(conn *websocket.Conn, req services.DashboardRequest) error {
	view := s.svc.Build(req)
	return s.send(conn, wsMessage{Type: "view", View: &view})
}

func (s *Server) send(conn *websocket.Conn, msg wsMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(msg)
}
