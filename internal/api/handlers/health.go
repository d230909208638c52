package handlers

import (
	"net/http"

	"github.com/HndrkDrs/WeekWise/internal/service"
	"github.com/HndrkDrs/WeekWise/internal/websocket"
)

// HealthResponse is the health check body.
type HealthResponse struct {
	Status        string `json:"status"`
	StoreReadable bool   `json:"store_readable"`
	HubRunning    bool   `json:"hub_running"`
	Clients       int    `json:"clients"`
	Mode          string `json:"mode"`
	PasswordIsSet bool   `json:"password_set"`
}

// HealthCheck reports whether the store can be read and the hub is running.
func HealthCheck(p *service.Planner, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:        "healthy",
			StoreReadable: p.Check(r.Context()) == nil,
			HubRunning:    hub.Running(),
			Clients:       hub.ClientCount(),
			Mode:          p.Mode(),
			PasswordIsSet: p.Configured(),
		}
		status := http.StatusOK
		if !resp.StoreReadable || !resp.HubRunning {
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}
