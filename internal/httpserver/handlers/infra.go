package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/httpserver/deps"
)

type componentStatus struct {
	OK           bool   `json:"ok"`
	OpenSessions *int   `json:"open_sessions,omitempty"`
	Mode         string `json:"mode,omitempty"`
	Impact       string `json:"impact,omitempty"`
	Error        string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		sessions := d.Sessions.Count()
		redisStatus := checkRedis(d)

		components := map[string]componentStatus{
			"sessions": {
				OK:           true,
				OpenSessions: &sessions,
			},
			"redis": redisStatus,
		}

		response := infraResponse{
			Mode:       determineMode(components),
			Components: components,
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

func determineMode(components map[string]componentStatus) string {
	// Redis is the system of record: without it nothing persists.
	if redis, exists := components["redis"]; exists && !redis.OK {
		return "critical"
	}
	return "operational"
}

func checkRedis(d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Mode:   "down",
			Impact: "persistence-disabled",
			Error:  "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "down",
			Impact: "persistence-disabled",
			Error:  "timeout",
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "persistence-enabled",
		Error:  "none",
	}
}
