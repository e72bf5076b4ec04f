package httpapi

import (
	"net/http"
	"time"
)

const (
	APIName    = "CRTR Studio API"
	APIVersion = "0.1.0"

	// isoMillis matches JavaScript's Date.toISOString.
	isoMillis = "2006-01-02T15:04:05.000Z07:00"
)

type SystemHandler struct {
	environment string
	now         func() time.Time
}

func NewSystemHandler(environment string) *SystemHandler {
	return &SystemHandler{environment: environment, now: time.Now}
}

type healthResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Timestamp   string `json:"timestamp"`
}

type infoResponse struct {
	Name          string            `json:"name"`
	Version       string            `json:"version"`
	Endpoints     map[string]string `json:"endpoints"`
	Authenticated bool              `json:"authenticated"`
}

// HandleHealth handles GET /health.
func (h *SystemHandler) HandleHealth(w http.ResponseWriter, r *http.Request) error {
	RespondWithJSON(w, http.StatusOK, healthResponse{
		Status:      "ok",
		Environment: h.environment,
		Timestamp:   h.now().UTC().Format(isoMillis),
	})
	return nil
}

// HandleInfo handles GET /api behind OptionalAuth.
func (h *SystemHandler) HandleInfo(w http.ResponseWriter, r *http.Request) error {
	_, authenticated := ClaimsFromContext(r.Context())
	RespondWithJSON(w, http.StatusOK, infoResponse{
		Name:    APIName,
		Version: APIVersion,
		Endpoints: map[string]string{
			"auth":     apiBasePath + authBasePath,
			"projects": apiBasePath + projectsBasePath,
		},
		Authenticated: authenticated,
	})
	return nil
}
