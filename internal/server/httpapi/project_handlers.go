package httpapi

import "net/http"

// Project management is not implemented yet; every route answers 501.
func notImplemented(message string) AppHandler {
	return func(w http.ResponseWriter, r *http.Request) error {
		RespondWithJSON(w, http.StatusNotImplemented, messageResponse{Message: message})
		return nil
	}
}

var (
	handleListProjects  = notImplemented("List projects endpoint - Coming soon")
	handleCreateProject = notImplemented("Create project endpoint - Coming soon")
	handleGetProject    = notImplemented("Get project endpoint - Coming soon")
	handleUpdateProject = notImplemented("Update project endpoint - Coming soon")
	handleDeleteProject = notImplemented("Delete project endpoint - Coming soon")
)
