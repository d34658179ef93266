package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/corkboardhq/corkboard/internal/api/v1"
	"github.com/corkboardhq/corkboard/internal/api/ws"
)

func registerAPIRoutes(api huma.API, deps *v1.Deps) {
	v1.RegisterBoardRoutes(api, deps)
	v1.RegisterListRoutes(api, deps)
	v1.RegisterCardRoutes(api, deps)
	v1.RegisterLabelRoutes(api, deps)
	v1.RegisterAIRoutes(api, deps)
}

func registerWSRoutes(r chi.Router, hub *ws.Hub) {
	r.Get("/board/{boardID}", hub.ServeBoard)
}
