package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/RMahshie/lightspeed/internal/api/handlers"
	"github.com/RMahshie/lightspeed/internal/render"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(router chi.Router, api huma.API, chartHandler *handlers.ChartHandler, page PageOptions) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service",
	}, chartHandler.Health)

	// Dataset
	huma.Register(api, huma.Operation{
		OperationID: "listMeasurements",
		Method:      http.MethodGet,
		Path:        "/api/measurements",
		Summary:     "List measurements",
		Description: "Returns every measurement in dataset order",
		Tags:        []string{"Dataset"},
	}, chartHandler.ListMeasurements)

	// Hover state
	huma.Register(api, huma.Operation{
		OperationID: "getHover",
		Method:      http.MethodGet,
		Path:        "/api/hover",
		Summary:     "Get hover state",
		Description: "Returns the currently hovered measurement, if any",
		Tags:        []string{"Hover"},
	}, chartHandler.GetHover)

	huma.Register(api, huma.Operation{
		OperationID: "enterHover",
		Method:      http.MethodPut,
		Path:        "/api/hover/{sequence}",
		Summary:     "Hover a measurement",
		Description: "Dispatches a hover-start for the measurement with the given sequence number",
		Tags:        []string{"Hover"},
	}, chartHandler.EnterHover)

	huma.Register(api, huma.Operation{
		OperationID: "leaveHover",
		Method:      http.MethodDelete,
		Path:        "/api/hover",
		Summary:     "Clear hover",
		Description: "Dispatches a hover-end",
		Tags:        []string{"Hover"},
	}, chartHandler.LeaveHover)

	huma.Register(api, huma.Operation{
		OperationID: "pointer",
		Method:      http.MethodPost,
		Path:        "/api/pointer",
		Summary:     "Report pointer position",
		Description: "Hit-tests a pointer position against the chart and returns the new hover state with the re-rendered chart",
		Tags:        []string{"Hover"},
	}, chartHandler.Pointer)

	// Snapshots
	huma.Register(api, huma.Operation{
		OperationID: "createSnapshot",
		Method:      http.MethodPost,
		Path:        "/api/snapshots",
		Summary:     "Publish a snapshot",
		Description: "Renders the chart in its current hover state and uploads it to the snapshot bucket",
		Tags:        []string{"Snapshots"},
	}, chartHandler.CreateSnapshot)

	// Chart and page
	router.Get("/chart.svg", chartHandler.ServeImage(render.FormatSVG))
	router.Get("/chart.png", chartHandler.ServeImage(render.FormatPNG))
	router.Get("/", pageHandler(chartHandler, page))
}
