package models

import (
	"time"
)

// Measurement is one historical determination of the speed of light.
// Values are compared structurally, so two records are the same point
// only when every field matches.
type Measurement struct {
	Sequence    int     `json:"sequence" doc:"Row number in the dataset"`
	Year        float64 `json:"year" doc:"Year of the measurement, fractional years allowed"`
	Observer    string  `json:"observer" doc:"Observer or team name"`
	Method      string  `json:"method" doc:"Measurement method"`
	Value       float64 `json:"value" doc:"Measured speed of light in km/s"`
	Uncertainty float64 `json:"uncertainty" doc:"Reported uncertainty in km/s, zero when unknown"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Records int       `json:"records" doc:"Number of loaded measurements"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// ListMeasurementsResponse returns the full dataset
type ListMeasurementsResponse struct {
	Body struct {
		Measurements []Measurement `json:"measurements" doc:"All measurements in dataset order"`
	}
}

// HoverStateBody describes the currently hovered record
type HoverStateBody struct {
	Hovered *Measurement `json:"hovered" doc:"Hovered record, null when no point is hovered"`
}

// GetHoverResponse returns the current hover state
type GetHoverResponse struct {
	Body HoverStateBody
}

// EnterHoverRequest marks a record as hovered
type EnterHoverRequest struct {
	Sequence int `path:"sequence" minimum:"0" doc:"Sequence number of the hovered record"`
}

// HoverResponse is returned after a hover event is dispatched
type HoverResponse struct {
	Body HoverStateBody
}

// PointerRequest reports a pointer position over the rendered chart
type PointerRequest struct {
	Body struct {
		X float64 `json:"x" doc:"Pointer x in chart pixels"`
		Y float64 `json:"y" doc:"Pointer y in chart pixels"`
	}
}

// PointerResponseBody carries the new hover state and the re-rendered chart
type PointerResponseBody struct {
	Hovered *Measurement `json:"hovered" doc:"Hovered record after hit-testing, null when none"`
	Changed bool         `json:"changed" doc:"Whether the hover state changed"`
	SVG     string       `json:"svg" doc:"Chart rendered for the new state"`
}

// PointerResponse is the response to a pointer event
type PointerResponse struct {
	Body PointerResponseBody
}

// CreateSnapshotRequest asks for the current chart to be published
type CreateSnapshotRequest struct {
	Body struct {
		Format string `json:"format,omitempty" enum:"svg,png" default:"svg" doc:"Output image format"`
	}
}

// Snapshot describes a published chart rendering
type Snapshot struct {
	ID          string    `json:"id" doc:"Snapshot unique identifier"`
	Key         string    `json:"key" doc:"Object key in the snapshot bucket"`
	ContentType string    `json:"content_type" doc:"MIME type of the stored image"`
	DownloadURL string    `json:"download_url" doc:"Pre-signed download URL"`
	Hovered     *int      `json:"hovered,omitempty" doc:"Sequence of the record hovered when captured"`
	CreatedAt   time.Time `json:"created_at" doc:"Capture time"`
}

// CreateSnapshotResponse returns the published snapshot
type CreateSnapshotResponse struct {
	Body Snapshot
}
