// FILE: internal/dto/labeling_dto.go
package dto

import (
	"time"

	"capsule-labeling-be/pkg/registry"
)

// --- Session DTOs ---

type StartSessionRequest struct {
	Annotator string `json:"annotator"`
}

type SessionResponse struct {
	Id             string             `json:"id"`
	Annotator      string             `json:"annotator"`
	StartedAt      time.Time          `json:"started_at"`
	LabeledCount   int                `json:"labeled_count"`
	UnlabeledCount int                `json:"unlabeled_count"`
	ImageCount     int                `json:"image_count"`
	Discovered     []string           `json:"discovered"`          // frames appended to the unlabeled registry
	Anomalies      []registry.Anomaly `json:"anomalies,omitempty"` // strict mode only
	Vocabulary     []string           `json:"vocabulary"`
}

// --- Navigation DTOs ---

type FilterRequest struct {
	Status         string   `json:"status" validate:"omitempty,oneof=all labeled unlabeled"`
	Movie          string   `json:"movie"`
	Pillcam        string   `json:"pillcam"`
	RequiredLabels []string `json:"required_labels"`
}

type FrameResponse struct {
	Frame     string            `json:"frame"`
	Class     string            `json:"class"`
	Movie     string            `json:"movie"`
	Pillcam   string            `json:"pillcam"`
	LabelDate *time.Time        `json:"label_date"`
	IsLabeled bool              `json:"is_labeled"`
	HasImage  bool              `json:"has_image"`
	Labels    registry.LabelSet `json:"labels"`  // buffered flags shown to the annotator
	Pending   bool              `json:"pending"` // buffered flags differ from the stored row
	Extra     map[string]string `json:"extra,omitempty"`
}

type ViewResponse struct {
	Index  int             `json:"index"`
	Total  int             `json:"total"`
	Filter registry.Filter `json:"filter"`
	Frame  *FrameResponse  `json:"frame"` // nil when the filter matches nothing
}

// --- Labeling DTOs ---

type SetLabelsRequest struct {
	Labels map[string]bool `json:"labels" validate:"required"`
}

type SetLabelsResponse struct {
	Frame        string            `json:"frame"`
	Labels       registry.LabelSet `json:"labels"`
	Class        string            `json:"class"`
	PendingEdits int               `json:"pending_edits"`
}

type CommitResponse struct {
	Changed  int      `json:"changed"`
	Promoted []string `json:"promoted"`
	Updated  []string `json:"updated"`
}

// --- Reporting DTOs ---

type StatsResponse struct {
	registry.Stats
}

type FacetsResponse struct {
	registry.Facets
	Vocabulary []string `json:"vocabulary"`
}

type AnomaliesResponse struct {
	Count     int                `json:"count"`
	Anomalies []registry.Anomaly `json:"anomalies"`
}

type SyncResponse struct {
	LabeledCount   int      `json:"labeled_count"`
	UnlabeledCount int      `json:"unlabeled_count"`
	Discovered     []string `json:"discovered"`
	Written        bool     `json:"written"`
}

// --- History DTOs ---

type HistoryEntryResponse struct {
	Id        string                 `json:"id"` // MD5 hash of the log line
	Event     string                 `json:"event"`
	Timestamp string                 `json:"timestamp"`
	Details   map[string]interface{} `json:"details"`
}
