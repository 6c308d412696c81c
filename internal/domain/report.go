package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type HazardType string

const (
	HazardPothole         HazardType = "pothole"
	HazardFlooding        HazardType = "flooding"
	HazardLandslide       HazardType = "landslide"
	HazardFallenTree      HazardType = "fallen_tree"
	HazardRoadObstruction HazardType = "road_obstruction"
	HazardFire            HazardType = "fire"
	HazardElectrical      HazardType = "electrical"
	HazardOther           HazardType = "other"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type Location struct {
	Lat     float64 `json:"lat" validate:"lat"`
	Lng     float64 `json:"lng" validate:"lng"`
	Address string  `json:"address"`
}

// CoordinateLabel is the address used when reverse geocoding is unavailable.
func CoordinateLabel(lat, lng float64) string {
	return fmt.Sprintf("Lat %.5f, Lng %.5f", lat, lng)
}

type Reporter struct {
	Name    string `json:"name,omitempty" validate:"max=120"`
	Contact string `json:"contact,omitempty" validate:"max=120,contact"`
}

func (r Reporter) IsZero() bool {
	return r.Name == "" && r.Contact == ""
}

type Photo struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// ReportPayload is a fully captured report as produced by the capture wizard.
type ReportPayload struct {
	HazardType  HazardType `json:"hazard_type" validate:"required,oneof=pothole flooding landslide fallen_tree road_obstruction fire electrical other"`
	Severity    Severity   `json:"severity" validate:"required,oneof=low medium high critical"`
	Location    Location   `json:"location"`
	Description string     `json:"description,omitempty" validate:"max=2000"`
	Reporter    Reporter   `json:"reporter"`
	Photo       Photo      `json:"photo"`
}

// PendingReport is a report awaiting confirmed delivery. Everything except
// Attempts is fixed at creation.
type PendingReport struct {
	ID          string     `json:"id"`
	HazardType  HazardType `json:"hazard_type"`
	Severity    Severity   `json:"severity"`
	Location    Location   `json:"location"`
	Description string     `json:"description,omitempty"`
	Reporter    Reporter   `json:"reporter"`
	Photo       Photo      `json:"photo"`
	CapturedAt  time.Time  `json:"captured_at"`
	Attempts    int        `json:"attempts"`
}

// NewPendingReport assigns a time-ordered id (UUIDv7) and the capture timestamp.
func NewPendingReport(p ReportPayload, now time.Time) (PendingReport, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return PendingReport{}, err
	}
	return PendingReport{
		ID:          id.String(),
		HazardType:  p.HazardType,
		Severity:    p.Severity,
		Location:    p.Location,
		Description: p.Description,
		Reporter:    p.Reporter,
		Photo:       p.Photo,
		CapturedAt:  now.UTC(),
	}, nil
}

func (r PendingReport) Anonymous() bool {
	return r.Reporter.IsZero()
}
