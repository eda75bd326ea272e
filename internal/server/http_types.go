package server

import (
	"github.com/google/uuid"
	"github.com/sanonone/fibermap/pkg/zone"
)

// ModelsResponse lists the analyzed model instances.
type ModelsResponse struct {
	RunID  uuid.UUID      `json:"run_id"`
	Policy zone.Policy    `json:"policy"`
	Fibers int            `json:"fibers"`
	Models []ModelSummary `json:"models"`
}

// ModelSummary describes one model instance.
type ModelSummary struct {
	Model   int           `json:"model"`
	Zones   []ZoneSummary `json:"zones"`
	Entries int           `json:"entries"`
	Touched int           `json:"touched_fibers"`
}

// ZoneSummary is one influence zone with its electrode name.
type ZoneSummary struct {
	Index     int         `json:"index"`
	Electrode string      `json:"electrode,omitempty"`
	Sphere    zone.Sphere `json:"sphere"`
	Fibers    int         `json:"fibers"`
}

// MembershipResponse is the membership table of one model.
type MembershipResponse struct {
	Model      int        `json:"model"`
	Membership zone.Table `json:"membership"`
}

// ColorsResponse carries one resolved zone and color per fiber.
type ColorsResponse struct {
	Model  int          `json:"model"`
	Policy zone.Policy  `json:"policy"`
	Fibers []FiberColor `json:"fibers"`
}

// FiberColor is the presentation state of a single fiber.
type FiberColor struct {
	Fiber int        `json:"fiber"`
	Zone  int        `json:"zone"`
	Color uint32     `json:"color"`
	RGB   [3]float32 `json:"rgb"`
}

// ZoneFibersResponse lists the fibers touching one zone.
type ZoneFibersResponse struct {
	Model  int         `json:"model"`
	Zone   int         `json:"zone"`
	Sphere zone.Sphere `json:"sphere"`
	Fibers []int       `json:"fibers"`
}

// FiberZonesResponse lists the zones touched by one fiber.
type FiberZonesResponse struct {
	Model    int   `json:"model"`
	Fiber    int   `json:"fiber"`
	Zones    []int `json:"zones"`
	Assigned int   `json:"assigned_zone"`
}
