package interfaces

import (
	"context"

	tdsmodels "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Models"
)

// Query limits for the dashboard read paths
const (
	LatestLimit   = 10
	ByDeviceLimit = 20
)

// DeviceDataRepository persists timestamped device readings
type DeviceDataRepository interface {
	// Create persists a reading and returns it with its assigned identifier
	Create(ctx context.Context, data *tdsmodels.DeviceData) (*tdsmodels.DeviceData, error)

	// GetLatest returns the most recent readings across all devices,
	// descending by timestamp, at most LatestLimit records
	GetLatest(ctx context.Context) ([]tdsmodels.DeviceData, error)

	// GetByDevice returns the most recent readings for one device,
	// descending by timestamp, at most ByDeviceLimit records
	GetByDevice(ctx context.Context, deviceID string) ([]tdsmodels.DeviceData, error)

	// DeleteByID removes a reading. Returns ErrNotFound if no record
	// has that identifier.
	DeleteByID(ctx context.Context, id string) error
}
