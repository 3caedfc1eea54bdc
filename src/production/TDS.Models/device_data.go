package tdsmodels

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeviceData represents a single telemetry reading reported by a device.
// DeviceID is a free-form partition key; devices are not pre-registered.
type DeviceData struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	DeviceID    string             `bson:"device_id" json:"deviceId"`
	Temperature float64            `bson:"temperature" json:"temperature"`
	Humidity    float64            `bson:"humidity" json:"humidity"`
	Timestamp   time.Time          `bson:"timestamp" json:"timestamp"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// NewDeviceData creates a reading with the timestamp defaulted to now
func NewDeviceData(deviceID string, temperature, humidity float64) *DeviceData {
	now := time.Now().UTC()
	return &DeviceData{
		DeviceID:    deviceID,
		Temperature: temperature,
		Humidity:    humidity,
		Timestamp:   now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
