package implementation

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	tdsmodels "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Models"
	interfaces "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Repository/Interfaces"
)

const deviceDataCollection = "devicedata"

type MongoDeviceDataRepository struct {
	collection *mongo.Collection
}

func NewMongoDeviceDataRepository(db *mongo.Database) *MongoDeviceDataRepository {
	return &MongoDeviceDataRepository{collection: db.Collection(deviceDataCollection)}
}

// EnsureIndexes creates the device/timestamp compound index used by the
// read paths
func (r *MongoDeviceDataRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "device_id", Value: 1},
			{Key: "timestamp", Value: -1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create device data index: %w", err)
	}
	return nil
}

// Create persists a reading
func (r *MongoDeviceDataRepository) Create(ctx context.Context, data *tdsmodels.DeviceData) (*tdsmodels.DeviceData, error) {
	if data.ID.IsZero() {
		data.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	if data.Timestamp.IsZero() {
		data.Timestamp = now
	}
	data.CreatedAt = now
	data.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, data)
	if err != nil {
		return nil, err
	}

	return data, nil
}

// GetLatest returns the most recent readings across all devices
func (r *MongoDeviceDataRepository) GetLatest(ctx context.Context) ([]tdsmodels.DeviceData, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(interfaces.LatestLimit)

	return r.find(ctx, bson.M{}, opts)
}

// GetByDevice returns the most recent readings for one device
func (r *MongoDeviceDataRepository) GetByDevice(ctx context.Context, deviceID string) ([]tdsmodels.DeviceData, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(interfaces.ByDeviceLimit)

	return r.find(ctx, bson.M{"device_id": deviceID}, opts)
}

// DeleteByID removes a reading by its identifier. A malformed identifier
// is treated the same as an unknown one.
func (r *MongoDeviceDataRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return interfaces.ErrNotFound
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return interfaces.ErrNotFound
	}

	return nil
}

// DeleteAll removes every reading. Used by the seeder.
func (r *MongoDeviceDataRepository) DeleteAll(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{})
	return err
}

// CreateMany persists a batch of readings. Used by the seeder.
func (r *MongoDeviceDataRepository) CreateMany(ctx context.Context, readings []tdsmodels.DeviceData) error {
	if len(readings) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(readings))
	now := time.Now().UTC()
	for i := range readings {
		if readings[i].ID.IsZero() {
			readings[i].ID = primitive.NewObjectID()
		}
		if readings[i].Timestamp.IsZero() {
			readings[i].Timestamp = now
		}
		readings[i].CreatedAt = now
		readings[i].UpdatedAt = now
		docs = append(docs, readings[i])
	}

	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

func (r *MongoDeviceDataRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]tdsmodels.DeviceData, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var readings []tdsmodels.DeviceData
	if err := cursor.All(ctx, &readings); err != nil {
		return nil, err
	}

	return readings, nil
}
