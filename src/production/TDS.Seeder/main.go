package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	config "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Config"
	container "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Container"
	tdsmodels "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Models"
	implementation "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Repository/Implementation"
)

var deviceIDs = []string{"device001", "device002"}

// temperature in 15-35 °C
func randomTemperature() float64 {
	return round1(rand.Float64()*20 + 15)
}

// humidity in 30-90 %
func randomHumidity() float64 {
	return round1(rand.Float64()*60 + 30)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Seeds the device data collection with 24 hourly readings per device,
// replacing whatever is there.
func main() {
	cfg, err := config.LoadSeederConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	ctr := container.NewContainerWithConfig(cfg.Database, cfg.Logging)
	defer ctr.Shutdown(context.Background())

	log := ctr.GetLogger().WithService("seeder")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := ctr.InitializeDatabase(ctx); err != nil {
		log.FatalWithError(err, "Failed to connect to database")
	}

	db, err := ctr.GetDatabase()
	if err != nil {
		log.FatalWithError(err, "Failed to get database connection")
	}

	dataRepo := implementation.NewMongoDeviceDataRepository(db)
	if err := dataRepo.EnsureIndexes(ctx); err != nil {
		log.FatalWithError(err, "Failed to create indexes")
	}

	if err := dataRepo.DeleteAll(ctx); err != nil {
		log.FatalWithError(err, "Failed to delete existing device data")
	}
	log.Info("Deleted existing device data")

	// One reading per device per hour over the last 24 hours
	now := time.Now().UTC()
	var entries []tdsmodels.DeviceData
	for _, deviceID := range deviceIDs {
		for i := 0; i < 24; i++ {
			entries = append(entries, tdsmodels.DeviceData{
				DeviceID:    deviceID,
				Temperature: randomTemperature(),
				Humidity:    randomHumidity(),
				Timestamp:   now.Add(-time.Duration(i) * time.Hour),
			})
		}
	}

	if err := dataRepo.CreateMany(ctx, entries); err != nil {
		log.FatalWithError(err, "Failed to insert device data")
	}

	log.WithField("count", len(entries)).Info("Seed completed successfully")
}
