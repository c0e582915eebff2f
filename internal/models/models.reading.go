// FilePath: internal/models/models.reading.go
package models

// Reading represents a single DHT11 sample together with the relay state at that moment
type Reading struct {
	DeviceID    string  `json:"device_id" db:"device_id"`
	Temperature float64 `json:"temperature" db:"temperature"`
	Humidity    float64 `json:"humidity" db:"humidity"`
	RelayStatus string  `json:"relay_status" db:"relay_status"`
	Timestamp   Time    `json:"timestamp" db:"timestamp"`
}

// ReadingsResponse is the success body of the readings endpoint
type ReadingsResponse struct {
	Status string    `json:"status"`
	Data   []Reading `json:"data"`
}
