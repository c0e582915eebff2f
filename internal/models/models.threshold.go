// FilePath: internal/models/models.threshold.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ThresholdSingletonID is the key of the only row tbl_threshold is meant to hold.
const ThresholdSingletonID = 1

// Threshold is the temperature/humidity pair relay controllers switch on
type Threshold struct {
	TempThreshold float64 `json:"temp_threshold" db:"temp_threshold"`
	HumThreshold  float64 `json:"hum_threshold" db:"hum_threshold"`
	Timestamp     Time    `json:"timestamp" db:"timestamp"`
}

// ThresholdResponse is the success body of the threshold fetch endpoint
type ThresholdResponse struct {
	Status        string  `json:"status"`
	TempThreshold float64 `json:"temp_threshold"`
	HumThreshold  float64 `json:"hum_threshold"`
}

// ThresholdUpdate is the decoded body of a threshold update request
type ThresholdUpdate struct {
	TempThreshold Float `json:"temp_threshold"`
	HumThreshold  Float `json:"hum_threshold"`
}

// Complete reports whether both thresholds were supplied.
func (u ThresholdUpdate) Complete() bool {
	return u.TempThreshold.Valid && u.HumThreshold.Valid
}

// Float is a JSON number that also accepts numeric strings and booleans.
// Valid is false when the field was absent or null.
type Float struct {
	Value float64
	Valid bool
}

// NewFloat returns a set Float.
func NewFloat(v float64) Float {
	return Float{Value: v, Valid: true}
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// UnmarshalJSON coerces numbers, strings and booleans to float64.
// Strings without a leading number coerce to 0.
func (f *Float) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = Float{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = NewFloat(coerceString(s))
		return nil
	case 't':
		*f = NewFloat(1)
		return nil
	case 'f':
		*f = NewFloat(0)
		return nil
	case '{', '[':
		return fmt.Errorf("threshold must be a scalar, got %s", data)
	}

	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid threshold %s: %w", data, err)
	}
	*f = NewFloat(v)
	return nil
}

// MarshalJSON renders the value, or null when unset.
func (f Float) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

func coerceString(s string) float64 {
	match := leadingNumber.FindString(strings.TrimSpace(s))
	if match == "" {
		return 0
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return v
}
