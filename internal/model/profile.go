package model

import (
	"database/sql/driver"
	"encoding/json"
	"strconv"
	"time"
)

// Level is a price that may be undefined. The zero value is undefined.
type Level struct {
	Price float64
	Valid bool
}

// Defined wraps a known price.
func Defined(price float64) Level {
	return Level{Price: price, Valid: true}
}

// Ptr returns nil when the level is undefined.
func (l Level) Ptr() *float64 {
	if !l.Valid {
		return nil
	}
	p := l.Price
	return &p
}

// String renders the price, or an empty string when undefined.
func (l Level) String() string {
	if !l.Valid {
		return ""
	}
	return strconv.FormatFloat(l.Price, 'f', -1, 64)
}

// Value stores undefined levels as NULL.
func (l Level) Value() (driver.Value, error) {
	if !l.Valid {
		return nil, nil
	}
	return l.Price, nil
}

func (l Level) MarshalJSON() ([]byte, error) {
	if !l.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(l.Price)
}

// Histogram maps an exact traded price to the volume aggregated at it.
type Histogram map[float64]float64

// PriceVolume is one rung of a histogram's price ladder.
type PriceVolume struct {
	Price  float64
	Volume float64
}

// DailyProfile summarizes one calendar day's volume-at-price distribution.
// POC, VAL and VAH are all undefined when the day traded zero volume.
type DailyProfile struct {
	Date time.Time `json:"date"`
	POC  Level     `json:"poc"`
	VAL  Level     `json:"val"`
	VAH  Level     `json:"vah"`
}

// Defined reports whether the day produced a profile.
func (p DailyProfile) Defined() bool {
	return p.POC.Valid && p.VAL.Valid && p.VAH.Valid
}
