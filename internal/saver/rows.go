package saver

import (
	"time"

	"VolumeSentinel/internal/model"
)

const dateLayout = "2006-01-02"

// BarRow is the flat form of a bar (csv/parquet/json).
type BarRow struct {
	Timestamp int64   `json:"t" parquet:"t"` // Unix milliseconds
	Zone      string  `json:"tz,omitempty" parquet:"tz,optional"`
	Open      float64 `json:"o" parquet:"o"`
	High      float64 `json:"h" parquet:"h"`
	Low       float64 `json:"l" parquet:"l"`
	Close     float64 `json:"c" parquet:"c"`
	Volume    float64 `json:"v" parquet:"v"`
}

// ProfileRow is the flat form of a daily profile. Undefined levels are null.
type ProfileRow struct {
	Date string   `json:"date" parquet:"date"`
	POC  *float64 `json:"poc" parquet:"poc,optional"`
	VAL  *float64 `json:"val" parquet:"val,optional"`
	VAH  *float64 `json:"vah" parquet:"vah,optional"`
}

// FeatureRecord is the flat form of a feature row.
type FeatureRecord struct {
	Date              string  `json:"date" parquet:"date"`
	PriorPOC          float64 `json:"prior_poc" parquet:"prior_poc"`
	PriorVAL          float64 `json:"prior_val" parquet:"prior_val"`
	PriorVAH          float64 `json:"prior_vah" parquet:"prior_vah"`
	Open              float64 `json:"open" parquet:"open"`
	PrevClose         float64 `json:"prev_close" parquet:"prev_close"`
	Close             float64 `json:"close" parquet:"close"`
	NextClose         float64 `json:"next_close" parquet:"next_close"`
	OpenAbovePriorVAL int32   `json:"open_above_prior_val" parquet:"open_above_prior_val"`
	OpenAbovePriorVAH int32   `json:"open_above_prior_vah" parquet:"open_above_prior_vah"`
	Return            float64 `json:"return" parquet:"return"`
	Target            int32   `json:"target" parquet:"target"`
}

func BarRows(bars []model.Bar) []BarRow {
	rows := make([]BarRow, len(bars))
	for i, b := range bars {
		rows[i] = BarRow{
			Timestamp: b.Time.UnixMilli(),
			Zone:      b.Time.Location().String(),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
		}
	}
	return rows
}

// BarsFromRows restores bars. Unknown zones fall back to fallback (UTC when nil).
func BarsFromRows(rows []BarRow, fallback *time.Location) []model.Bar {
	if fallback == nil {
		fallback = time.UTC
	}
	zones := map[string]*time.Location{}
	bars := make([]model.Bar, len(rows))
	for i, r := range rows {
		loc, ok := zones[r.Zone]
		if !ok {
			loc = fallback
			if r.Zone != "" {
				if l, err := time.LoadLocation(r.Zone); err == nil {
					loc = l
				}
			}
			zones[r.Zone] = loc
		}
		bars[i] = model.Bar{
			Time:   time.UnixMilli(r.Timestamp).In(loc),
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		}
	}
	return bars
}

func ProfileRows(profiles []model.DailyProfile) []ProfileRow {
	rows := make([]ProfileRow, len(profiles))
	for i, p := range profiles {
		rows[i] = ProfileRow{
			Date: p.Date.Format(dateLayout),
			POC:  p.POC.Ptr(),
			VAL:  p.VAL.Ptr(),
			VAH:  p.VAH.Ptr(),
		}
	}
	return rows
}

func FeatureRecords(rows []model.FeatureRow) []FeatureRecord {
	out := make([]FeatureRecord, len(rows))
	for i, r := range rows {
		out[i] = FeatureRecord{
			Date:              r.Date.Format(dateLayout),
			PriorPOC:          r.PriorPOC,
			PriorVAL:          r.PriorVAL,
			PriorVAH:          r.PriorVAH,
			Open:              r.Open,
			PrevClose:         r.PrevClose,
			Close:             r.Close,
			NextClose:         r.NextClose,
			OpenAbovePriorVAL: int32(r.OpenAbovePriorVAL),
			OpenAbovePriorVAH: int32(r.OpenAbovePriorVAH),
			Return:            r.Return,
			Target:            int32(r.Target),
		}
	}
	return out
}
