package feature

import (
	"errors"
	"math"
	"time"

	"VolumeSentinel/internal/model"
)

var (
	// ErrInsufficientHistory is returned when fewer than two days are available.
	ErrInsufficientHistory = errors.New("at least two trading days are required for lag features")
	// ErrNoValidRows is returned when every candidate row had an undefined input.
	ErrNoValidRows = errors.New("no complete feature rows")
)

// Session is one day's opening and closing price.
type Session struct {
	Date  time.Time
	Open  float64
	Close float64
}

// Sessions takes the first bar's open and the last bar's close of each day.
// The store keeps bars stably sorted by timestamp within a day.
func Sessions(store *model.BarStore) []Session {
	days := store.Days()
	out := make([]Session, 0, len(days))
	for _, d := range days {
		if len(d.Bars) == 0 {
			continue
		}
		out = append(out, Session{
			Date:  d.Date,
			Open:  d.Bars[0].Open,
			Close: d.Bars[len(d.Bars)-1].Close,
		})
	}
	return out
}

// Build joins each session with the previous day's profile and the next day's
// close. Rows with an undefined prior profile, no next day, or an undefined
// return are dropped. Output is in ascending date order.
func Build(store *model.BarStore, profiles []model.DailyProfile) ([]model.FeatureRow, error) {
	sessions := Sessions(store)
	if len(sessions) < 2 {
		return nil, ErrInsufficientHistory
	}

	byDate := make(map[time.Time]model.DailyProfile, len(profiles))
	for _, p := range profiles {
		byDate[p.Date] = p
	}

	rows := make([]model.FeatureRow, 0, len(sessions))
	for i := 1; i < len(sessions)-1; i++ {
		today, yesterday, tomorrow := sessions[i], sessions[i-1], sessions[i+1]

		prior, ok := byDate[yesterday.Date]
		if !ok || !prior.Defined() {
			continue
		}
		ret, ok := forwardReturn(today.Close, tomorrow.Close)
		if !ok {
			continue
		}

		rows = append(rows, model.FeatureRow{
			Date:              today.Date,
			PriorPOC:          prior.POC.Price,
			PriorVAL:          prior.VAL.Price,
			PriorVAH:          prior.VAH.Price,
			Open:              today.Open,
			PrevClose:         yesterday.Close,
			Close:             today.Close,
			NextClose:         tomorrow.Close,
			OpenAbovePriorVAL: above(today.Open, prior.VAL),
			OpenAbovePriorVAH: above(today.Open, prior.VAH),
			Return:            ret,
			Target:            label(ret),
		})
	}

	if len(rows) == 0 {
		return nil, ErrNoValidRows
	}
	return rows, nil
}

// above is 1 when price is strictly above a defined level.
func above(price float64, level model.Level) int {
	if price > level.Price {
		return 1
	}
	return 0
}

func forwardReturn(cur, next float64) (float64, bool) {
	if cur == 0 {
		return 0, false
	}
	r := (next - cur) / cur
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return r, true
}

// label is 1 only for a strictly positive return.
func label(ret float64) int {
	if ret > 0 {
		return 1
	}
	return 0
}

// Latest returns the most recent complete row.
func Latest(rows []model.FeatureRow) (model.FeatureRow, bool) {
	if len(rows) == 0 {
		return model.FeatureRow{}, false
	}
	return rows[len(rows)-1], true
}
