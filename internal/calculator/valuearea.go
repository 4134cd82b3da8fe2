package calculator

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"VolumeSentinel/internal/model"
)

// DefaultValueArea is the fraction of daily volume covered by the value area.
const DefaultValueArea = 0.70

// Method selects how price levels are added to the value area.
type Method string

const (
	// MethodGreedy ranks levels by volume (POC first) regardless of price adjacency.
	// VAL/VAH are then the envelope of the selected levels, which may contain gaps.
	MethodGreedy Method = "greedy"
	// MethodContiguous grows a gap-free band outward from the POC, taking the
	// heavier neighbour at each step.
	MethodContiguous Method = "contiguous"
)

var (
	// ErrInvalidThreshold is returned when the value area fraction is outside (0, 1].
	ErrInvalidThreshold = errors.New("value area threshold must be in (0, 1]")
	// ErrInvalidVolume is returned when a price level is non-finite or carries a
	// negative or non-finite volume.
	ErrInvalidVolume = errors.New("price and volume must be finite, volume non-negative")
)

// ValidateThreshold checks the value area fraction.
func ValidateThreshold(theta float64) error {
	if math.IsNaN(theta) || theta <= 0 || theta > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidThreshold, theta)
	}
	return nil
}

// ParseMethod maps a config string to a Method. Empty selects MethodGreedy.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case "", MethodGreedy:
		return MethodGreedy, nil
	case MethodContiguous:
		return MethodContiguous, nil
	default:
		return "", fmt.Errorf("unknown value area method %q", s)
	}
}

// ValueArea is the resolved POC and value area band of one histogram.
type ValueArea struct {
	POC model.Level
	VAL model.Level
	VAH model.Level
}

// ResolveValueArea finds the POC and the value area covering theta of the total volume.
// A histogram with zero total volume yields all-undefined levels.
func ResolveValueArea(h model.Histogram, theta float64, method Method) (ValueArea, error) {
	if err := ValidateThreshold(theta); err != nil {
		return ValueArea{}, err
	}
	ladder := Ladder(h)
	for _, l := range ladder {
		if !finite(l.Price) || !finite(l.Volume) || l.Volume < 0 {
			return ValueArea{}, fmt.Errorf("%w: %v at price %v", ErrInvalidVolume, l.Volume, l.Price)
		}
	}
	total := TotalVolume(ladder)
	if math.IsInf(total, 0) {
		return ValueArea{}, fmt.Errorf("%w: total overflows", ErrInvalidVolume)
	}
	if len(ladder) == 0 || total <= 0 {
		return ValueArea{}, nil
	}

	poc := pointOfControl(ladder)
	target := theta * total

	var lo, hi float64
	switch method {
	case MethodContiguous:
		lo, hi = expandContiguous(ladder, poc, target)
	case MethodGreedy, "":
		lo, hi = selectGreedy(ladder, poc, target)
	default:
		return ValueArea{}, fmt.Errorf("unknown value area method %q", method)
	}

	return ValueArea{
		POC: model.Defined(ladder[poc].Price),
		VAL: model.Defined(lo),
		VAH: model.Defined(hi),
	}, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// pointOfControl returns the ladder index of the maximum volume.
// Equal maxima resolve to the lowest price.
func pointOfControl(ladder []model.PriceVolume) int {
	best := 0
	for i := 1; i < len(ladder); i++ {
		if ladder[i].Volume > ladder[best].Volume {
			best = i
		}
	}
	return best
}

// VolumeRanking orders ladder indices by volume descending, equal volumes by
// ascending price, with the POC moved to the front.
func VolumeRanking(ladder []model.PriceVolume, poc int) []int {
	rank := make([]int, 0, len(ladder))
	for i := range ladder {
		if i != poc {
			rank = append(rank, i)
		}
	}
	sort.SliceStable(rank, func(a, b int) bool {
		return ladder[rank[a]].Volume > ladder[rank[b]].Volume
	})
	return append([]int{poc}, rank...)
}

func selectGreedy(ladder []model.PriceVolume, poc int, target float64) (lo, hi float64) {
	lo, hi = ladder[poc].Price, ladder[poc].Price
	cum := 0.0
	for _, i := range VolumeRanking(ladder, poc) {
		cum += ladder[i].Volume
		lo = math.Min(lo, ladder[i].Price)
		hi = math.Max(hi, ladder[i].Price)
		if cum >= target {
			break
		}
	}
	return lo, hi
}

func expandContiguous(ladder []model.PriceVolume, poc int, target float64) (lo, hi float64) {
	l, h := poc, poc
	cum := ladder[poc].Volume
	for cum < target && (l > 0 || h < len(ladder)-1) {
		up, down := -1.0, -1.0
		if h < len(ladder)-1 {
			up = ladder[h+1].Volume
		}
		if l > 0 {
			down = ladder[l-1].Volume
		}
		if up >= down {
			h++
			cum += up
		} else {
			l--
			cum += down
		}
	}
	return ladder[l].Price, ladder[h].Price
}
