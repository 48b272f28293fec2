package services

import (
	"math"

	"github.com/jadesdev/limo-drive/models"
)

// StandardSurcharge is the flat amount added to every quote.
const StandardSurcharge = 20.00

// PricingCalculator is pure and stateless; inputs are validated upstream.
type PricingCalculator struct{}

type DistanceBreakdown struct {
	BaseFare   float64 `json:"base_fare"`
	Surcharges float64 `json:"surcharges"`
	Total      float64 `json:"total"`
}

type HourlyBreakdown struct {
	BaseFare   float64 `json:"base_fare"`
	Surcharges float64 `json:"surcharges"`
	HourlyRate float64 `json:"hourly_rate"`
	TotalHours int     `json:"total_hours"`
	Total      float64 `json:"total"`
}

type DistancePrice struct {
	Total     float64
	Breakdown DistanceBreakdown
}

type HourlyPrice struct {
	Total float64
	// Hours is the billed hour count after the fleet's minimum-hours floor;
	// callers must display this, not the requested value.
	Hours     int
	Breakdown HourlyBreakdown
}

func (PricingCalculator) CalculateDistanceBasedPrice(fleet models.Fleet, distanceMiles float64, serviceType string) DistancePrice {
	mileageCost := fleet.RatePerMile * distanceMiles
	baseFare := fleet.BaseFee + mileageCost
	subtotal := baseFare + StandardSurcharge

	total := subtotal
	if serviceType == models.ServiceRoundTrip {
		total = subtotal * 2
	}

	return DistancePrice{
		Total: round2(total),
		Breakdown: DistanceBreakdown{
			BaseFare:   round2(baseFare),
			Surcharges: round2(StandardSurcharge),
			Total:      round2(total),
		},
	}
}

func (PricingCalculator) CalculateHourlyPrice(fleet models.Fleet, requestedHours int) HourlyPrice {
	bookingHours := requestedHours
	if bookingHours < fleet.MinimumHours {
		bookingHours = fleet.MinimumHours
	}

	hourlyCost := fleet.RatePerHour * float64(bookingHours)
	total := hourlyCost + StandardSurcharge

	return HourlyPrice{
		Total: round2(total),
		Hours: bookingHours,
		Breakdown: HourlyBreakdown{
			BaseFare:   round2(hourlyCost),
			Surcharges: round2(StandardSurcharge),
			HourlyRate: round2(fleet.RatePerHour),
			TotalHours: bookingHours,
			Total:      round2(total),
		},
	}
}

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
