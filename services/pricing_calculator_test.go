package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jadesdev/limo-drive/models"
)

func testFleet() models.Fleet {
	return models.Fleet{
		Name:         "Executive Sedan",
		BaseFee:      50,
		RatePerMile:  3.50,
		RatePerHour:  85,
		MinimumHours: 3,
	}
}

func TestCalculateDistanceBasedPrice(t *testing.T) {
	var calc PricingCalculator
	fleet := testFleet()

	price := calc.CalculateDistanceBasedPrice(fleet, 20, models.ServicePointToPoint)

	// 50 + 3.50*20 + 20 = 140
	assert.Equal(t, 140.00, price.Total)
	assert.Equal(t, 120.00, price.Breakdown.BaseFare)
	assert.Equal(t, 20.00, price.Breakdown.Surcharges)
	assert.Equal(t, price.Total, price.Breakdown.Total)
}

func TestCalculateDistanceBasedPriceRoundTripDoubles(t *testing.T) {
	var calc PricingCalculator
	fleet := testFleet()

	oneWay := calc.CalculateDistanceBasedPrice(fleet, 20, models.ServicePointToPoint)
	roundTrip := calc.CalculateDistanceBasedPrice(fleet, 20, models.ServiceRoundTrip)

	assert.Equal(t, oneWay.Total*2, roundTrip.Total)
}

func TestCalculateDistanceBasedPriceRoundsToCents(t *testing.T) {
	var calc PricingCalculator
	fleet := testFleet()
	fleet.RatePerMile = 3.33

	price := calc.CalculateDistanceBasedPrice(fleet, 7.77, models.ServiceAirportPickup)

	assert.InDelta(t, price.Total, float64(int(price.Total*100+0.5))/100, 0.0001)
}

func TestCalculateDistanceBasedPriceIsMonotonicInDistance(t *testing.T) {
	var calc PricingCalculator
	fleet := testFleet()

	short := calc.CalculateDistanceBasedPrice(fleet, 5, models.ServicePointToPoint)
	long := calc.CalculateDistanceBasedPrice(fleet, 45, models.ServicePointToPoint)

	assert.Greater(t, long.Total, short.Total)
}

func TestCalculateHourlyPrice(t *testing.T) {
	var calc PricingCalculator
	fleet := testFleet()

	price := calc.CalculateHourlyPrice(fleet, 5)

	// 85*5 + 20 = 445
	assert.Equal(t, 445.00, price.Total)
	assert.Equal(t, 5, price.Hours)
	assert.Equal(t, 85.00, price.Breakdown.HourlyRate)
	assert.Equal(t, 5, price.Breakdown.TotalHours)
}

func TestCalculateHourlyPriceEnforcesMinimumHours(t *testing.T) {
	var calc PricingCalculator
	fleet := testFleet()

	price := calc.CalculateHourlyPrice(fleet, 1)

	// billed at the 3 hour minimum: 85*3 + 20 = 275
	assert.Equal(t, 275.00, price.Total)
	assert.Equal(t, 3, price.Hours)
	assert.Equal(t, 3, price.Breakdown.TotalHours)
}

func TestCalculateHourlyPriceAtExactMinimum(t *testing.T) {
	var calc PricingCalculator
	fleet := testFleet()

	price := calc.CalculateHourlyPrice(fleet, 3)

	assert.Equal(t, 275.00, price.Total)
	assert.Equal(t, 3, price.Hours)
}
