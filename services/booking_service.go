package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jadesdev/limo-drive/events"
	"github.com/jadesdev/limo-drive/models"
	"github.com/jadesdev/limo-drive/utils"
)

type QuoteKind string

const (
	QuoteKindDistance QuoteKind = "distance"
	QuoteKindHourly   QuoteKind = "hourly"
)

type QuoteRequest struct {
	ServiceType    string `json:"service_type" validate:"required"`
	PickupAddress  string `json:"pickup_address" validate:"required"`
	DropoffAddress string `json:"dropoff_address"`
	DurationHours  *int   `json:"duration_hours"`
	PassengerCount int    `json:"passenger_count" validate:"required,min=1"`
	BagCount       int    `json:"bag_count" validate:"min=0"`
}

type DistanceQuote struct {
	Fleet     models.Fleet
	Price     float64
	Breakdown DistanceBreakdown
}

type HourlyQuote struct {
	Fleet     models.Fleet
	Price     float64
	Hours     int
	Breakdown HourlyBreakdown
}

// QuoteResult holds either distance or hourly quotes, never both. Kind tells
// callers which slice is populated.
type QuoteResult struct {
	Kind     QuoteKind
	Route    *RouteInfo
	Distance []DistanceQuote
	Hourly   []HourlyQuote
}

// PriceForFleet returns the quoted price and billed hours for one fleet. The
// hours value is zero for distance quotes.
func (q *QuoteResult) PriceForFleet(fleetID uuid.UUID) (price float64, hours int, ok bool) {
	switch q.Kind {
	case QuoteKindDistance:
		for _, item := range q.Distance {
			if item.Fleet.ID == fleetID {
				return item.Price, 0, true
			}
		}
	case QuoteKindHourly:
		for _, item := range q.Hourly {
			if item.Fleet.ID == fleetID {
				return item.Price, item.Hours, true
			}
		}
	}
	return 0, 0, false
}

type PickupInput struct {
	Address   string    `json:"address" validate:"required"`
	Latitude  *string   `json:"latitude"`
	Longitude *string   `json:"longitude"`
	Datetime  time.Time `json:"datetime" validate:"required"`
}

type DropoffInput struct {
	Address   string  `json:"address" validate:"required"`
	Latitude  *string `json:"latitude"`
	Longitude *string `json:"longitude"`
}

type CreateBookingInput struct {
	FleetID        string        `json:"fleet_id" validate:"required,uuid4"`
	ServiceType    string        `json:"service_type" validate:"required"`
	DurationHours  *int          `json:"duration_hours"`
	Pickup         PickupInput   `json:"pickup" validate:"required"`
	Dropoff        *DropoffInput `json:"dropoff"`
	PassengerCount int           `json:"passenger_count" validate:"required,min=1"`
	BagCount       int           `json:"bag_count" validate:"min=0"`
	Customer       CustomerInput `json:"customer" validate:"required"`
	PaymentMethod  string        `json:"payment_method" validate:"required,oneof=stripe paypal cash"`
	Notes          *string       `json:"notes"`
}

type UpdateBookingInput struct {
	Pickup         *PickupInput   `json:"pickup"`
	Dropoff        *DropoffInput  `json:"dropoff"`
	PassengerCount *int           `json:"passenger_count" validate:"omitempty,min=1"`
	BagCount       *int           `json:"bag_count" validate:"omitempty,min=0"`
	PaymentMethod  *string        `json:"payment_method" validate:"omitempty,oneof=stripe paypal cash"`
	Notes          *string        `json:"notes"`
	Customer       *CustomerInput `json:"customer"`
}

type ListBookingsParams struct {
	Status      string
	ServiceType string
	Search      string
	From        *time.Time
	To          *time.Time
	Page        int
	Limit       int
}

type BookingService struct {
	db         *gorm.DB
	routes     *RouteService
	pricing    PricingCalculator
	customers  *CustomerService
	dispatcher *events.Dispatcher
}

func NewBookingService(db *gorm.DB, routes *RouteService, customers *CustomerService, dispatcher *events.Dispatcher) *BookingService {
	return &BookingService{
		db:         db,
		routes:     routes,
		customers:  customers,
		dispatcher: dispatcher,
	}
}

// GetQuote prices every fleet that can carry the party across one route
// lookup. Prices come from the stored fleet rates; client-supplied amounts
// are never trusted.
func (s *BookingService) GetQuote(ctx context.Context, req QuoteRequest) (*QuoteResult, error) {
	isDistance := models.IsDistanceService(req.ServiceType)
	isHourly := models.IsHourlyService(req.ServiceType)
	if !isDistance && !isHourly {
		return nil, ErrUnsupportedServiceType
	}
	if isHourly && (req.DurationHours == nil || *req.DurationHours < 1) {
		return nil, ErrDurationRequired
	}
	if isDistance && req.DropoffAddress == "" {
		return nil, &ValidationError{Field: "dropoff_address", Message: "A dropoff address is required for this service type."}
	}

	var fleets []models.Fleet
	err := s.db.
		Where("is_active = ?", true).
		Where("seats >= ?", req.PassengerCount).
		Where("bags >= ?", req.BagCount).
		Order("sort_order asc").
		Find(&fleets).Error
	if err != nil {
		return nil, err
	}
	if len(fleets) == 0 {
		return nil, ErrNoCapacityAvailable
	}

	if isDistance {
		route, err := s.routes.GetRouteInfo(ctx, req.PickupAddress, req.DropoffAddress)
		if err != nil {
			return nil, err
		}
		result := &QuoteResult{Kind: QuoteKindDistance, Route: &route}
		for _, fleet := range fleets {
			price := s.pricing.CalculateDistanceBasedPrice(fleet, route.DistanceMiles, req.ServiceType)
			result.Distance = append(result.Distance, DistanceQuote{
				Fleet:     fleet,
				Price:     price.Total,
				Breakdown: price.Breakdown,
			})
		}
		return result, nil
	}

	result := &QuoteResult{Kind: QuoteKindHourly}
	for _, fleet := range fleets {
		price := s.pricing.CalculateHourlyPrice(fleet, *req.DurationHours)
		result.Hourly = append(result.Hourly, HourlyQuote{
			Fleet:     fleet,
			Price:     price.Total,
			Hours:     price.Hours,
			Breakdown: price.Breakdown,
		})
	}
	return result, nil
}

// CreateBooking re-quotes the trip server side, freezes the matched price and
// persists the booking. Cash bookings confirm immediately; card and PayPal
// bookings wait in pending_payment until the gateway reports success.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*models.Booking, error) {
	fleetID, err := uuid.Parse(input.FleetID)
	if err != nil {
		return nil, ErrFleetNotAvailable
	}

	quoteReq := QuoteRequest{
		ServiceType:    input.ServiceType,
		PickupAddress:  input.Pickup.Address,
		DurationHours:  input.DurationHours,
		PassengerCount: input.PassengerCount,
		BagCount:       input.BagCount,
	}
	if input.Dropoff != nil {
		quoteReq.DropoffAddress = input.Dropoff.Address
	}
	quote, err := s.GetQuote(ctx, quoteReq)
	if err != nil {
		return nil, err
	}
	price, billedHours, ok := quote.PriceForFleet(fleetID)
	if !ok {
		return nil, ErrFleetNotAvailable
	}

	booking := &models.Booking{
		FleetID:         &fleetID,
		ServiceType:     input.ServiceType,
		PickupDatetime:  input.Pickup.Datetime,
		PickupAddress:   input.Pickup.Address,
		PickupLatitude:  input.Pickup.Latitude,
		PickupLongitude: input.Pickup.Longitude,
		PassengerCount:  input.PassengerCount,
		BagCount:        input.BagCount,
		Price:           price,
		PaymentMethod:   input.PaymentMethod,
		PaymentStatus:   models.PaymentStatusUnpaid,
		Notes:           input.Notes,
		Status:          models.BookingStatusPendingPayment,
	}
	if input.Dropoff != nil {
		booking.DropoffAddress = &input.Dropoff.Address
		booking.DropoffLatitude = input.Dropoff.Latitude
		booking.DropoffLongitude = input.Dropoff.Longitude
	}
	if models.IsHourlyService(input.ServiceType) {
		booking.DurationHours = &billedHours
	}
	if input.PaymentMethod == models.PaymentMethodCash {
		booking.Status = models.BookingStatusConfirmed
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		customer, err := s.customers.FindOrCreateCustomer(tx, input.Customer)
		if err != nil {
			return err
		}
		if customer != nil {
			booking.CustomerID = &customer.ID
		}

		code, err := utils.GenerateBookingCode(tx)
		if err != nil {
			return err
		}
		booking.Code = code

		if err := tx.Create(booking).Error; err != nil {
			return err
		}

		s.customers.UpdateCustomerStats(tx, customer)
		booking.Customer = customer
		return nil
	})
	if err != nil {
		return nil, err
	}

	if booking.Status == models.BookingStatusConfirmed {
		s.dispatcher.Dispatch(events.BookingConfirmed{Booking: booking})
	}
	return booking, nil
}

// GetBookingDetails accepts either the booking UUID or the public BK- code.
func (s *BookingService) GetBookingDetails(idOrCode string) (*models.Booking, error) {
	query := s.db.Preload("Fleet").Preload("Driver").Preload("Customer").Preload("Payments")

	var booking models.Booking
	var err error
	if id, parseErr := uuid.Parse(idOrCode); parseErr == nil {
		err = query.First(&booking, "id = ?", id).Error
	} else {
		err = query.First(&booking, "code = ?", idOrCode).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (s *BookingService) UpdateBooking(id string, input UpdateBookingInput) (*models.Booking, error) {
	booking, err := s.GetBookingDetails(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Pickup != nil {
		updates["pickup_address"] = input.Pickup.Address
		updates["pickup_latitude"] = input.Pickup.Latitude
		updates["pickup_longitude"] = input.Pickup.Longitude
		if !input.Pickup.Datetime.IsZero() {
			updates["pickup_datetime"] = input.Pickup.Datetime
		}
	}
	if input.Dropoff != nil {
		updates["dropoff_address"] = input.Dropoff.Address
		updates["dropoff_latitude"] = input.Dropoff.Latitude
		updates["dropoff_longitude"] = input.Dropoff.Longitude
	}
	if input.PassengerCount != nil {
		updates["passenger_count"] = *input.PassengerCount
	}
	if input.BagCount != nil {
		updates["bag_count"] = *input.BagCount
	}
	// the payment method can only change while nothing has been collected
	if input.PaymentMethod != nil && booking.PaymentStatus == models.PaymentStatusUnpaid {
		updates["payment_method"] = *input.PaymentMethod
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if input.Customer != nil {
			if err := s.customers.HandleCustomerUpdate(tx, booking, *input.Customer); err != nil {
				return err
			}
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(booking).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetBookingDetails(booking.ID.String())
}

func (s *BookingService) AssignDriver(bookingID, driverID string) (*models.Booking, error) {
	booking, err := s.GetBookingDetails(bookingID)
	if err != nil {
		return nil, err
	}

	var driver models.Driver
	err = s.db.Where("status = ?", "active").First(&driver, "id = ?", driverID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ValidationError{Field: "driver_id", Message: "The selected driver is not available."}
		}
		return nil, err
	}

	if err := s.db.Model(booking).Update("driver_id", driver.ID).Error; err != nil {
		return nil, err
	}
	booking.DriverID = &driver.ID
	booking.Driver = &driver

	s.dispatcher.Dispatch(events.DriverAssigned{Booking: booking, Driver: &driver})
	return booking, nil
}

// UpdateStatus moves a booking along the forward-only state flow and fires
// the matching lifecycle event.
func (s *BookingService) UpdateStatus(bookingID, status string) (*models.Booking, error) {
	booking, err := s.GetBookingDetails(bookingID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransitionBooking(booking.Status, status) {
		return nil, ErrInvalidStatusTransition
	}

	if err := s.db.Model(booking).Update("status", status).Error; err != nil {
		return nil, err
	}
	booking.Status = status

	switch status {
	case models.BookingStatusCompleted:
		s.dispatcher.Dispatch(events.TripCompleted{Booking: booking})
	case models.BookingStatusConfirmed:
		s.dispatcher.Dispatch(events.BookingConfirmed{Booking: booking})
	}
	return booking, nil
}

func (s *BookingService) ListBookings(params ListBookingsParams) ([]models.Booking, int64, error) {
	query := s.db.Model(&models.Booking{}).
		Preload("Fleet").Preload("Driver").Preload("Customer")

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.ServiceType != "" {
		query = query.Where("service_type = ?", params.ServiceType)
	}
	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where(
			"code ILIKE ? OR customer_id IN (SELECT id FROM customers WHERE email ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?)",
			like, like, like, like,
		)
	}
	if params.From != nil {
		query = query.Where("pickup_datetime >= ?", params.From)
	}
	if params.To != nil {
		query = query.Where("pickup_datetime <= ?", params.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var bookings []models.Booking
	err := query.
		Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&bookings).Error
	return bookings, total, err
}
