package catalog

import (
	"context"
	"errors"
	"time"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/modules/pricing"
	"hotelbooking/internal/repository"
)

var (
	ErrHotelNotFound = errors.New("hotel not found")
	ErrRoomNotFound  = errors.New("room not found")
	ErrInvalidStay   = errors.New("check-out must be after check-in")
)

// Service is the read surface over hotels, rooms and rate plans.
type Service struct {
	hotels   *repository.HotelRepository
	rooms    *repository.RoomRepository
	plans    *repository.RatePlanRepository
	bookings *repository.BookingRepository
	pricing  *pricing.Engine
}

func NewService(
	hotels *repository.HotelRepository,
	rooms *repository.RoomRepository,
	plans *repository.RatePlanRepository,
	bookings *repository.BookingRepository,
	pricingEngine *pricing.Engine,
) *Service {
	return &Service{
		hotels:   hotels,
		rooms:    rooms,
		plans:    plans,
		bookings: bookings,
		pricing:  pricingEngine,
	}
}

func (s *Service) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	return s.hotels.List(ctx)
}

func (s *Service) GetHotel(ctx context.Context, id int64) (*domain.Hotel, error) {
	h, err := s.hotels.GetByID(ctx, id)
	if err != nil {
		return nil, ErrHotelNotFound
	}
	return h, nil
}

// ListRooms returns a hotel's active rooms. When a stay window is given,
// rooms with a blocking booking in that window are filtered out.
func (s *Service) ListRooms(ctx context.Context, hotelID int64, checkIn, checkOut *time.Time) ([]domain.Room, error) {
	if _, err := s.hotels.GetByID(ctx, hotelID); err != nil {
		return nil, ErrHotelNotFound
	}
	rooms, err := s.rooms.ListByHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	if checkIn == nil || checkOut == nil {
		return rooms, nil
	}
	if !checkOut.After(*checkIn) {
		return nil, ErrInvalidStay
	}

	available := make([]domain.Room, 0, len(rooms))
	for _, room := range rooms {
		n, err := s.bookings.CountOverlapping(ctx, room.ID, *checkIn, *checkOut, 0)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			available = append(available, room)
		}
	}
	return available, nil
}

func (s *Service) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

func (s *Service) ListRatePlans(ctx context.Context, roomTypeID int64) ([]domain.RatePlan, error) {
	return s.plans.ListByRoomType(ctx, roomTypeID)
}

func (s *Service) ListRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	return s.hotels.ListRoomTypes(ctx)
}

// Quote prices a stay for a room without creating anything. It resolves the
// same rate plan a booking would snapshot, so quoted totals match booked ones.
func (s *Service) Quote(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (*StayQuote, error) {
	if !checkOut.After(checkIn) {
		return nil, ErrInvalidStay
	}
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil || room.RoomType == nil {
		return nil, ErrRoomNotFound
	}

	plan, err := s.pricing.ResolvePlan(ctx, room.RoomType, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	total := s.pricing.ComputeTotal(plan, room.RoomType, checkIn, checkOut)
	nights := int(checkOut.Sub(checkIn).Hours() / 24)

	return &StayQuote{
		RoomID:        room.ID,
		RatePlanID:    plan.ID,
		RatePlanName:  plan.Name,
		RatePlanType:  string(plan.Type),
		Nights:        nights,
		PricePerNight: plan.PricePerNight,
		Total:         total,
	}, nil
}
