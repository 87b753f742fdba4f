package domain

import "time"

type Hotel struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:255;not null" json:"name" validate:"required"`
	City        string `gorm:"size:128" json:"city"`
	Address     string `gorm:"type:text" json:"address"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Rooms []Room `gorm:"foreignKey:HotelID" json:"rooms,omitempty"`
}

func (Hotel) TableName() string { return "hotels" }

type RoomType struct {
	ID          int64   `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"size:128;not null" json:"name" validate:"required"`
	Description string  `gorm:"type:text" json:"description,omitempty"`
	BasePrice   float64 `gorm:"not null" json:"base_price" validate:"gte=0"`
	Capacity    int     `gorm:"not null" json:"capacity" validate:"gt=0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RoomType) TableName() string { return "room_types" }

type Room struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	HotelID    int64  `gorm:"index;not null" json:"hotel_id" validate:"required"`
	RoomTypeID int64  `gorm:"index;not null" json:"room_type_id" validate:"required"`
	Number     string `gorm:"size:32;not null" json:"number" validate:"required"`
	Floor      int    `json:"floor"`
	Capacity   int    `gorm:"not null" json:"capacity" validate:"gt=0"`
	IsActive   bool   `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RoomType *RoomType `gorm:"foreignKey:RoomTypeID" json:"room_type,omitempty"`
}

func (Room) TableName() string { return "rooms" }

// Guest is the booking-facing identity of a user.
type Guest struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	UserID   int64  `gorm:"uniqueIndex;not null" json:"user_id"`
	FullName string `gorm:"size:255" json:"full_name"`
	Email    string `gorm:"size:255" json:"email"`
	Phone    string `gorm:"size:32" json:"phone,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Guest) TableName() string { return "guests" }
