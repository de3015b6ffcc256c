package donation

import "time"

const (
	StatusAvailable = "AVAILABLE"
	StatusReserved  = "RESERVED"
	StatusPickedUp  = "PICKED_UP"
	StatusExpired   = "EXPIRED"
)

var FoodTypes = []string{"cooked", "vegetables", "fruits", "bakery", "packaged"}

// KgPerPerson converts rescued food into the "people fed" figure.
const KgPerPerson = 0.8

type Donation struct {
	ID          string    `json:"id"`
	DonorID     string    `json:"donor_id"`
	FoodType    string    `json:"food_type"`
	QuantityKg  float64   `json:"quantity_kg"`
	ExpiryHours int       `json:"expiry_hours"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	PhotoURL    *string   `json:"photo_url"`
	Status      string    `json:"status"`
	ReservedBy  *string   `json:"reserved_by"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateInput struct {
	FoodType    string  `json:"food_type" binding:"required,oneof=cooked vegetables fruits bakery packaged"`
	QuantityKg  float64 `json:"quantity_kg" binding:"required,gt=0"`
	ExpiryHours int     `json:"expiry_hours" binding:"required,gt=0,lte=168"`
	Location    string  `json:"location" binding:"required"`
	Description string  `json:"description" binding:"max=1000"`
}

// Listing is an available donation as an NGO sees it.
type Listing struct {
	*Donation
	HoursLeft float64 `json:"hours_left"`
	Urgency   string  `json:"urgency"`
}

type Impact struct {
	TotalDonations int     `json:"total_donations"`
	FoodSavedKg    float64 `json:"food_saved_kg"`
	PeopleFed      int     `json:"people_fed"`
}
