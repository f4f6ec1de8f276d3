package models

// Reservation mirrors the remote API representation of a booking.
// Identifier and creation timestamp are assigned server-side; dates and
// the fee travel as strings, matching the backend's JSON shape.
type Reservation struct {
	ID        string `json:"id"`
	CreatedAt string `json:"createdAt"`
	Name      string `json:"name"`
	Surname   string `json:"surname"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	TotalFee  string `json:"total_fee"`
	Status    int64  `json:"status"`
	HotelID   int64  `json:"hotel_id"`
}

// GuestName returns the guest's full name for display and export.
func (r *Reservation) GuestName() string {
	if r.Surname == "" {
		return r.Name
	}
	return r.Name + " " + r.Surname
}
