package session

import "frontdesk/internal/models"

// Session is an immutable snapshot of the current authentication state.
// Capability predicates take it explicitly instead of reaching into the
// store, so policy stays testable without hidden state.
type Session struct {
	User          *models.User
	Authenticated bool
}

func IsAdmin(s Session) bool {
	return s.Authenticated && s.User.IsAdmin()
}

func IsReceptionist(s Session) bool {
	return s.Authenticated && s.User.IsReceptionist()
}

// UserHotelID returns the bound hotel for receptionists, 0 otherwise.
func UserHotelID(s Session) int64 {
	if s.User == nil {
		return 0
	}
	return s.User.HotelID
}

func CanManageAllHotels(s Session) bool {
	return IsAdmin(s)
}

func CanCreateReservation(s Session) bool {
	return IsAdmin(s)
}

func CanDeleteReservation(s Session) bool {
	return IsAdmin(s)
}

// Any authenticated role may update reservations and their status.
func CanUpdateReservation(s Session) bool {
	return s.Authenticated
}

func CanUpdateReservationStatus(s Session) bool {
	return s.Authenticated
}

func CanManageReservations(s Session) bool {
	return s.Authenticated
}

// CanManageHotelReservations is true for admins unconditionally and for
// receptionists bound to the given hotel.
func CanManageHotelReservations(s Session, hotelID int64) bool {
	if IsAdmin(s) {
		return true
	}
	if IsReceptionist(s) {
		return s.User.HotelID == hotelID
	}
	return false
}
