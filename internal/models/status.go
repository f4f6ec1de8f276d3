package models

// Reservation status codes. The set is closed and not persisted remotely.
const (
	StatusApproved int64 = 1
	StatusPending  int64 = 2
	StatusCanceled int64 = 3
)

// Status is one entry of the static status table.
type Status struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

var statuses = []Status{
	{ID: StatusApproved, Title: "APPROVED"},
	{ID: StatusPending, Title: "PENDING"},
	{ID: StatusCanceled, Title: "CANCELED"},
}

// Statuses returns the full status table in a copy the caller may mutate.
func Statuses() []Status {
	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

// StatusByID looks up a status by its numeric code.
func StatusByID(id int64) (Status, bool) {
	for _, s := range statuses {
		if s.ID == id {
			return s, true
		}
	}
	return Status{}, false
}

// StatusByTitle looks up a status by its title.
func StatusByTitle(title string) (Status, bool) {
	for _, s := range statuses {
		if s.Title == title {
			return s, true
		}
	}
	return Status{}, false
}

// ValidStatus reports whether id is one of the three known codes.
func ValidStatus(id int64) bool {
	_, ok := StatusByID(id)
	return ok
}
