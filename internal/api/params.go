package api

import (
	"net/url"
	"strconv"

	"frontdesk/internal/models"
)

// Params are the caller-supplied list options for reservation queries.
// Zero values mean "not set".
type Params struct {
	Page  int
	Limit int

	SortBy string
	Order  string

	Status       int64
	HotelID      int64
	Name         string
	NameLike     string
	StartDateGTE string
	EndDateLTE   string

	// Extra filter keys are forwarded verbatim.
	Extra map[string]string
}

// Values normalizes the params into the backend's query shape:
// page and limit travel only as a pair, a sort key implies an order
// (ascending by default), every other filter passes through untouched.
func (p *Params) Values() url.Values {
	values := url.Values{}
	if p == nil {
		return values
	}

	if p.Page > 0 && p.Limit > 0 {
		values.Set("page", strconv.Itoa(p.Page))
		values.Set("limit", strconv.Itoa(p.Limit))
	}

	if p.SortBy != "" {
		values.Set("sortBy", p.SortBy)
		order := p.Order
		if order == "" {
			order = models.DefaultSortOrder
		}
		values.Set("order", order)
	}

	if p.Status != 0 {
		values.Set("status", strconv.FormatInt(p.Status, 10))
	}
	if p.HotelID != 0 {
		values.Set("hotel_id", strconv.FormatInt(p.HotelID, 10))
	}
	if p.Name != "" {
		values.Set("name", p.Name)
	}
	if p.NameLike != "" {
		values.Set("name_like", p.NameLike)
	}
	if p.StartDateGTE != "" {
		values.Set("start_date_gte", p.StartDateGTE)
	}
	if p.EndDateLTE != "" {
		values.Set("end_date_lte", p.EndDateLTE)
	}

	for key, value := range p.Extra {
		switch key {
		case "page", "limit", "sortBy", "order":
			// Pagination and sort keys never bypass normalization
		default:
			values.Set(key, value)
		}
	}

	return values
}
