package guard

// RouteName identifies a console page.
type RouteName string

const (
	RouteHome              RouteName = "Home"
	RouteLogin             RouteName = "Login"
	RouteReservationList   RouteName = "ReservationList"
	RouteReservationCreate RouteName = "ReservationCreate"
	RouteReservationEdit   RouteName = "ReservationEdit"
	RouteHotelList         RouteName = "HotelList"
	RouteNotFound          RouteName = "NotFound"
)

// Route is one entry of the navigation table.
type Route struct {
	Name          RouteName
	Path          string
	RequiresAuth  bool
	RequiresAdmin bool
}

var routes = []Route{
	{Name: RouteHome, Path: "/", RequiresAuth: true},
	{Name: RouteLogin, Path: "/login"},
	{Name: RouteReservationList, Path: "/reservations", RequiresAuth: true},
	{Name: RouteReservationCreate, Path: "/reservations/create", RequiresAuth: true, RequiresAdmin: true},
	{Name: RouteReservationEdit, Path: "/reservations/:id/edit", RequiresAuth: true},
	{Name: RouteHotelList, Path: "/hotels", RequiresAuth: true, RequiresAdmin: true},
	{Name: RouteNotFound, Path: "/:pathMatch(.*)*"},
}

// Routes returns the navigation table.
func Routes() []Route {
	out := make([]Route, len(routes))
	copy(out, routes)
	return out
}

// RouteByName resolves a route; unknown names fall through to NotFound.
func RouteByName(name RouteName) Route {
	for _, r := range routes {
		if r.Name == name {
			return r
		}
	}
	return Route{Name: RouteNotFound}
}
