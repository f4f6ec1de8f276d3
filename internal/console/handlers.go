package console

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"frontdesk/internal/api"
	"frontdesk/internal/guard"
	"frontdesk/internal/httperr"
	"frontdesk/internal/models"
	"frontdesk/internal/session"
	"frontdesk/internal/worker"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(body.Email) == "" || body.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	if !s.sessions.Login(body.Email, body.Password) {
		writeError(w, http.StatusUnauthorized, s.sessions.Error())
		return
	}

	s.router.Navigate(guard.RouteHome)
	writeJSON(w, http.StatusOK, map[string]any{
		"user":  s.sessions.CurrentUser(),
		"route": s.router.Current(),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.sessions.Logout()
	s.router.Navigate(guard.RouteLogin)
	writeJSON(w, http.StatusOK, map[string]any{"route": s.router.Current()})
}

// handleSession reports the restored session state without requiring
// authentication; an anonymous caller sees authenticated=false.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.sessions.CheckAuth()
	snapshot := s.sessions.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": snapshot.Authenticated,
		"user":          snapshot.User,
		"capabilities": map[string]bool{
			"create_reservation":  session.CanCreateReservation(snapshot),
			"delete_reservation":  session.CanDeleteReservation(snapshot),
			"update_reservation":  session.CanUpdateReservation(snapshot),
			"update_status":       session.CanUpdateReservationStatus(snapshot),
			"manage_all_hotels":   session.CanManageAllHotels(snapshot),
			"manage_reservations": session.CanManageReservations(snapshot),
		},
	})
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	target := guard.RouteName(strings.TrimSpace(r.URL.Query().Get("to")))
	if target == "" {
		writeError(w, http.StatusBadRequest, "to is required")
		return
	}

	resolved := s.router.Navigate(target)
	writeJSON(w, http.StatusOK, map[string]any{
		"requested":  target,
		"resolved":   resolved,
		"redirected": resolved != target,
	})
}

func (s *Server) handleReservations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listReservations(w, r)
	case http.MethodPost:
		s.createReservation(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listReservations(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := s.requireSession(w)
	if !ok {
		return
	}

	params := listParams(r)
	// Receptionists only ever see their own hotel.
	if !session.CanManageAllHotels(snapshot) {
		params.HotelID = session.UserHotelID(snapshot)
	}

	s.reservations.Fetch(r.Context(), params)
	writeJSON(w, http.StatusOK, map[string]any{
		"reservations": s.reservations.Reservations(),
		"total_count":  s.reservations.TotalCount(),
		"error":        s.reservations.Error(),
	})
}

func (s *Server) createReservation(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := s.requireSession(w)
	if !ok {
		return
	}
	if !session.CanCreateReservation(snapshot) {
		writeError(w, http.StatusForbidden, "administrator role required")
		return
	}

	var draft api.ReservationDraft
	if err := decodeJSON(r, &draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !models.ValidStatus(draft.Status) {
		writeError(w, http.StatusBadRequest, "unknown status code")
		return
	}

	created, err := s.reservations.Create(r.Context(), &draft)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleReservationByID(w http.ResponseWriter, r *http.Request) {
	id, action, ok := reservationPath(r.URL.Path)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if action == "status" {
		s.updateReservationStatus(w, r, id)
		return
	}
	if action != "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getReservation(w, r, id)
	case http.MethodPut:
		s.updateReservation(w, r, id)
	case http.MethodDelete:
		s.deleteReservation(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) getReservation(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := s.requireSession(w); !ok {
		return
	}

	reservation, err := s.reservations.FetchOne(r.Context(), id)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

func (s *Server) updateReservation(w http.ResponseWriter, r *http.Request, id string) {
	snapshot, ok := s.requireSession(w)
	if !ok {
		return
	}
	if !session.CanUpdateReservation(snapshot) {
		writeError(w, http.StatusForbidden, "not allowed")
		return
	}

	var patch map[string]any
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(patch) == 0 {
		writeError(w, http.StatusBadRequest, "empty patch")
		return
	}
	if !patchAllowed(snapshot, patch) {
		writeError(w, http.StatusForbidden, "hotel not allowed")
		return
	}
	if !patchStatusValid(patch) {
		writeError(w, http.StatusBadRequest, "unknown status code")
		return
	}

	updated, err := s.reservations.Update(r.Context(), id, patch)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) updateReservationStatus(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	snapshot, ok := s.requireSession(w)
	if !ok {
		return
	}
	if !session.CanUpdateReservationStatus(snapshot) {
		writeError(w, http.StatusForbidden, "not allowed")
		return
	}

	var body struct {
		Status int64 `json:"status"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !models.ValidStatus(body.Status) {
		writeError(w, http.StatusBadRequest, "unknown status code")
		return
	}

	updated, err := s.reservations.UpdateStatus(r.Context(), id, body.Status)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteReservation(w http.ResponseWriter, r *http.Request, id string) {
	snapshot, ok := s.requireSession(w)
	if !ok {
		return
	}
	if !session.CanDeleteReservation(snapshot) {
		writeError(w, http.StatusForbidden, "administrator role required")
		return
	}

	if err := s.reservations.Delete(r.Context(), id); err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (s *Server) handleHotels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if _, ok := s.requireSession(w); !ok {
		return
	}

	s.hotels.Fetch(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"hotels": s.hotels.Hotels(),
		"error":  s.hotels.Error(),
	})
}

func (s *Server) handleHotelByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if _, ok := s.requireSession(w); !ok {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/console/v1/hotels/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	hotel, err := s.hotels.FetchOne(r.Context(), id)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hotel)
}

func (s *Server) handleStatuses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if _, ok := s.requireSession(w); !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"statuses": s.statuses.Statuses()})
}

func (s *Server) handleExports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if _, ok := s.requireSession(w); !ok {
		return
	}
	if s.exports == nil {
		writeError(w, http.StatusServiceUnavailable, "exports are not configured")
		return
	}

	if err := s.exports.Enqueue(worker.ExportTask{Type: worker.TaskWorkbook, CreatedAt: time.Now()}); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "scheduled"})
}

// listParams maps the browser's query string into backend list options.
// Known keys become typed fields; anything else passes through Extra.
func listParams(r *http.Request) *api.Params {
	query := r.URL.Query()
	params := &api.Params{
		SortBy:       query.Get("sortBy"),
		Order:        query.Get("order"),
		Name:         query.Get("name"),
		NameLike:     query.Get("name_like"),
		StartDateGTE: query.Get("start_date_gte"),
		EndDateLTE:   query.Get("end_date_lte"),
	}
	params.Page, _ = strconv.Atoi(query.Get("page"))
	params.Limit, _ = strconv.Atoi(query.Get("limit"))
	params.Status, _ = strconv.ParseInt(query.Get("status"), 10, 64)
	params.HotelID, _ = strconv.ParseInt(query.Get("hotel_id"), 10, 64)

	known := map[string]bool{
		"page": true, "limit": true, "sortBy": true, "order": true,
		"status": true, "hotel_id": true, "name": true, "name_like": true,
		"start_date_gte": true, "end_date_lte": true,
	}
	for key, vals := range query {
		if known[key] || len(vals) == 0 {
			continue
		}
		if params.Extra == nil {
			params.Extra = make(map[string]string)
		}
		params.Extra[key] = vals[0]
	}
	return params
}

// patchAllowed rejects a receptionist moving a reservation into a
// foreign hotel. Patches without a hotel_id key stay in scope by
// construction.
func patchAllowed(snapshot session.Session, patch map[string]any) bool {
	raw, ok := patch["hotel_id"]
	if !ok {
		return true
	}

	var hotelID int64
	switch v := raw.(type) {
	case float64:
		hotelID = int64(v)
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return false
		}
		hotelID = parsed
	default:
		return false
	}
	return session.CanManageHotelReservations(snapshot, hotelID)
}

// patchStatusValid rejects a patch moving a reservation outside the
// closed status set. Patches without a status key pass.
func patchStatusValid(patch map[string]any) bool {
	raw, ok := patch["status"]
	if !ok {
		return true
	}
	switch v := raw.(type) {
	case float64:
		return models.ValidStatus(int64(v))
	case int64:
		return models.ValidStatus(v)
	default:
		return false
	}
}

func reservationPath(path string) (id, action string, ok bool) {
	rest := strings.TrimPrefix(path, "/console/v1/reservations/")
	if rest == path || rest == "" {
		return "", "", false
	}
	parts := strings.SplitN(rest, "/", 2)
	id = strings.TrimSpace(parts[0])
	if id == "" {
		return "", "", false
	}
	if len(parts) == 2 {
		action = parts[1]
	}
	return id, action, true
}

func decodeJSON(r *http.Request, out any) error {
	decoder := json.NewDecoder(r.Body)
	return decoder.Decode(out)
}

// writeBackendError translates a re-raised backend failure into the
// console's own response. Transport failures surface as 502.
func writeBackendError(w http.ResponseWriter, err error) {
	code := httperr.StatusCode(err)
	if code == 0 {
		writeError(w, http.StatusBadGateway, "backend unavailable")
		return
	}
	writeError(w, code, err.Error())
}
