package server

import (
	"errors"
	"time"

	geojson "github.com/paulmach/go.geojson"

	"github.com/vanshika/campusnav/backend/internal/domain"
	"github.com/vanshika/campusnav/backend/internal/geo"
	"github.com/vanshika/campusnav/backend/internal/service"
)

// locationRequest serves both POST and PUT. Every field is optional on PUT;
// a present connected_to (even empty) replaces the connection list.
type locationRequest struct {
	ID          *int64            `json:"id,omitempty"`
	Name        *string           `json:"name"`
	Description *string           `json:"description"`
	Building    *string           `json:"building"`
	Floor       *int              `json:"floor"`
	RoomNumber  *string           `json:"room_number"`
	Category    *string           `json:"category"`
	Coordinates *geojson.Geometry `json:"coordinates"`
	ConnectedTo *[]int64          `json:"connected_to"`
}

type poiRequest service.POIInput

type emergencyRequest service.EmergencyServiceInput

type locationResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Building    string            `json:"building"`
	Floor       *int              `json:"floor"`
	RoomNumber  string            `json:"room_number"`
	Category    string            `json:"category"`
	Coordinates *geojson.Geometry `json:"coordinates"`
	CreatedAt   string            `json:"created_at,omitempty"`
	UpdatedAt   string            `json:"updated_at,omitempty"`
}

type neighborsResponse struct {
	LocationID  int64   `json:"location_id"`
	ConnectedTo []int64 `json:"connected_to"`
}

type pathSegmentResponse struct {
	LocationID  int64             `json:"location_id"`
	Name        string            `json:"name"`
	Coordinates *geojson.Geometry `json:"coordinates"`
}

type pathResponse struct {
	Segments      []pathSegmentResponse `json:"segments"`
	TotalDistance float64               `json:"total_distance"`
	EstimatedTime float64               `json:"estimated_time"`
}

type poiResponse struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	Description      string `json:"description"`
	IsAvailable      bool   `json:"is_available"`
	Capacity         *int   `json:"capacity"`
	CurrentOccupancy *int   `json:"current_occupancy"`
	LocationID       int64  `json:"location_id"`
}

type emergencyResponse struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	LocationID  int64  `json:"location_id"`
}

// userRequest mirrors service.RegisterInput field for field.
type userRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type userResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at,omitempty"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type statusResponse struct {
	Status string `json:"status"`
	ID     int64  `json:"id"`
}

func (req locationRequest) toCreateInput() (service.LocationInput, error) {
	if req.Coordinates == nil {
		return service.LocationInput{}, errors.New("coordinates are required")
	}
	point, err := geo.FromGeoJSON(req.Coordinates)
	if err != nil {
		return service.LocationInput{}, err
	}

	in := service.LocationInput{
		Name:        deref(req.Name),
		Description: deref(req.Description),
		Building:    deref(req.Building),
		Floor:       req.Floor,
		RoomNumber:  deref(req.RoomNumber),
		Category:    deref(req.Category),
		Coordinates: point,
	}
	if req.ID != nil {
		in.ID = *req.ID
	}
	if req.ConnectedTo != nil {
		in.ConnectedTo = *req.ConnectedTo
	}
	return in, nil
}

func (req locationRequest) toUpdate() (service.LocationUpdate, error) {
	if req.ID != nil {
		return service.LocationUpdate{}, errors.New("id cannot be changed")
	}
	update := service.LocationUpdate{
		Patch: domain.LocationPatch{
			Name:        req.Name,
			Description: req.Description,
			Building:    req.Building,
			Floor:       req.Floor,
			RoomNumber:  req.RoomNumber,
			Category:    req.Category,
		},
		ConnectedTo: req.ConnectedTo,
	}
	if req.Coordinates != nil {
		point, err := geo.FromGeoJSON(req.Coordinates)
		if err != nil {
			return service.LocationUpdate{}, err
		}
		update.Patch.Coordinates = &point
	}
	return update, nil
}

func newLocationResponse(loc domain.Location) locationResponse {
	return locationResponse{
		ID:          loc.ID,
		Name:        loc.Name,
		Description: loc.Description,
		Building:    loc.Building,
		Floor:       loc.Floor,
		RoomNumber:  loc.RoomNumber,
		Category:    loc.Category,
		Coordinates: geo.ToGeoJSON(loc.Coordinates),
		CreatedAt:   formatTime(loc.CreatedAt),
		UpdatedAt:   formatTime(loc.UpdatedAt),
	}
}

func newPathResponse(path domain.PathResult) pathResponse {
	resp := pathResponse{
		Segments:      make([]pathSegmentResponse, 0, len(path.Segments)),
		TotalDistance: path.TotalDistance,
		EstimatedTime: path.EstimatedTime,
	}
	for _, seg := range path.Segments {
		resp.Segments = append(resp.Segments, pathSegmentResponse{
			LocationID:  seg.LocationID,
			Name:        seg.Name,
			Coordinates: geo.ToGeoJSON(seg.Coordinates),
		})
	}
	return resp
}

func newPOIResponse(poi domain.POI) poiResponse {
	return poiResponse{
		ID:               poi.ID,
		Name:             poi.Name,
		Type:             poi.Type,
		Description:      poi.Description,
		IsAvailable:      poi.IsAvailable,
		Capacity:         poi.Capacity,
		CurrentOccupancy: poi.CurrentOccupancy,
		LocationID:       poi.LocationID,
	}
}

func newEmergencyResponse(svc domain.EmergencyService) emergencyResponse {
	return emergencyResponse{
		ID:          svc.ID,
		Type:        svc.Type,
		Description: svc.Description,
		LocationID:  svc.LocationID,
	}
}

func newUserResponse(user domain.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: formatTime(user.CreatedAt),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
