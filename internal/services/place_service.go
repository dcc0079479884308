package services

import (
	"errors"
	"math"
	"sort"

	"gorm.io/gorm"

	apperrors "centsible/internal/errors"
	"centsible/internal/models"
	"centsible/internal/pagination"
)

const earthRadiusMeters = 6371000.0

// placeService handles saved-place business logic.
type placeService struct {
	db *gorm.DB
}

// NewPlaceService creates a new PlaceServicer.
func NewPlaceService(db *gorm.DB) PlaceServicer {
	return &placeService{db: db}
}

// CreatePlace saves a new place.
func (s *placeService) CreatePlace(name string, latitude, longitude float64, address string) (*models.Place, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "coordinates out of range")
	}

	place := &models.Place{
		Name:      name,
		Latitude:  latitude,
		Longitude: longitude,
		Address:   address,
	}

	if err := s.db.Create(place).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return place, nil
}

// GetPlaces returns a paginated list of places.
func (s *placeService) GetPlaces(page pagination.PageRequest) (*pagination.PageResponse[models.Place], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Place{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var places []models.Place
	if err := s.db.Order("name ASC").Scopes(pagination.Paginate(page)).Find(&places).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(places, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetPlaceByID returns a place by ID.
func (s *placeService) GetPlaceByID(placeID string) (*models.Place, error) {
	var place models.Place
	if err := s.db.Where("id = ?", placeID).First(&place).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPlaceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &place, nil
}

// UpdatePlace updates a place's name or address. Coordinates are immutable;
// a moved place is a different place.
func (s *placeService) UpdatePlace(placeID string, name, address *string) (*models.Place, error) {
	place, err := s.GetPlaceByID(placeID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != nil {
		if *name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name cannot be empty")
		}
		updates["name"] = *name
	}
	if address != nil {
		updates["address"] = *address
	}

	if len(updates) > 0 {
		if err := s.db.Model(place).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return place, nil
}

// DeletePlace soft-deletes a place. Expenses keep their place_id reference.
func (s *placeService) DeletePlace(placeID string) error {
	result := s.db.Where("id = ?", placeID).Delete(&models.Place{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrPlaceNotFound
	}
	return nil
}

// Nearby returns places within radiusMeters of the coordinates, closest
// first. The table is small (a household's saved places), so the distance
// filter runs in Go rather than requiring a spatial extension.
func (s *placeService) Nearby(latitude, longitude, radiusMeters float64) ([]models.Place, error) {
	var places []models.Place
	if err := s.db.Find(&places).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	type candidate struct {
		place    models.Place
		distance float64
	}
	var matches []candidate
	for i := range places {
		d := haversineMeters(latitude, longitude, places[i].Latitude, places[i].Longitude)
		if d <= radiusMeters {
			matches = append(matches, candidate{place: places[i], distance: d})
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].distance < matches[j].distance })

	result := make([]models.Place, 0, len(matches))
	for _, m := range matches {
		result = append(result, m.place)
	}
	return result, nil
}

// haversineMeters computes the great-circle distance between two WGS84 points.
func haversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
