package locations

import (
	"context"
	"net/url"
	"sort"

	"github.com/ougirez/roaddefects/internal/domain"
	"github.com/ougirez/roaddefects/internal/domain/dto"
	"github.com/ougirez/roaddefects/internal/pkg/constants"
	"github.com/ougirez/roaddefects/internal/pkg/defectapi"
)

type API interface {
	ListDefects(ctx context.Context, params url.Values) *defectapi.Result
}

type Service struct {
	api API
}

func NewLocationsService(api API) *Service {
	return &Service{api: api}
}

func (s *Service) fetch(ctx context.Context, params url.Values) ([]domain.Defect, error) {
	res := s.api.ListDefects(ctx, params)
	if !res.OK {
		return nil, constants.ErrUpstream.Wrapf("list defects: %s", res.Message)
	}

	records, err := res.Payload.Defects()
	if err != nil {
		return nil, constants.ErrUpstream.Wrapf("list defects: %s", err.Error())
	}
	return records, nil
}

func (s *Service) Cities(ctx context.Context) ([]string, error) {
	records, err := s.fetch(ctx, nil)
	if err != nil {
		return nil, err
	}
	return DistinctCities(records), nil
}

func (s *Service) List(ctx context.Context) (dto.LocationHierarchy, error) {
	records, err := s.fetch(ctx, nil)
	if err != nil {
		return nil, err
	}
	return Hierarchy(records), nil
}

func (s *Service) Districts(ctx context.Context, city string) ([]string, error) {
	if city == "" {
		return nil, constants.ErrBadRequest.Wrapf("city is required")
	}

	records, err := s.fetch(ctx, url.Values{dto.ParamCity: {city}})
	if err != nil {
		return nil, err
	}
	return Districts(records), nil
}

func (s *Service) Roads(ctx context.Context, city, district string) ([]string, error) {
	if city == "" || district == "" {
		return nil, constants.ErrBadRequest.Wrapf("city and district are required")
	}

	records, err := s.fetch(ctx, url.Values{dto.ParamCity: {city}, dto.ParamDistrict: {district}})
	if err != nil {
		return nil, err
	}
	return Roads(records), nil
}

// DistinctCities returns the sorted set of non-empty cities.
func DistinctCities(records []domain.Defect) []string {
	return distinct(records, domain.Defect.City)
}

func Districts(records []domain.Defect) []string {
	return distinct(records, domain.Defect.District)
}

func Roads(records []domain.Defect) []string {
	return distinct(records, domain.Defect.RoadSection)
}

// Hierarchy builds city -> district -> roads. Records lacking any of the three are skipped.
func Hierarchy(records []domain.Defect) dto.LocationHierarchy {
	sets := make(map[string]map[string]map[string]struct{})
	for _, r := range records {
		city, district, road := r.City(), r.District(), r.RoadSection()
		if city == "" || district == "" || road == "" {
			continue
		}

		districts, ok := sets[city]
		if !ok {
			districts = make(map[string]map[string]struct{})
			sets[city] = districts
		}
		roads, ok := districts[district]
		if !ok {
			roads = make(map[string]struct{})
			districts[district] = roads
		}
		roads[road] = struct{}{}
	}

	out := make(dto.LocationHierarchy, len(sets))
	for city, districts := range sets {
		out[city] = make(map[string][]string, len(districts))
		for district, roads := range districts {
			out[city][district] = sortedKeys(roads)
		}
	}
	return out
}

func distinct(records []domain.Defect, field func(domain.Defect) string) []string {
	set := make(map[string]struct{})
	for _, r := range records {
		if v := field(r); v != "" {
			set[v] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
