package defects

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ougirez/roaddefects/internal/domain"
	"github.com/ougirez/roaddefects/internal/domain/dto"
	"github.com/ougirez/roaddefects/internal/pkg/constants"
	"github.com/ougirez/roaddefects/internal/pkg/defectapi"
	"github.com/ougirez/roaddefects/internal/pkg/logger"
)

// API is the part of defectapi.Client the service needs.
type API interface {
	ListDefects(ctx context.Context, params url.Values) *defectapi.Result
	GetDefect(ctx context.Context, id string) *defectapi.Result
	DefectImage(ctx context.Context, id string) *defectapi.Result
	Analytics(ctx context.Context, kind string, params url.Values) *defectapi.Result
}

var analyticsKinds = map[string]struct{}{
	"stats":         {},
	"trends":        {},
	"distribution":  {},
	"road-analysis": {},
}

type Service struct {
	api API
}

func NewDefectsService(api API) *Service {
	return &Service{api: api}
}

type SearchResult struct {
	Records []domain.Defect
	// Error is a human-readable reason for an empty or degraded result.
	Error string
}

// Search turns a multi-select into downstream queries, merges the answers and
// deduplicates them by id. It never fails: problems end up in SearchResult.Error.
func (s *Service) Search(ctx context.Context, sel dto.Selection) (res SearchResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "defects search: unexpected error: %v", r)
			res = SearchResult{Records: []domain.Defect{}, Error: fmt.Sprintf("unexpected error: %v", r)}
		}
	}()

	var records []domain.Defect
	if sel.IsMultiSelect() {
		records = s.fanOut(ctx, sel)
	} else {
		var errMsg string
		records, errMsg = s.single(ctx, sel.ScalarFilter())
		if errMsg != "" {
			return SearchResult{Records: []domain.Defect{}, Error: errMsg}
		}
	}

	// the API matches road sections loosely
	if road := sel.RoadSections.First(); road != "" {
		records = FilterRoadSection(records, road)
	}

	if len(records) == 0 {
		return SearchResult{Records: []domain.Defect{}, Error: constants.MsgNoDefects}
	}

	logger.Infof(ctx, "defects search: %d records", len(records))
	return SearchResult{Records: records}
}

func (s *Service) single(ctx context.Context, filter dto.QueryFilter) ([]domain.Defect, string) {
	res := s.api.ListDefects(ctx, filter.Values())
	if !res.OK {
		return nil, res.Message
	}

	records, err := res.Payload.Defects()
	if err != nil {
		return nil, err.Error()
	}
	return records, ""
}

func (s *Service) fanOut(ctx context.Context, sel dto.Selection) []domain.Defect {
	filters := Plan(ctx, sel)

	batches := make([][]domain.Defect, 0, len(filters))
	for _, filter := range filters {
		res := s.api.ListDefects(ctx, filter.Values())
		if !res.OK {
			logger.Warnf(ctx, "defects search: sub-query %s failed: %s", filter.Values().Encode(), res.Message)
			continue
		}

		records, err := res.Payload.Defects()
		if err != nil {
			logger.Warnf(ctx, "defects search: sub-query %s: %s", filter.Values().Encode(), err.Error())
			continue
		}
		batches = append(batches, records)
	}

	total := 0
	for _, b := range batches {
		total += len(b)
	}
	merged := Merge(batches...)
	logger.Debugf(ctx, "defects search: %d sub-queries, %d records, %d after dedup", len(filters), total, len(merged))

	return merged
}

// Plan lists the downstream queries of a multi-select: one per (defect type, severity)
// pair, types outermost, with all selected cities sent together in each query.
func Plan(ctx context.Context, sel dto.Selection) []dto.QueryFilter {
	types := dimension(ctx, dto.ParamDefectType, sel.DefectTypes)
	severities := dimension(ctx, dto.ParamSeverity, sel.Severities)
	cities := sel.Cities.Effective()
	base := sel.ScalarFilter()

	filters := make([]dto.QueryFilter, 0, len(types)*len(severities))
	for _, typ := range types {
		for _, severity := range severities {
			f := base
			f.DefectType = typ
			f.Severity = severity
			f.Cities = cities
			filters = append(filters, f)
		}
	}
	return filters
}

// dimension parses one multi-select into iteration values; nil means "not filtered".
// An unselected dimension iterates once, unfiltered.
func dimension(ctx context.Context, name string, values dto.Values) []*int {
	if len(values) == 0 {
		return []*int{nil}
	}

	out := make([]*int, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, raw := range values {
		key := strings.ToLower(raw)
		if _, dup := seen[key]; dup {
			continue
		}

		if key == constants.FilterAll {
			seen[key] = struct{}{}
			out = append(out, nil)
			continue
		}

		n, err := strconv.Atoi(raw)
		if err != nil {
			logger.Warnf(ctx, "invalid %s value %q, skipped", name, raw)
			continue
		}
		seen[key] = struct{}{}
		out = append(out, &n)
	}
	return out
}

// Merge concatenates batches keeping the first record seen for every id.
// Records without an id cannot be matched and are all kept.
func Merge(batches ...[]domain.Defect) []domain.Defect {
	seen := make(map[string]struct{})
	merged := make([]domain.Defect, 0)
	for _, batch := range batches {
		for _, record := range batch {
			id := record.ID()
			if id != "" {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
			}
			merged = append(merged, record)
		}
	}
	return merged
}

func FilterRoadSection(records []domain.Defect, road string) []domain.Defect {
	filtered := make([]domain.Defect, 0, len(records))
	for _, r := range records {
		if r.RoadSection() == road {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// List forwards the selection as-is and returns the raw list.
func (s *Service) List(ctx context.Context, sel dto.Selection) ([]domain.Defect, error) {
	res := s.api.ListDefects(ctx, sel.PassThrough())
	if !res.OK {
		return nil, constants.ErrUpstream.Wrapf("list defects: %s", res.Message)
	}

	records, err := res.Payload.Defects()
	if err != nil {
		return nil, constants.ErrUpstream.Wrapf("list defects: %s", err.Error())
	}
	if records == nil {
		records = []domain.Defect{}
	}
	return records, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Defect, error) {
	res := s.api.GetDefect(ctx, id)
	if !res.OK {
		if res.StatusCode == http.StatusNotFound {
			return nil, constants.ErrDBNotFound.Wrapf("defect %s", id)
		}
		return nil, constants.ErrUpstream.Wrapf("get defect %s: %s", id, res.Message)
	}

	defect, err := res.Payload.Defect()
	if err != nil {
		return nil, constants.ErrUpstream.Wrapf("get defect %s: %s", id, err.Error())
	}
	return defect, nil
}

// Analytics proxies one of the statistics endpoints and returns its payload untouched.
func (s *Service) Analytics(ctx context.Context, kind string, sel dto.Selection) (json.RawMessage, error) {
	if _, ok := analyticsKinds[kind]; !ok {
		return nil, constants.ErrDBNotFound.Wrapf("analytics %q", kind)
	}

	res := s.api.Analytics(ctx, kind, sel.PassThrough())
	if !res.OK {
		return nil, constants.ErrUpstream.Wrapf("%s: %s", kind, res.Message)
	}
	return res.Payload.Raw, nil
}

// Image returns the streamed image; the caller closes Body when OK.
func (s *Service) Image(ctx context.Context, id string) *defectapi.Result {
	return s.api.DefectImage(ctx, id)
}
