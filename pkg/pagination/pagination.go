// Package pagination defines page request/result types shared by list
// endpoints, with limits driven by Config.
package pagination

import (
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/caravel-labs/caravel/pkg/query"
)

// PageRequest is a client request for one page of data, with optional
// free-text search and sort order.
type PageRequest struct {
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
	Search   *string    `json:"search,omitempty"`
	Sort     SortFields `json:"sort,omitempty"`
}

// Normalize clamps the request into the configured bounds: page starts
// at 1, page size falls back to the default and never exceeds the max.
func (r *PageRequest) Normalize(cfg Config) {
	if r.Page < 1 {
		r.Page = 1
	}
	switch {
	case r.PageSize < 1:
		r.PageSize = cfg.DefaultPageSize
	case r.PageSize > cfg.MaxPageSize:
		r.PageSize = cfg.MaxPageSize
	}
}

// PageRequestFromQuery builds a normalized PageRequest from URL query
// values. Recognized parameters: page, page_size, search, sort.
func PageRequestFromQuery(values url.Values, cfg Config) PageRequest {
	req := PageRequest{
		Sort: query.ParseSortFields(values.Get("sort")),
	}
	req.Page, _ = strconv.Atoi(values.Get("page"))
	req.PageSize, _ = strconv.Atoi(values.Get("page_size"))

	if s := values.Get("search"); s != "" {
		req.Search = &s
	}

	req.Normalize(cfg)
	return req
}

// SortFields unmarshals from either a comma-separated string
// ("name,-created_at") or an array of SortField objects.
type SortFields []query.SortField

func (s *SortFields) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = query.ParseSortFields(str)
		return nil
	}

	var fields []query.SortField
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*s = fields
	return nil
}

// PageResult is one page of data plus the metadata a client needs to
// page through the rest.
type PageResult[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewPageResult wraps data with pagination metadata. TotalPages is at
// least 1 so clients never divide by or iterate to zero.
func NewPageResult[T any](data []T, total, page, pageSize int) PageResult[T] {
	if data == nil {
		data = []T{}
	}

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	return PageResult[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
