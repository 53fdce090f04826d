package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/thependalorian/buffrhost-sub014/internal/domain"
	"github.com/thependalorian/buffrhost-sub014/internal/repository"
)

// PropertyService serves the platform property listing.
type PropertyService struct {
	listings repository.ListingsRepository
}

func NewPropertyService(listings repository.ListingsRepository) *PropertyService {
	return &PropertyService{listings: listings}
}

type ListPropertiesRequest struct {
	Page     int
	PageSize int
	Status   string
	Country  string
}

type ListPropertiesResponse struct {
	Items    []domain.PropertyListing `json:"items"`
	Total    int                      `json:"total"`
	Page     int                      `json:"page"`
	PageSize int                      `json:"pageSize"`
}

func (s *PropertyService) ListProperties(ctx context.Context, req ListPropertiesRequest) (*ListPropertiesResponse, error) {
	req.Page, req.PageSize = repository.NormalizePage(req.Page, req.PageSize)
	filter := domain.ListingFilter{
		Status:  strings.TrimSpace(req.Status),
		Country: strings.TrimSpace(req.Country),
	}
	items, total, err := s.listings.ListProperties(ctx, filter, req.Page, req.PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return &ListPropertiesResponse{Items: items, Total: total, Page: req.Page, PageSize: req.PageSize}, nil
}
