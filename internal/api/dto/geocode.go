package dto

import "route-planner/internal/domain"

type GeocodeResponse struct {
	Items []domain.GeocodeResult `json:"items"`
}

type VersionResponse struct {
	Version string `json:"version"`
}
