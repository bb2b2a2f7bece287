package handler

import "time"

type checkAdminStatusResponse struct {
	IsAdmin bool `json:"isAdmin"`
}

type updateConfigResponse struct {
	Message string `json:"message"`
}

// configResponse never includes the stored access token.
type configResponse struct {
	RoomID          string    `json:"roomId"`
	GatingActive    bool      `json:"gatingActive"`
	IssuerAddress   string    `json:"nftIssuerAddress"`
	TaxonID         uint32    `json:"nftTaxonId"`
	MinHoldingCount int       `json:"minNftCount"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type errorResponse struct {
	Error string `json:"error"`
}
