package handler

type checkAdminStatusRequest struct {
	UserID string `json:"userId"`
	RoomID string `json:"roomId"`
}

// updateConfigRequest mirrors the widget's payload. Booleans and integers
// are pointers so "absent" is distinguishable from zero values.
type updateConfigRequest struct {
	RoomID          string  `json:"roomId"`
	GatingActive    *bool   `json:"gatingActive"`
	IssuerAddress   string  `json:"nftIssuerAddress"`
	TaxonID         *uint32 `json:"nftTaxonId"`
	MinHoldingCount *int    `json:"minNftCount"`
}
