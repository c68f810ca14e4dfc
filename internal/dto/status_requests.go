package dto

type StatusUpdateRequest struct {
	Status         string  `json:"status"`
	Note           string  `json:"note,omitempty"`
	TrackingNumber *string `json:"trackingNumber,omitempty"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}
