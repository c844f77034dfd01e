package api

// ErrorResponse is the JSON body returned for any failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// PositionRequest moves a placed node to new canvas coordinates
type PositionRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// StatusResponse acknowledges a mutation that returns no document
type StatusResponse struct {
	Status string `json:"status"`
}
