package api

import (
	"elbyte/core/types"
)

// SavingsRequest is the body of POST /api/v1/savings
type SavingsRequest struct {
	// Bill is the parsed bill from the external parser
	Bill *types.BillData `json:"bill"`
}

// CompareRequest is the body of POST /api/v1/compare
type CompareRequest struct {
	// Bill is the parsed bill from the external parser
	Bill *types.BillData `json:"bill"`

	// Providers optionally overrides the store catalog
	Providers []types.ElectricityProvider `json:"providers,omitempty"`
}

// ErrorBody is the error envelope
type ErrorBody struct {
	// Code is the machine-readable error code
	Code string `json:"code"`

	// Message is the human-readable description
	Message string `json:"message"`
}

// ErrorResponse wraps an error body
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}
