// Package validation checks the request shapes accepted at the API boundary
// before they reach the canvas or linker.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/qnetlab/topoforge/pkg/model"
)

var (
	validate = validator.New()

	// Validation constants
	MaxNameLength = 64
	MaxMTU        = 65535

	namePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)
)

// NodeRequest is a request to place a node on the canvas
type NodeRequest struct {
	Name string  `json:"name" validate:"required,min=1,max=64"`
	Kind string  `json:"kind" validate:"required,oneof=classical quantum bridge"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// ConnectionRequest is a request to finalize an edge between two nodes
type ConnectionRequest struct {
	From   string            `json:"from" validate:"required,min=1,max=64"`
	To     string            `json:"to" validate:"required,min=1,max=64"`
	Params *LinkParamsUpdate `json:"params" validate:"omitempty"`
}

// LinkParamsUpdate carries medium parameters; nil fields keep defaults
type LinkParamsUpdate struct {
	BandwidthMbps      *float64 `json:"bandwidthMbps" validate:"omitempty,gt=0"`
	LatencyMS          *float64 `json:"latencyMs" validate:"omitempty,gte=0"`
	MTU                *int     `json:"mtu" validate:"omitempty,gt=0,lte=65535"`
	PacketLossRate     *float64 `json:"packetLossRate" validate:"omitempty,gte=0,lte=1"`
	ErrorRate          *float64 `json:"errorRate" validate:"omitempty,gte=0,lte=1"`
	LossPerKM          *float64 `json:"lossPerKm" validate:"omitempty,gte=0"`
	NoiseModel         *string  `json:"noiseModel" validate:"omitempty,oneof=none depolarizing dephasing amplitude_damping"`
	ErrorRateThreshold *float64 `json:"errorRateThreshold" validate:"omitempty,gte=0,lte=1"`
	QubitCapacity      *int     `json:"qubitCapacity" validate:"omitempty,gt=0"`
}

// ValidateNodeRequest validates a node placement request
func ValidateNodeRequest(req *NodeRequest) error {
	if req == nil {
		return errors.New("node request cannot be nil")
	}
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}
	if !namePattern.MatchString(req.Name) {
		return fmt.Errorf("Name: %q contains invalid characters (alphanumeric, dash, dot, underscore allowed)", req.Name)
	}
	return nil
}

// ValidateConnectionRequest validates an edge creation request
func ValidateConnectionRequest(req *ConnectionRequest) error {
	if req == nil {
		return errors.New("connection request cannot be nil")
	}
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}
	if req.From == req.To {
		return fmt.Errorf("To: must differ from From")
	}
	return nil
}

// ApplyLinkParams overlays the non-nil update fields on base
func ApplyLinkParams(base model.LinkParams, upd *LinkParamsUpdate) model.LinkParams {
	if upd == nil {
		return base
	}
	if upd.BandwidthMbps != nil {
		base.BandwidthMbps = *upd.BandwidthMbps
	}
	if upd.LatencyMS != nil {
		base.LatencyMS = *upd.LatencyMS
	}
	if upd.MTU != nil {
		base.MTU = *upd.MTU
	}
	if upd.PacketLossRate != nil {
		base.PacketLossRate = *upd.PacketLossRate
	}
	if upd.ErrorRate != nil {
		base.ErrorRate = *upd.ErrorRate
	}
	if upd.LossPerKM != nil {
		base.LossPerKM = *upd.LossPerKM
	}
	if upd.NoiseModel != nil {
		base.NoiseModel = *upd.NoiseModel
	}
	if upd.ErrorRateThreshold != nil {
		base.ErrorRateThreshold = *upd.ErrorRateThreshold
	}
	if upd.QubitCapacity != nil {
		base.QubitCapacity = *upd.QubitCapacity
	}
	return base
}

// formatValidationError converts validator errors into readable messages
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s: is required", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s: must be one of [%s]", fe.Field(), fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s: exceeds maximum of %s", fe.Field(), fe.Param()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s: below minimum of %s", fe.Field(), fe.Param()))
		case "gt", "gte", "lt", "lte":
			msgs = append(msgs, fmt.Sprintf("%s: out of range (%s %s)", fe.Field(), fe.Tag(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
