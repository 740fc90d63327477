// Package types contains the request and response types of the API
package types

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// VMRequest is the request snapshot for a single VM creation. All fields are
// required; they are copied verbatim onto the job record at creation time and
// never mutated afterward.
type VMRequest struct {
	Name      string `json:"vmName" validate:"required"`
	ESXiHost  string `json:"esxiHost" validate:"required"`
	Datastore string `json:"datastore" validate:"required"`
	Network   string `json:"network" validate:"required"`
	CPUCount  int    `json:"cpuCount" validate:"required,gt=0"`
	MemoryGB  int    `json:"memoryGB" validate:"required,gt=0"`
	DiskGB    int    `json:"diskGB" validate:"required,gt=0"`
	ISOPath   string `json:"isoPath" validate:"required"`
	GuestOS   string `json:"guestOS" validate:"required"`
	VCenter   string `json:"vcenter" validate:"required"`
}

// Validate validates the VM creation request
func (r *VMRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return NewValidationError("invalid vm request: %v", err)
	}
	return nil
}

// WithName returns a copy of the request with the name overlaid. Used to
// synthesize per-VM requests from a shared batch template.
func (r VMRequest) WithName(name string) VMRequest {
	r.Name = name
	return r
}

// BatchVMRequest creates several VMs from one shared template, one per name
type BatchVMRequest struct {
	Template VMRequest `json:"template"`
	Names    []string  `json:"vmNames"`
}

// Validate validates the batch creation request
func (r *BatchVMRequest) Validate() error {
	if len(r.Names) == 0 {
		return NewValidationError("at least one vm name is required")
	}
	for _, name := range r.Names {
		req := r.Template.WithName(name)
		if err := req.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CreateVMResponse is returned once a single creation request is accepted
type CreateVMResponse struct {
	JobID uint `json:"job_id"`
}

// BatchCreateVMResponse is returned once a batch creation request is
// accepted. JobIDs preserves the order of the submitted names.
type BatchCreateVMResponse struct {
	JobIDs []uint `json:"job_ids"`
}

// LoginRequest carries operator credentials
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Validate validates the login request
func (r *LoginRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return NewValidationError("invalid login request: %v", err)
	}
	return nil
}

// LoginResponse carries the bearer token for subsequent requests
type LoginResponse struct {
	Token string `json:"token"`
}
