// Package handlers provides HTTP request handling for the API
package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/vmplane/vmplane/internal/db/models"
	"github.com/vmplane/vmplane/internal/services"
	"github.com/vmplane/vmplane/internal/types"
)

// VMHandler handles VM provisioning endpoints
type VMHandler struct {
	vmService *services.VM
}

// NewVMHandler creates a new VM handler
func NewVMHandler(vmService *services.VM) *VMHandler {
	return &VMHandler{vmService: vmService}
}

// CreateVM accepts a single VM creation request. The response only means the
// request was accepted and recorded; provisioning continues in the
// background and its outcome lands on the job record.
func (h *VMHandler) CreateVM(c *fiber.Ctx) error {
	var req types.VMRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	jobID, err := h.vmService.SubmitSingle(c.Context(), req)
	if err != nil {
		return submitError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(types.CreateVMResponse{JobID: jobID})
}

// CreateVMBatch accepts a batch creation request: one shared template plus
// an ordered list of names
func (h *VMHandler) CreateVMBatch(c *fiber.Ctx) error {
	var req types.BatchVMRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	jobIDs, err := h.vmService.SubmitBatch(c.Context(), req)
	if err != nil {
		return submitError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(types.BatchCreateVMResponse{JobIDs: jobIDs})
}

// ListVMs returns VM records, newest first. An optional status query
// parameter narrows the result to one lifecycle state.
func (h *VMHandler) ListVMs(c *fiber.Ctx) error {
	var status models.VMStatus
	if raw := c.Query("status"); raw != "" {
		parsed, err := models.ParseVMStatus(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		status = parsed
	}

	vms, err := h.vmService.List(c.Context(), status)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to list vms: %v", err),
		})
	}
	return c.JSON(vms)
}

// GetVM returns a single VM record by id
func (h *VMHandler) GetVM(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid vm id",
		})
	}

	vm, err := h.vmService.Get(c.Context(), uint(id))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "vm not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to get vm: %v", err),
		})
	}
	return c.JSON(vm)
}

// submitError maps coordinator errors to HTTP responses: validation failures
// are the caller's fault, insert failures are ours.
func submitError(c *fiber.Ctx, err error) error {
	var validationErr *types.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationErr.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}
