// Package services provides business logic for provisioning operations
package services

import (
	"context"
	"time"

	"github.com/vmplane/vmplane/internal/db/models"
	"github.com/vmplane/vmplane/internal/db/repos"
	"github.com/vmplane/vmplane/internal/logger"
	"github.com/vmplane/vmplane/internal/provision"
	"github.com/vmplane/vmplane/internal/types"
)

// DefaultStagger is the default delay between successive dispatches within a
// batch. The provisioning tool holds hypervisor API connections, so batch
// launches are spaced out instead of fired all at once.
const DefaultStagger = time.Second

// VM coordinates the provisioning job lifecycle: create, dispatch, execute,
// reconcile. Execution is fire-and-forget; submit calls return as soon as
// the pending record is committed, and the terminal update is only
// discoverable through a later read.
type VM struct {
	vmRepo   *repos.VMRepository
	executor provision.Executor
	stagger  time.Duration
}

// NewVMService creates a new VM coordinator. A non-positive stagger falls
// back to DefaultStagger.
func NewVMService(vmRepo *repos.VMRepository, executor provision.Executor, stagger time.Duration) *VM {
	if stagger <= 0 {
		stagger = DefaultStagger
	}
	return &VM{vmRepo: vmRepo, executor: executor, stagger: stagger}
}

// SubmitSingle validates the request, inserts one pending record and
// schedules its execution. The insert is committed before the call returns;
// the execution goroutine is detached and never joined.
func (s *VM) SubmitSingle(ctx context.Context, req types.VMRequest) (uint, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}

	vm := recordFromRequest(req)
	if err := s.vmRepo.Create(ctx, vm); err != nil {
		return 0, err
	}

	go s.run(vm.ID, req)
	return vm.ID, nil
}

// SubmitBatch creates one record per name by overlaying the name onto the
// shared template. Insertion is all-or-nothing; ids are returned in input
// order. Executions are dispatched only after the whole batch is committed,
// at least one stagger interval apart.
func (s *VM) SubmitBatch(ctx context.Context, req types.BatchVMRequest) ([]uint, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	reqs := make([]types.VMRequest, len(req.Names))
	vms := make([]*models.VM, len(req.Names))
	for i, name := range req.Names {
		reqs[i] = req.Template.WithName(name)
		vms[i] = recordFromRequest(reqs[i])
	}

	if err := s.vmRepo.CreateBatch(ctx, vms); err != nil {
		return nil, &types.BatchInsertError{Err: err}
	}

	ids := make([]uint, len(vms))
	for i, vm := range vms {
		ids[i] = vm.ID
	}

	go func() {
		for i := range reqs {
			if i > 0 {
				time.Sleep(s.stagger)
			}
			go s.run(ids[i], reqs[i])
		}
	}()

	return ids, nil
}

// List returns VM records, newest first, optionally narrowed to one status
func (s *VM) List(ctx context.Context, status models.VMStatus) ([]models.VM, error) {
	return s.vmRepo.List(ctx, status)
}

// Get returns a single VM record by id
func (s *VM) Get(ctx context.Context, id uint) (*models.VM, error) {
	return s.vmRepo.GetByID(ctx, id)
}

// run executes the provisioning tool for one job and reconciles the outcome
// into the record. It runs detached from the submitting request, so it uses
// its own background context; failures here never reach a caller, they
// become the record's terminal error state.
func (s *VM) run(id uint, req types.VMRequest) {
	ctx := context.Background()

	outcome := s.executor.Execute(ctx, req)
	status, result := provision.Classify(outcome, req.Name)

	if err := s.vmRepo.UpdateResult(ctx, id, status, result); err != nil {
		logger.ErrorWithFields("Failed to record provisioning outcome", map[string]interface{}{
			"job_id": id,
			"status": status,
			"error":  err.Error(),
		})
		return
	}

	logger.InfoWithFields("Provisioning finished", map[string]interface{}{
		"job_id":  id,
		"vm_name": req.Name,
		"status":  status,
	})
}

func recordFromRequest(req types.VMRequest) *models.VM {
	return &models.VM{
		Name:      req.Name,
		ESXiHost:  req.ESXiHost,
		Datastore: req.Datastore,
		Network:   req.Network,
		CPUCount:  req.CPUCount,
		MemoryGB:  req.MemoryGB,
		DiskGB:    req.DiskGB,
		ISOPath:   req.ISOPath,
		GuestOS:   req.GuestOS,
		VCenter:   req.VCenter,
		Status:    models.VMStatusPending,
	}
}
