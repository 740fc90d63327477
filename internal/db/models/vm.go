package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// VMCreatedAtField is the database field name for the VM creation timestamp
const VMCreatedAtField = "created_at"

// VMStatus represents the lifecycle state of a provisioning request.
//
// The literal strings are part of the storage contract and must not be
// renamed.
type VMStatus string

// VM status values
const (
	// VMStatusPending indicates the request is recorded but provisioning has not finished
	VMStatusPending VMStatus = "pending"
	// VMStatusSuccess indicates the provisioning tool confirmed the VM was created
	VMStatusSuccess VMStatus = "success"
	// VMStatusError indicates provisioning failed or could not be confirmed
	VMStatusError VMStatus = "error"
)

// ParseVMStatus converts a string representation of a VM status to VMStatus type
func ParseVMStatus(str string) (VMStatus, error) {
	switch VMStatus(str) {
	case VMStatusPending, VMStatusSuccess, VMStatusError:
		return VMStatus(str), nil
	}
	return "", fmt.Errorf("invalid vm status: %s", str)
}

// IsTerminal reports whether the status is a terminal state. A record moves
// from pending to exactly one terminal state and never transitions again.
func (s VMStatus) IsTerminal() bool {
	return s == VMStatusSuccess || s == VMStatusError
}

// VM represents one provisioning request and its outcome.
//
// The request snapshot fields (Name through VCenter) are set at creation and
// never mutated afterward; only Status and Result change, exactly once, when
// the execution goroutine reconciles the tool outcome.
//
// Names are unique across all records, terminal ones included. Records are
// never deleted, so a name whose job ended in error cannot be resubmitted
// until an operator removes the old record.
type VM struct {
	gorm.Model
	Name      string    `json:"vmName" gorm:"not null;uniqueIndex"`
	ESXiHost  string    `json:"esxiHost" gorm:"column:esxi_host;not null"`
	Datastore string    `json:"datastore" gorm:"not null"`
	Network   string    `json:"network" gorm:"not null"`
	CPUCount  int       `json:"cpuCount" gorm:"column:cpu_count;not null"`
	MemoryGB  int       `json:"memoryGB" gorm:"column:memory_gb;not null"`
	DiskGB    int       `json:"diskGB" gorm:"column:disk_gb;not null"`
	ISOPath   string    `json:"isoPath" gorm:"column:iso_path;not null"`
	GuestOS   string    `json:"guestOS" gorm:"column:guest_os;not null"`
	VCenter   string    `json:"vcenter" gorm:"column:vcenter;not null"`
	Status    VMStatus  `json:"status" gorm:"type:varchar(16);not null;default:'pending';index"`
	Result    string    `json:"result,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}
