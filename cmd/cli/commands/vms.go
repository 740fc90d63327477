package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vmplane/vmplane/internal/types"
)

// vmOutput represents the filtered output for a VM job
type vmOutput struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Result string `json:"result,omitempty"`
}

func init() {
	vmsCmd.AddCommand(listVMsCmd)
	vmsCmd.AddCommand(getVMCmd)
	vmsCmd.AddCommand(createVMCmd)
	vmsCmd.AddCommand(createVMBatchCmd)

	getVMCmd.Flags().StringP("id", "i", "", "VM job ID to fetch")
	_ = getVMCmd.MarkFlagRequired("id")

	addSpecFlags(createVMCmd)
	createVMCmd.Flags().String("name", "", "VM name")
	_ = createVMCmd.MarkFlagRequired("name")

	addSpecFlags(createVMBatchCmd)
	createVMBatchCmd.Flags().StringSlice("names", nil, "Comma-separated VM names")
	_ = createVMBatchCmd.MarkFlagRequired("names")
}

// addSpecFlags registers the shared VM spec flags used by create and
// create-batch
func addSpecFlags(cmd *cobra.Command) {
	cmd.Flags().String("host", "", "ESXi host")
	cmd.Flags().String("datastore", "", "Datastore")
	cmd.Flags().String("network", "", "Network name")
	cmd.Flags().Int("cpu", 0, "CPU count")
	cmd.Flags().Int("memory", 0, "Memory in GB")
	cmd.Flags().Int("disk", 0, "Disk size in GB")
	cmd.Flags().String("iso", "", "Install media (ISO) path")
	cmd.Flags().String("guest-os", "", "Guest OS identifier")
	cmd.Flags().String("vcenter", "", "vCenter endpoint")
}

// specFromFlags builds the VM request template from the shared spec flags
func specFromFlags(cmd *cobra.Command) types.VMRequest {
	host, _ := cmd.Flags().GetString("host")
	datastore, _ := cmd.Flags().GetString("datastore")
	network, _ := cmd.Flags().GetString("network")
	cpu, _ := cmd.Flags().GetInt("cpu")
	memory, _ := cmd.Flags().GetInt("memory")
	disk, _ := cmd.Flags().GetInt("disk")
	iso, _ := cmd.Flags().GetString("iso")
	guestOS, _ := cmd.Flags().GetString("guest-os")
	vcenter, _ := cmd.Flags().GetString("vcenter")

	return types.VMRequest{
		ESXiHost:  host,
		Datastore: datastore,
		Network:   network,
		CPUCount:  cpu,
		MemoryGB:  memory,
		DiskGB:    disk,
		ISOPath:   iso,
		GuestOS:   guestOS,
		VCenter:   vcenter,
	}
}

var vmsCmd = &cobra.Command{
	Use:   "vms",
	Short: "Manage VM provisioning jobs",
}

var listVMsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all VM jobs, newest first",
	RunE: func(_ *cobra.Command, _ []string) error {
		vms, err := apiClient.GetVMs(context.Background())
		if err != nil {
			return fmt.Errorf("error fetching vms: %w", err)
		}

		output := make([]vmOutput, len(vms))
		for i, vm := range vms {
			output[i] = vmOutput{
				ID:     vm.ID,
				Name:   vm.Name,
				Status: string(vm.Status),
				Result: vm.Result,
			}
		}

		prettyJSON, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			return fmt.Errorf("error formatting response: %w", err)
		}
		fmt.Println(string(prettyJSON))
		return nil
	},
}

var getVMCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a specific VM job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		idStr, _ := cmd.Flags().GetString("id")
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid id value: %w", err)
		}

		vm, err := apiClient.GetVM(context.Background(), uint(id))
		if err != nil {
			return fmt.Errorf("error fetching vm: %w", err)
		}

		prettyJSON, err := json.MarshalIndent(vm, "", "  ")
		if err != nil {
			return fmt.Errorf("error formatting response: %w", err)
		}
		fmt.Println(string(prettyJSON))
		return nil
	},
}

var createVMCmd = &cobra.Command{
	Use:   "create",
	Short: "Submit a single VM creation job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		req := specFromFlags(cmd)
		req.Name, _ = cmd.Flags().GetString("name")

		resp, err := apiClient.CreateVM(context.Background(), req)
		if err != nil {
			return fmt.Errorf("error creating vm: %w", err)
		}

		fmt.Printf("Accepted, job id %d\n", resp.JobID)
		return nil
	},
}

var createVMBatchCmd = &cobra.Command{
	Use:   "create-batch",
	Short: "Submit a batch of VM creation jobs from one template",
	RunE: func(cmd *cobra.Command, _ []string) error {
		names, _ := cmd.Flags().GetStringSlice("names")

		resp, err := apiClient.CreateVMBatch(context.Background(), types.BatchVMRequest{
			Template: specFromFlags(cmd),
			Names:    names,
		})
		if err != nil {
			return fmt.Errorf("error creating vms: %w", err)
		}

		fmt.Printf("Accepted, job ids %v\n", resp.JobIDs)
		return nil
	},
}

// GetVMsCmd returns the vms command
func GetVMsCmd() *cobra.Command {
	return vmsCmd
}
