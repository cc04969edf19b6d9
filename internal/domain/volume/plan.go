// Where: internal/domain/volume/plan.go
// What: Volume provisioning delta between machines and existing volumes.
// Why: Create only the volumes a region is missing, never duplicates.
package volume

import "sort"

// AppProcessGroup is the process group whose machines receive the storage volume.
const AppProcessGroup = "app"

// Machine is the subset of a machine record needed for planning.
type Machine struct {
	Region       string
	ProcessGroup string
}

// Existing is a volume that already exists on the platform.
type Existing struct {
	Name   string
	Region string
}

// Create is one create-volume call.
type Create struct {
	Name   string
	Region string
	Count  int
}

// MachinesPerRegion counts machines of the given process group by region.
func MachinesPerRegion(machines []Machine, group string) map[string]int {
	counts := map[string]int{}
	for _, machine := range machines {
		if machine.ProcessGroup != group {
			continue
		}
		counts[machine.Region]++
	}
	return counts
}

// Plan returns the create calls needed so every region has one volume named
// name per desired machine. Regions are returned in sorted order.
func Plan(desired map[string]int, existing []Existing, name string) []Create {
	have := map[string]int{}
	for _, vol := range existing {
		if vol.Name != name {
			continue
		}
		have[vol.Region]++
	}

	regions := make([]string, 0, len(desired))
	for region := range desired {
		regions = append(regions, region)
	}
	sort.Strings(regions)

	var creates []Create
	for _, region := range regions {
		needed := desired[region] - have[region]
		if needed <= 0 {
			continue
		}
		creates = append(creates, Create{Name: name, Region: region, Count: needed})
	}
	return creates
}
