package cli

import (
	"fmt"

	"github.com/psaab/netshell/pkg/cmdtree"
	"github.com/psaab/netshell/pkg/mode"
)

// NewApplianceRegistry builds the command table for mode.Appliance with
// every handler bound to svc.
func NewApplianceRegistry(svc *Services) (*cmdtree.Registry, error) {
	reg := cmdtree.NewRegistry(cmdtree.ApplianceModes, cmdtree.ApplianceHints())
	sys := newSystemCommands(svc)

	groups := [][]*cmdtree.Descriptor{
		modeDescriptors(svc),
		showDescriptors(svc, reg, sys),
		systemDescriptors(svc, sys),
		ipDescriptors(svc),
		leafCommands(svc),
	}
	for _, g := range groups {
		for _, d := range g {
			reg.Register(d)
		}
	}
	if err := reg.Validate(mode.Appliance); err != nil {
		return nil, fmt.Errorf("build command registry: %w", err)
	}
	return reg, nil
}
