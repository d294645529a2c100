package frame

import (
	"fmt"

	"github.com/spaghettifunk/pendulum/engine/core"
	"github.com/spaghettifunk/pendulum/engine/renderer/metadata"
)

// Resource is one frame slot: everything the CPU writes for a frame while the
// device may still be reading the previous contents of the other slots.
type Resource struct {
	ID    string
	Index int

	Commands  CommandAllocator
	Common    *MappedBuffer[metadata.CommonConstants]
	Objects   *MappedBuffer[metadata.ObjectConstants]
	Materials *MappedBuffer[metadata.MaterialConstants]

	// Stamp is the timeline value signalled when the last submission recorded
	// from this slot finished. Zero means never submitted.
	Stamp uint64
}

func NewResource(device ResourceDevice, index, commonCount, objectCount, materialCount int) (*Resource, error) {
	r := &Resource{
		ID:    core.NewIdentifier(),
		Index: index,
	}
	var err error
	if r.Commands, err = device.NewCommandAllocator(); err != nil {
		return nil, fmt.Errorf("%w: command allocator for slot %d: %v", core.ErrResourceCreation, index, err)
	}
	if r.Common, err = NewMappedBuffer[metadata.CommonConstants](device, commonCount, true); err != nil {
		r.Close()
		return nil, fmt.Errorf("%w: common constants for slot %d: %v", core.ErrResourceCreation, index, err)
	}
	if r.Objects, err = NewMappedBuffer[metadata.ObjectConstants](device, objectCount, true); err != nil {
		r.Close()
		return nil, fmt.Errorf("%w: object constants for slot %d: %v", core.ErrResourceCreation, index, err)
	}
	if r.Materials, err = NewMappedBuffer[metadata.MaterialConstants](device, materialCount, true); err != nil {
		r.Close()
		return nil, fmt.Errorf("%w: material constants for slot %d: %v", core.ErrResourceCreation, index, err)
	}
	return r, nil
}

func (r *Resource) Close() {
	if r.Materials != nil {
		r.Materials.Close()
	}
	if r.Objects != nil {
		r.Objects.Close()
	}
	if r.Common != nil {
		r.Common.Close()
	}
	if r.Commands != nil {
		r.Commands.Release()
		r.Commands = nil
	}
}
