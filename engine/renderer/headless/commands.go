package headless

import (
	"fmt"

	"github.com/spaghettifunk/pendulum/engine/core"
	"github.com/spaghettifunk/pendulum/engine/renderer/frame"
	"github.com/spaghettifunk/pendulum/engine/renderer/metadata"
)

type opcode uint8

const (
	opClear opcode = iota
	opSetPipeline
	opSetStencilRef
	opBindCommon
	opBindObject
	opBindMaterial
	opDraw
)

type command struct {
	op       opcode
	pipeline metadata.PipelineKind
	value    uint32
	index    int
	texture  int
	geometry *metadata.Geometry
	submesh  metadata.Submesh
}

// commandList is recorded on the caller's goroutine and replayed by the
// worker. Constants are read from the slot when the list executes.
type commandList struct {
	slot      *frame.Resource
	allocator *commandAllocator
	commands  []command

	pipelineSet bool
	// first recording failure, returned by EndFrame
	err error
}

func (l *commandList) fail(format string, args ...interface{}) {
	if l.err == nil {
		l.err = fmt.Errorf("%w: %s", core.ErrDeviceLost, fmt.Sprintf(format, args...))
	}
}

func (l *commandList) SetPipeline(kind metadata.PipelineKind) {
	if kind < 0 || kind >= metadata.PipelineKindCount {
		l.fail("pipeline kind %d out of range", kind)
		return
	}
	l.pipelineSet = true
	l.commands = append(l.commands, command{op: opSetPipeline, pipeline: kind})
}

func (l *commandList) SetStencilRef(ref uint32) {
	l.commands = append(l.commands, command{op: opSetStencilRef, value: ref})
}

func (l *commandList) BindCommon(index int) {
	l.commands = append(l.commands, command{op: opBindCommon, index: index})
}

func (l *commandList) BindObject(index int) {
	l.commands = append(l.commands, command{op: opBindObject, index: index})
}

func (l *commandList) BindMaterial(index int, diffuseTexture int) {
	l.commands = append(l.commands, command{op: opBindMaterial, index: index, texture: diffuseTexture})
}

func (l *commandList) DrawIndexed(geometry *metadata.Geometry, submesh metadata.Submesh) {
	if !l.pipelineSet {
		l.fail("draw of '%s' without a pipeline", geometry.Name)
		return
	}
	if _, ok := geometry.InternalData.(*geometryData); !ok {
		l.fail("draw of '%s' before upload", geometry.Name)
		return
	}
	l.commands = append(l.commands, command{op: opDraw, geometry: geometry, submesh: submesh})
}
