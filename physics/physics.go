// Package physics declares the rigid-body world the skeleton steps between
// its two update phases. The simulation itself lives outside this module.
package physics

import "github.com/binzume/mmdrig/geom"

// World advances a rigid-body simulation.
type World interface {
	StepSimulation(dt float32)
	StepSimulations(dt float32, maxSubSteps int)
}

// RigidBody is a body attached to a bone.
type RigidBody interface {
	Name() string
	WorldTransform() geom.Transform
}

// NullWorld records step calls and simulates nothing.
type NullWorld struct {
	Steps   int
	Elapsed float32
}

func (w *NullWorld) StepSimulation(dt float32) {
	w.Steps++
	w.Elapsed += dt
}

func (w *NullWorld) StepSimulations(dt float32, maxSubSteps int) {
	if maxSubSteps < 1 {
		maxSubSteps = 1
	}
	for i := 0; i < maxSubSteps; i++ {
		w.StepSimulation(dt / float32(maxSubSteps))
	}
}

// StaticBody is a RigidBody with a fixed transform.
type StaticBody struct {
	BodyName  string
	Transform geom.Transform
}

func (b *StaticBody) Name() string {
	return b.BodyName
}

func (b *StaticBody) WorldTransform() geom.Transform {
	return b.Transform
}
