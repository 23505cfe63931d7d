package scene

import (
	"fmt"

	"github.com/df07/go-bpwf/pkg/material"
	"github.com/df07/go-bpwf/pkg/script"
)

// AddMaterial writes a standalone material that objects can share
func (s *Scene) AddMaterial(m material.Material) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if err := s.claimMaterial(m.Name()); err != nil {
		return err
	}
	s.emitMaterial(m)
	return nil
}

func (s *Scene) emitMaterial(m material.Material) {
	m.Emit(s.b, s.dialect)
	s.materials.add(m.Name(), struct{}{})
	s.log.Debug().Str("material", m.Name()).Msg("added material")
}

// SetMaterial makes matl the active material of obj
func (s *Scene) SetMaterial(obj, matl string) error {
	if _, err := s.requireObject(obj); err != nil {
		return err
	}
	if !s.materials.has(matl) {
		return fmt.Errorf("%w: %q", ErrUnknownMaterial, matl)
	}
	s.b.A("%s.active_material = %s", script.ObjectVar(obj), script.MaterialVar(matl))
	return nil
}
