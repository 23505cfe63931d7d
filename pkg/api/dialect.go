// Package api describes the differences between host application releases
// that change the text of generated statements.
package api

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Dialect holds the version-specific spellings used when emitting scripts
type Dialect struct {
	Version *semver.Version

	// LightData is the bpy.data collection holding light datablocks
	LightData string
	// MatMul is the matrix multiplication operator of the host math library
	MatMul string
	// BooleanSolver is the solver assigned to boolean modifiers
	BooleanSolver string
	// ApplyAsData reports whether modifier_apply needs apply_as="DATA"
	ApplyAsData bool
	// SpecularInput names the Principled BSDF specular socket
	SpecularInput string
	// RoughnessInput names the Principled BSDF roughness socket
	RoughnessInput string
	// Collection is the expression new objects are linked into
	Collection string
}

var (
	v280 = semver.MustParse("2.80.0")
	v290 = semver.MustParse("2.90.0")
	v291 = semver.MustParse("2.91.0")
	v400 = semver.MustParse("4.0.0")
)

// ForVersion returns the dialect of the given host release
func ForVersion(v *semver.Version) Dialect {
	d := Dialect{
		Version:        v,
		LightData:      "lights",
		MatMul:         "@",
		BooleanSolver:  "EXACT",
		SpecularInput:  "Specular IOR Level",
		RoughnessInput: "Roughness",
		Collection:     "bpy.context.collection",
	}
	if v.LessThan(v400) {
		d.SpecularInput = "Specular"
	}
	if v.LessThan(v291) {
		d.BooleanSolver = "CARVE"
	}
	if v.LessThan(v290) {
		d.ApplyAsData = true
	}
	if v.LessThan(v280) {
		d.LightData = "lamps"
		d.MatMul = "*"
		d.Collection = "bpy.context.scene"
	}
	return d
}

// Parse returns the dialect for a version string such as "3.6" or "4.2.1"
func Parse(version string) (Dialect, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return Dialect{}, fmt.Errorf("invalid host version %q: %w", version, err)
	}
	return ForVersion(v), nil
}

// Default targets the 4.x release line
func Default() Dialect {
	return ForVersion(semver.MustParse("4.2.0"))
}

// Legacy reports whether the host predates the 2.80 API overhaul
func (d Dialect) Legacy() bool {
	return d.Version != nil && d.Version.LessThan(v280)
}

// Select returns the statement selecting obj
func (d Dialect) Select(obj string) string {
	if d.Legacy() {
		return obj + ".select = True"
	}
	return obj + ".select_set(True)"
}

// Deselect returns the statement deselecting obj
func (d Dialect) Deselect(obj string) string {
	if d.Legacy() {
		return obj + ".select = False"
	}
	return obj + ".select_set(False)"
}

// SetActive returns the statement making obj the active object
func (d Dialect) SetActive(obj string) string {
	if d.Legacy() {
		return "bpy.context.scene.objects.active = " + obj
	}
	return "bpy.context.view_layer.objects.active = " + obj
}

// Link returns the statement linking obj into the current collection
func (d Dialect) Link(obj string) string {
	return d.Collection + ".objects.link(" + obj + ")"
}

// Unlink returns the statement unlinking obj from the current collection
func (d Dialect) Unlink(obj string) string {
	return d.Collection + ".objects.unlink(" + obj + ")"
}

// ModifierApply returns the statement applying the named modifier
func (d Dialect) ModifierApply(quotedName string) string {
	if d.ApplyAsData {
		return `bpy.ops.object.modifier_apply(apply_as="DATA", modifier=` + quotedName + `)`
	}
	return `bpy.ops.object.modifier_apply(modifier=` + quotedName + `)`
}

// ViewLayer returns the expression for the first view layer of the named scene
func (d Dialect) ViewLayer(scene string) string {
	if d.Legacy() {
		return fmt.Sprintf("bpy.data.scenes[%q].render.layers[0]", scene)
	}
	return fmt.Sprintf("bpy.data.scenes[%q].view_layers[0]", scene)
}
