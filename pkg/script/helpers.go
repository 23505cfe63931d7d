package script

import (
	_ "embed"
	"strings"
)

//go:embed helpers.py
var helpers string

// Helpers returns the camera matrix helper module prepended to every
// script. Hosts whose math library predates the @ operator get matmul "*".
func Helpers(matmul string) string {
	if matmul == "" || matmul == "@" {
		return helpers
	}
	legacy := strings.ReplaceAll(helpers, " @ ", " "+matmul+" ")
	return strings.ReplaceAll(legacy, "bpy.context.view_layer.update()", "bpy.context.scene.update()")
}
