package mcp

import (
	"fmt"
	"strings"
)

// moduleCatalog is the static namespace listing served by list_modules.
// The reference's module tree is stable across Blender releases, so a
// fixed catalog avoids an index round trip.
var moduleCatalog = map[string][]string{
	"":          {"bpy.ops", "bpy.types", "bpy.data", "bpy.context", "bmesh", "bgl", "blf", "aud"},
	"bpy.ops":   {"mesh", "object", "scene", "material", "texture", "image", "curve", "armature"},
	"bpy.types": {"Mesh", "Object", "Scene", "Material", "Texture", "Image", "Curve", "Armature"},
	"bmesh":     {"ops", "types", "utils", "geometry"},
}

// FormatModules renders the catalog entry for a parent module. An empty
// parent lists the top-level namespaces.
func FormatModules(parentModule string) string {
	available, ok := moduleCatalog[parentModule]
	if !ok || len(available) == 0 {
		return fmt.Sprintf("No submodules found for '%s'", parentModule)
	}

	var out []string
	if parentModule == "" {
		out = append(out, "Top-level modules:\n")
	} else {
		out = append(out, fmt.Sprintf("Modules under '%s':\n", parentModule))
	}

	for _, module := range available {
		if parentModule == "" {
			out = append(out, fmt.Sprintf("- %s", module))
		} else {
			out = append(out, fmt.Sprintf("- %s.%s", parentModule, module))
		}
	}

	return strings.Join(out, "\n")
}
