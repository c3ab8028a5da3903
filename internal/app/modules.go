package app

import (
	"github.com/specialistvlad/objectmomma/internal/registry"
	"github.com/specialistvlad/objectmomma/modules/blog"
)

// coreModules returns the modules compiled into the objectmomma binary.
// Each call returns fresh module instances with empty stores.
func coreModules() []registry.Module {
	return []registry.Module{
		blog.New(nil),
	}
}
