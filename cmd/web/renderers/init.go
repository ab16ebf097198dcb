package renderers

// Import all renderer packages to ensure they register themselves
// Note: Default renderer is not imported here - it's used as a fallback in the registry
import (
	_ "github.com/rubiojr/armory/cmd/web/renderers/dictionary"
	_ "github.com/rubiojr/armory/cmd/web/renderers/list"
)
