// Package module defines the minimal contract for a modkit module
package module

import (
	phttp "pushverify/internal/platform/net/http"
)

// Module is what main mounts and cross wires
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
