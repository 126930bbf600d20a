package raster

import (
	"fmt"

	"github.com/printworks/ipptransform/internal/xerr"
)

var (
	errMalformed = fmt.Errorf("raster: %w", xerr.MalformedHeader)
	errOverrun   = fmt.Errorf("raster: %w", xerr.CompressionOverrun)
	errIO        = fmt.Errorf("raster: %w", xerr.IoError)
)
