package version

import (
	"fmt"
)

const (
	Version = "0.1"
)

// Used for "User-Agent" in HTTP and as PDF producer.
var VersionString = fmt.Sprintf("Go-PeachPDF %s", Version)
