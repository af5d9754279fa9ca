// Package coursedump contains the version of the coursedump tool.
package coursedump

// Version is the tool version.
const Version = "0.4.1"
