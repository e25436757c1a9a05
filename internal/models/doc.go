// package models defines the value types shared between the robot client,
// the event layer, and the CLI: colors, movement settings, coordinates, and
// the asset/device records the firmware returns.
package models
