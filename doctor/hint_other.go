//go:build !linux

package doctor

const insertHint = "grant accessibility/input-monitoring permission to your terminal"
