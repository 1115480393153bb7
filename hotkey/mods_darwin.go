//go:build darwin

package hotkey

import xhk "golang.design/x/hotkey"

const (
	modAlt   = xhk.ModOption
	modSuper = xhk.ModCmd
)
