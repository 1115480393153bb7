//go:build linux

package doctor

const insertHint = "sudo modprobe uinput && sudo chmod 660 /dev/uinput && sudo chgrp input /dev/uinput"
