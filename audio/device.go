package audio

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

var btKeywords = []string{
	"airpods", "bose", "jabra", "galaxy buds", "pixel buds",
	"sony wh-", "sony wf-", "powerbeats", "soundcore",
	"bluetooth", " bt ", " bt)",
}

// IsBluetooth guesses whether a device name belongs to a Bluetooth headset.
// Those resample aggressively and hurt transcription quality, so the UI
// warns when one is selected.
func IsBluetooth(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range btKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// MatchDevice resolves a configured device hint against the available
// devices: exact name first, then case-insensitive substring. A nil result
// with nil error means "use the system default".
func MatchDevice(ctx Context, hint string) (*DeviceInfo, error) {
	if hint == "" {
		return nil, nil
	}
	devices, err := ctx.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerating devices: %w", err)
	}
	for i := range devices {
		if devices[i].Name == hint {
			return &devices[i], nil
		}
	}
	lowerHint := strings.ToLower(hint)
	for i := range devices {
		if strings.Contains(strings.ToLower(devices[i].Name), lowerHint) {
			return &devices[i], nil
		}
	}
	return nil, fmt.Errorf("no capture device matches %q", hint)
}

// SelectDevice runs an interactive arrow-key picker on the terminal. With a
// single device it is returned without prompting.
func SelectDevice(ctx Context) (*DeviceInfo, error) {
	devices, err := ctx.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerating devices: %w", err)
	}
	if len(devices) == 0 {
		return nil, fmt.Errorf("no capture devices found")
	}
	if len(devices) == 1 {
		return &devices[0], nil
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("setting raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	cursor := 0
	render := func() {
		fmt.Print("\r\x1b[J")
		fmt.Print("Select microphone (arrows or j/k, Enter to confirm):\r\n\r\n")
		for i, d := range devices {
			tag := ""
			if IsBluetooth(d.Name) {
				tag = " \x1b[33m[BT: lower quality]\x1b[0m"
			}
			marker := "   "
			if i == cursor {
				marker = " \x1b[1;36m>\x1b[0m "
			}
			fmt.Printf("%s%s%s\r\n", marker, d.Name, tag)
		}
	}
	render()

	buf := make([]byte, 3)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}

		switch {
		case n == 1 && buf[0] == '\r':
			fmt.Print("\r\n")
			return &devices[cursor], nil
		case n == 1 && buf[0] == 3: // Ctrl+C
			fmt.Print("\r\n")
			term.Restore(fd, oldState)
			os.Exit(130)
		case n == 1 && buf[0] == 'j', n == 3 && buf[0] == 0x1b && buf[2] == 'B':
			if cursor < len(devices)-1 {
				cursor++
			}
		case n == 1 && buf[0] == 'k', n == 3 && buf[0] == 0x1b && buf[2] == 'A':
			if cursor > 0 {
				cursor--
			}
		}

		fmt.Printf("\x1b[%dA", len(devices)+2)
		render()
	}
}
