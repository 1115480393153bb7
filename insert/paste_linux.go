//go:build linux

package insert

import (
	"encoding/binary"
	"errors"
	"os"
	"sync"
	"syscall"
	"time"
)

// A virtual uinput keyboard works on both X11 and Wayland, unlike XTest.

// ioctl constants from linux/uinput.h
const (
	uiSetEvbit  = 0x40045564 // UI_SET_EVBIT
	uiSetKeybit = 0x40045565 // UI_SET_KEYBIT
	uiDevCreate = 0x5501     // UI_DEV_CREATE
)

// input event types from linux/input-event-codes.h
const (
	evSyn = 0x00
	evKey = 0x01
)

// key codes from linux/input-event-codes.h
const (
	keyLeftCtrl = 29
	keyV        = 47
)

const busUSB = 0x03

type inputEvent struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

type inputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

type uinputUserDev struct {
	Name         [80]byte
	ID           inputID
	FfEffectsMax uint32
	Absmax       [64]int32
	Absmin       [64]int32
	Absfuzz      [64]int32
	Absflat      [64]int32
}

var (
	uinputFd   *os.File
	uinputOnce sync.Once
	uinputErr  error
)

func initPaste() error {
	uinputOnce.Do(func() {
		path := "/dev/uinput"
		if _, err := os.Stat(path); err != nil {
			path = "/dev/input/uinput"
			if _, err := os.Stat(path); err != nil {
				uinputErr = errors.New("uinput device not found, try: sudo modprobe uinput")
				return
			}
		}
		f, err := os.OpenFile(path, os.O_WRONLY|syscall.O_NONBLOCK, os.ModeDevice)
		if err != nil {
			uinputErr = err
			return
		}
		if _, _, errno := syscall.Syscall(syscall.SYS_IOCTL, f.Fd(), uiSetEvbit, evKey); errno != 0 {
			uinputErr = errno
			f.Close()
			return
		}
		if _, _, errno := syscall.Syscall(syscall.SYS_IOCTL, f.Fd(), uiSetEvbit, evSyn); errno != 0 {
			uinputErr = errno
			f.Close()
			return
		}
		// Register all standard keys so udev classifies this as a keyboard
		for i := uintptr(0); i < 256; i++ {
			if _, _, errno := syscall.Syscall(syscall.SYS_IOCTL, f.Fd(), uiSetKeybit, i); errno != 0 {
				uinputErr = errno
				f.Close()
				return
			}
		}
		dev := uinputUserDev{}
		copy(dev.Name[:], "murmur-kbd")
		dev.ID.Bustype = busUSB
		dev.ID.Vendor = 0x1209
		dev.ID.Product = 0x6d75
		dev.ID.Version = 1
		if err := binary.Write(f, binary.LittleEndian, &dev); err != nil {
			uinputErr = err
			f.Close()
			return
		}
		if _, _, errno := syscall.Syscall(syscall.SYS_IOCTL, f.Fd(), uiDevCreate, 0); errno != 0 {
			uinputErr = errno
			f.Close()
			return
		}
		uinputFd = f
		// Give the compositor time to recognize the new input device
		time.Sleep(200 * time.Millisecond)
	})
	return uinputErr
}

func writeEvent(typ, code uint16, value int32) error {
	ev := inputEvent{Type: typ, Code: code, Value: value}
	return binary.Write(uinputFd, binary.LittleEndian, &ev)
}

func syn() error {
	return writeEvent(evSyn, 0, 0)
}

func keyEvent(code uint16, down bool) error {
	value := int32(0)
	if down {
		value = 1
	}
	if err := writeEvent(evKey, code, value); err != nil {
		return err
	}
	if err := syn(); err != nil {
		return err
	}
	// Let the compositor register each transition
	time.Sleep(5 * time.Millisecond)
	return nil
}

func pasteChord() error {
	if err := initPaste(); err != nil {
		return err
	}
	if err := keyEvent(keyLeftCtrl, true); err != nil {
		return err
	}
	if err := keyEvent(keyV, true); err != nil {
		return err
	}
	if err := keyEvent(keyV, false); err != nil {
		return err
	}
	return keyEvent(keyLeftCtrl, false)
}
