package display

import (
	"errors"
	"sync"
)

// PCD8544 instruction set.
const (
	CmdFunctionSet = 0x20 // | PD | V | H
	FuncPowerDown  = 0x04
	FuncVertical   = 0x02
	FuncExtended   = 0x01

	// Basic instruction set (H = 0).
	CmdDisplayControl = 0x08 // | D | E
	DisplayBlank      = 0x00
	DisplayAllOn      = 0x01
	DisplayNormal     = 0x04
	DisplayInverse    = 0x05
	CmdSetY           = 0x40 // | page (0..5)
	CmdSetX           = 0x80 // | column (0..83)

	// Extended instruction set (H = 1).
	CmdTempControl = 0x04 // | TC (0..3)
	CmdBias        = 0x10 // | BS (0..7)
	CmdSetVop      = 0x80 // | Vop (0..127)
)

// Config holds the analog panel settings sent during Init.
type Config struct {
	Contrast uint8 // Vop, 0..127
	Bias     uint8 // 0..7
	TempCoef uint8 // 0..3
}

// DefaultConfig matches the common 84x48 Nokia 5110 modules.
var DefaultConfig = Config{Contrast: 0x31, Bias: 0x04, TempCoef: 0x00}

// Init sends the power-up sequence and leaves the controller in the basic
// instruction set, horizontal addressing, normal display mode.
func Init(t Transport, cfg Config) error {
	if t == nil {
		return errors.New("pcd8544: nil transport")
	}
	return t.Command(
		CmdFunctionSet|FuncExtended,
		CmdSetVop|(cfg.Contrast&0x7f),
		CmdTempControl|(cfg.TempCoef&0x03),
		CmdBias|(cfg.Bias&0x07),
		CmdFunctionSet,
		CmdDisplayControl|DisplayNormal,
	)
}

// Controller emulates the PCD8544 display RAM. It decodes the same
// command/data stream a real panel receives, so it serves as the panel of
// the desktop simulator and lets tests check what Render put on the wire.
//
// It is safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	ram [Pages][Width]byte
	x   int
	y   int

	powerDown bool
	vertical  bool
	extended  bool
	mode      byte

	contrast uint8
	bias     uint8
	tempCoef uint8

	dataBytes uint64
}

// NewController returns a controller in its reset state (powered down,
// display blank).
func NewController() *Controller {
	return &Controller{powerDown: true, mode: DisplayBlank}
}

// Reset restores the power-on state. RAM content is undefined on a real
// panel; the emulation clears it.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ram = [Pages][Width]byte{}
	c.x, c.y = 0, 0
	c.powerDown, c.vertical, c.extended = true, false, false
	c.mode = DisplayBlank
	c.contrast, c.bias, c.tempCoef = 0, 0, 0
	c.dataBytes = 0
}

func (c *Controller) Command(cmd ...byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, b := range cmd {
		c.command(b)
	}
	return nil
}

func (c *Controller) command(b byte) {
	if b&0xf8 == CmdFunctionSet {
		c.powerDown = b&FuncPowerDown != 0
		c.vertical = b&FuncVertical != 0
		c.extended = b&FuncExtended != 0
		return
	}
	if c.extended {
		switch {
		case b&0x80 != 0:
			c.contrast = b & 0x7f
		case b&0xf8 == CmdBias:
			c.bias = b & 0x07
		case b&0xfc == CmdTempControl:
			c.tempCoef = b & 0x03
		}
		return
	}
	switch {
	case b&0x80 != 0:
		if x := int(b & 0x7f); x < Width {
			c.x = x
		}
	case b&0xf8 == CmdSetY:
		if y := int(b & 0x07); y < Pages {
			c.y = y
		}
	case b&0xf8 == CmdDisplayControl:
		c.mode = b & 0x05
	}
}

func (c *Controller) Data(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range b {
		c.ram[c.y][c.x] = v
		c.dataBytes++
		c.advance()
	}
	return nil
}

func (c *Controller) advance() {
	if c.vertical {
		c.y++
		if c.y < Pages {
			return
		}
		c.y = 0
		c.x++
		if c.x >= Width {
			c.x = 0
		}
		return
	}
	c.x++
	if c.x < Width {
		return
	}
	c.x = 0
	c.y++
	if c.y >= Pages {
		c.y = 0
	}
}

// RAM returns a copy of the display RAM.
func (c *Controller) RAM() [Pages][Width]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ram
}

// Visible returns the pixels as the panel shows them, taking the power
// state and display mode into account.
func (c *Controller) Visible() [Pages][Width]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out [Pages][Width]byte
	if c.powerDown {
		return out
	}
	switch c.mode {
	case DisplayBlank:
		return out
	case DisplayAllOn:
		for p := range out {
			for x := range out[p] {
				out[p][x] = 0xff
			}
		}
		return out
	case DisplayInverse:
		for p := range out {
			for x := range out[p] {
				out[p][x] = ^c.ram[p][x]
			}
		}
		return out
	}
	return c.ram
}

// Contrast returns the last Vop value written.
func (c *Controller) Contrast() uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.contrast
}

// DataBytes returns the number of data bytes received since reset.
func (c *Controller) DataBytes() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dataBytes
}
