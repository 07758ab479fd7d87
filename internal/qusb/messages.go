package qusb

import "fmt"

// Opcodes used by the producer.
const (
	OpDeviceList = "DeviceList"
	OpAttach     = "Attach"
	OpInfo       = "Info"
	OpGetAddress = "GetAddress"
)

// SpaceSNES is the only address space requested.
const SpaceSNES = "SNES"

// RaceROMAddress holds a byte that is 1 on race ROMs.
const RaceROMAddress uint32 = 0x180213

// Request is a text frame sent to the server.
type Request struct {
	Opcode   string   `json:"Opcode"`
	Space    string   `json:"Space"`
	Operands []string `json:"Operands,omitempty"`
}

// Response is a text frame received from the server.
type Response struct {
	Results []string `json:"Results"`
}

func deviceListRequest() Request {
	return Request{Opcode: OpDeviceList, Space: SpaceSNES}
}

func attachRequest(device string) Request {
	return Request{Opcode: OpAttach, Space: SpaceSNES, Operands: []string{device}}
}

func infoRequest(device string) Request {
	return Request{Opcode: OpInfo, Space: SpaceSNES, Operands: []string{device}}
}

// getAddressRequest encodes address and size as uppercase hex without a
// prefix, which is what the server expects.
func getAddressRequest(address uint32, size int) Request {
	return Request{
		Opcode:   OpGetAddress,
		Space:    SpaceSNES,
		Operands: []string{fmt.Sprintf("%X", address), fmt.Sprintf("%X", size)},
	}
}
