package qusb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/autotimer/internal/snes"
)

func TestGetAddressRequest_HexOperands(t *testing.T) {
	req := getAddressRequest(snes.RegionFlags.Address(), snes.RegionFlags.Size)
	assert.Equal(t, OpGetAddress, req.Opcode)
	assert.Equal(t, SpaceSNES, req.Space)
	assert.Equal(t, []string{"F5F021", "4F7"}, req.Operands)
}

func TestDial_AttachesFirstDevice(t *testing.T) {
	srv := newFakeServer(t, "SD2SNES COM3", "SD2SNES COM4")

	c, err := Dial(context.Background(), srv.url(), 0)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "SD2SNES COM3", c.Device())

	info, err := c.Info()
	require.NoError(t, err)
	assert.Equal(t, "SD2SNES", info[1])
	assert.Equal(t, []string{OpDeviceList, OpAttach, OpInfo}, srv.opcodes())
}

func TestDial_NoDevice(t *testing.T) {
	srv := newFakeServer(t)

	_, err := Dial(context.Background(), srv.url(), 0)
	assert.ErrorIs(t, err, ErrNoDevice)
}

func TestDial_Unreachable(t *testing.T) {
	_, err := Dial(context.Background(), "ws://127.0.0.1:1", 0)
	assert.Error(t, err)
}

func TestGetAddress_ReassemblesFrames(t *testing.T) {
	srv := newFakeServer(t, "dev")
	srv.split = 3
	for i := uint32(0); i < 8; i++ {
		srv.set(0x100+i, byte(i+1))
	}

	c, err := Dial(context.Background(), srv.url(), 0)
	require.NoError(t, err)
	defer c.Close()

	data, err := c.GetAddress(0x100, 8)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, data)
}

func TestReadSnapshot_MapsRegions(t *testing.T) {
	srv := newFakeServer(t, "dev")
	srv.split = 0x100
	srv.set(snes.WRAMStart+snes.OffsetGameState, 0x07)
	srv.set(snes.WRAMStart+0xF411, 0x10)
	srv.set(snes.WRAMStart+snes.OffsetTransitionX, 0x34)
	srv.set(snes.WRAMStart+snes.OffsetTransitionX+1, 0x12)

	c, err := Dial(context.Background(), srv.url(), 0)
	require.NoError(t, err)
	defer c.Close()

	s, err := c.ReadSnapshot()
	require.NoError(t, err)
	assert.True(t, s.GameHasStarted())
	assert.Equal(t, uint8(0x10), s.Byte(0xF411))
	assert.Equal(t, uint16(0x1234), s.TransitionX())
}

func TestIsRaceROM(t *testing.T) {
	tests := []struct {
		name string
		flag byte
		want bool
	}{
		{"race", 1, true},
		{"open", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newFakeServer(t, "dev")
			srv.set(RaceROMAddress, tt.flag)

			c, err := Dial(context.Background(), srv.url(), 0)
			require.NoError(t, err)
			defer c.Close()

			race, err := c.IsRaceROM()
			require.NoError(t, err)
			assert.Equal(t, tt.want, race)
		})
	}
}
