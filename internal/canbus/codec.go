package canbus

import (
	"errors"
	"fmt"
	"math"

	"github.com/samber/lo"
	"github.com/san-kum/mppic/internal/mppi"
	"go.einride.tech/can"
)

const (
	// DefaultCommandID is the standard identifier of the velocity command frame.
	DefaultCommandID uint32 = 0x201

	commandLength = 4
	signalBits    = 16
	scale         = 1000.0
)

var ErrFrameMismatch = errors.New("canbus: frame is not a velocity command")

// EncodeCommand packs v in mm/s and w in mrad/s as signed little-endian 16-bit
// signals. Values beyond the signal range saturate.
func EncodeCommand(id uint32, cmd mppi.Command) (can.Frame, error) {
	f := can.Frame{ID: id, Length: commandLength}
	f.Data.SetSignedBitsLittleEndian(0, signalBits, toRaw(cmd.V))
	f.Data.SetSignedBitsLittleEndian(signalBits, signalBits, toRaw(cmd.W))
	if err := f.Validate(); err != nil {
		return can.Frame{}, fmt.Errorf("encode command: %w", err)
	}
	return f, nil
}

// DecodeCommand is the inverse of EncodeCommand. The returned command has no stamp.
func DecodeCommand(id uint32, f can.Frame) (mppi.Command, error) {
	if f.ID != id || f.Length != commandLength || f.IsRemote || f.IsExtended {
		return mppi.Command{}, fmt.Errorf("%w: %s", ErrFrameMismatch, f.String())
	}
	return mppi.Command{
		V: float64(f.Data.SignedBitsLittleEndian(0, signalBits)) / scale,
		W: float64(f.Data.SignedBitsLittleEndian(signalBits, signalBits)) / scale,
	}, nil
}

func toRaw(v float64) int64 {
	if math.IsNaN(v) {
		return 0
	}
	return int64(lo.Clamp(math.Round(v*scale), math.MinInt16, math.MaxInt16))
}
