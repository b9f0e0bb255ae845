package canbus

import (
	"context"
	"fmt"
	"net"

	"github.com/san-kum/mppic/internal/mppi"
	"go.einride.tech/can"
	"go.einride.tech/can/pkg/socketcan"
	"go.uber.org/zap"
)

type FrameWriter interface {
	WriteFrame(ctx context.Context, frame can.Frame) error
}

// SocketCANWriter transmits raw frames on a SocketCAN interface such as vcan0.
type SocketCANWriter struct {
	conn net.Conn
	tx   *socketcan.Transmitter
}

func DialSocketCAN(ctx context.Context, iface string) (*SocketCANWriter, error) {
	conn, err := socketcan.DialContext(ctx, "can", iface)
	if err != nil {
		return nil, fmt.Errorf("socketcan dial %s: %w", iface, err)
	}
	return &SocketCANWriter{
		conn: conn,
		tx:   socketcan.NewTransmitter(conn),
	}, nil
}

func (w *SocketCANWriter) WriteFrame(ctx context.Context, frame can.Frame) error {
	return w.tx.TransmitFrame(ctx, frame)
}

func (w *SocketCANWriter) Close() error {
	if w.conn != nil {
		return w.conn.Close()
	}
	return nil
}

// CommandSink encodes every controller command and hands it to a frame writer.
type CommandSink struct {
	id     uint32
	writer FrameWriter
	logger *zap.Logger
	sent   int
}

func NewCommandSink(id uint32, writer FrameWriter, logger *zap.Logger) *CommandSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandSink{id: id, writer: writer, logger: logger}
}

func (s *CommandSink) Send(ctx context.Context, cmd mppi.Command) error {
	f, err := EncodeCommand(s.id, cmd)
	if err != nil {
		return err
	}
	if err := s.writer.WriteFrame(ctx, f); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	s.sent++
	s.logger.Debug("command frame sent", zap.Stringer("frame", &f))
	return nil
}

// Sent returns the number of frames written so far.
func (s *CommandSink) Sent() int { return s.sent }
