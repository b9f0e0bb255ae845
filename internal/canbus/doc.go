// Package canbus puts velocity commands on a CAN bus.
//
//   - [EncodeCommand] / [DecodeCommand]: 4-byte frame, v in mm/s then w in mrad/s
//   - [SocketCANWriter]: raw frame transmitter over SocketCAN
//   - [CommandSink]: adapter feeding controller output to a [FrameWriter]
package canbus
