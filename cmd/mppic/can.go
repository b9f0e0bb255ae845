package main

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/mppic/internal/canbus"
	"github.com/san-kum/mppic/internal/mppi"
	"github.com/spf13/cobra"
)

func newCANSendCmd() *cobra.Command {
	var (
		iface  string
		id     uint32
		lin    float64
		ang    float64
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "can-send",
		Short: "send one velocity command frame",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdVel := mppi.Command{Stamp: time.Now(), V: lin, W: ang}
			frame, err := canbus.EncodeCommand(id, cmdVel)
			if err != nil {
				return err
			}
			if dryRun {
				fmt.Println(frame.String())
				return nil
			}

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			w, err := canbus.DialSocketCAN(ctx, iface)
			if err != nil {
				return err
			}
			defer w.Close()

			if err := canbus.NewCommandSink(id, w, nil).Send(ctx, cmdVel); err != nil {
				return err
			}
			fmt.Printf("sent %s on %s\n", frame.String(), iface)
			return nil
		},
	}

	cmd.Flags().StringVar(&iface, "iface", "vcan0", "SocketCAN interface")
	cmd.Flags().Uint32Var(&id, "id", canbus.DefaultCommandID, "CAN identifier")
	cmd.Flags().Float64Var(&lin, "v", 0, "linear velocity [m/s]")
	cmd.Flags().Float64Var(&ang, "w", 0, "angular velocity [rad/s]")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the frame instead of sending it")
	return cmd
}
