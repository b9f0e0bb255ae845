package main

import (
	"fmt"
	"os"

	"github.com/san-kum/mppic/internal/config"
	"github.com/san-kum/mppic/internal/critics"
	"github.com/san-kum/mppic/internal/models"
	"github.com/spf13/cobra"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list presets, motion models and critics",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			fmt.Println("motion models:")
			for _, m := range models.Names() {
				fmt.Printf("  %s\n", m)
			}
			fmt.Println("critics:")
			for _, c := range critics.Available() {
				fmt.Printf("  %s\n", c)
			}
		},
	}
}

func newConfigCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "print or write the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(v)
			if err != nil {
				return err
			}
			if out != "" {
				return config.Save(out, cfg)
			}
			return config.Encode(os.Stdout, cfg)
		},
	}
	addLoopFlags(cmd)
	cmd.Flags().StringVarP(&out, "output", "o", "", "write to this file instead of stdout")
	return cmd
}
