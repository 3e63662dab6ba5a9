package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/phanxgames/pad"
)

func withConfig(ctx context.Context, cfg pad.Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// configFromContext returns the configuration attached to ctx, or the
// defaults.
func configFromContext(ctx context.Context) pad.Config {
	if cfg, ok := ctx.Value(configKey).(pad.Config); ok {
		return cfg
	}
	return pad.DefaultConfig()
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return configFromContext(cmd.Context()).Encode(cmd.OutOrStdout())
		},
	}
}
