// Package cmd finsimctl 命令行：本地或远程执行金融测算
package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/wyfcoding/finsimulator/pkg/logger"
)

// 构建时通过 -ldflags 注入
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

type rootOptions struct {
	logLevel string
}

// NewRootCmd 创建根命令
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "finsimctl",
		Short: "Financial projection engine CLI",
		Long: `finsimctl runs mortgage, credit, savings, goal, Monte Carlo and
comparison calculations, either in-process or against a running
finsimulator gRPC endpoint.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return logger.Init(logger.Config{
				Level:  opts.logLevel,
				Format: "text",
				Writer: cmd.ErrOrStderr(),
			})
		},
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(
		newCalcCmd(),
		newHealthCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute 执行根命令
func Execute() error {
	root := NewRootCmd()
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	return root.ExecuteContext(context.Background())
}
