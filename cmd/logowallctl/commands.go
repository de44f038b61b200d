package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cryptologowall/internal/app"
	"github.com/cryptologowall/internal/config"
	"github.com/cryptologowall/internal/logger"
	"github.com/cryptologowall/internal/models"
	"github.com/cryptologowall/internal/provider"
	"github.com/cryptologowall/internal/service"

	"github.com/spf13/cobra"
)

var cliActor = service.ActorContext{IP: "127.0.0.1", UserAgent: "logowallctl"}

// loadConfig 读取配置并初始化日志
func loadConfig() *config.Config {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	return cfg
}

// openDatabase 连接数据库并迁移表结构，不写入初始数据
func openDatabase(cfg *config.Config) error {
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, false); err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	if err := models.AutoMigrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

// openContainer 连接数据库并构建完整的服务容器
func openContainer() (*provider.Container, error) {
	cfg := loadConfig()
	if err := openDatabase(cfg); err != nil {
		return nil, err
	}
	return provider.NewContainer(cfg), nil
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if err := openDatabase(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %d tables (%s)\n", len(models.AllModels()), cfg.Database.Driver)
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the bootstrap admin and builtin translations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.InitStorage(loadConfig()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "seed completed")
			return nil
		},
	}
}

func createAdminCmd() *cobra.Command {
	var input service.AdminUserInput
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin or moderator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openContainer()
			if err != nil {
				return err
			}
			admin, err := c.AdminUserService.Create(input, cliActor)
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s #%d (%s)\n", admin.Role, admin.ID, admin.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input.Username, "username", "u", "", "login name")
	cmd.Flags().StringVarP(&input.Email, "email", "e", "", "email address")
	cmd.Flags().StringVarP(&input.Password, "password", "p", "", "initial password")
	cmd.Flags().StringVarP(&input.Role, "role", "r", "moderator", "admin or moderator")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func checkPaymentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-payment [payment_id]",
		Short: "Ask CryptoBot about a payment and activate it when paid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openContainer()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			view, err := c.PaymentService.CheckPayment(ctx, args[0], cliActor)
			if err != nil {
				return fmt.Errorf("check payment: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], view.Status)
			return nil
		},
	}
}

func reconcileCmd() *cobra.Command {
	var olderThan time.Duration
	var limit int
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Poll stale pending payments once",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openContainer()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			completed, err := c.PaymentService.ReconcilePending(ctx, olderThan, limit)
			if err != nil {
				return fmt.Errorf("reconcile: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "completed %d payments\n", completed)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 10*time.Minute, "only payments created before now minus this duration")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "maximum payments to poll")
	return cmd
}

func sitemapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sitemap",
		Short: "Regenerate sitemap.xml",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openContainer()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			path, err := c.SitemapService.Generate(ctx)
			if err != nil {
				return fmt.Errorf("generate sitemap: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export all tables into a gzipped JSON-lines file",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openContainer()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			file, err := c.BackupService.Create(ctx)
			if err != nil {
				return fmt.Errorf("create backup: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d bytes)\n", file.Name, file.Size)
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List existing backups",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openContainer()
			if err != nil {
				return err
			}
			files, err := c.BackupService.List()
			if err != nil {
				return fmt.Errorf("list backups: %w", err)
			}
			for _, file := range files {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\n", file.Name, file.Size, file.CreatedAt.Format(time.RFC3339))
			}
			return nil
		},
	})
	return cmd
}
