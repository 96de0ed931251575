package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	rcfs "github.com/agentic-research/rcfs/internal/fs"
	"github.com/agentic-research/rcfs/internal/nfsmount"
	"github.com/agentic-research/rcfs/internal/tree"
	"github.com/agentic-research/rcfs/internal/vfs"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	configPath string
	rootFile   string
	strict     bool
	debug      bool
	backend    string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default ~/.mednafen/mednafen-09x.cfg)")
	rootCmd.PersistentFlags().StringVar(&rootFile, "root-file", tree.DefaultRootFile, "Name of the file holding top-level settings")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "Fail on naming conflicts instead of skipping the setting")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.Flags().StringVarP(&backend, "backend", "b", "fuse", "Mount backend: fuse or nfs")
}

var rootCmd = &cobra.Command{
	Use:   "rcfs [mountpoint]",
	Short: "rcfs: mount a dotted key/value configuration as a read-only filesystem",
	Args:  cobra.ExactArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(cmd.ErrOrStderr(), debug)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		mountPoint := args[0]

		if backend != "fuse" && backend != "nfs" {
			return fmt.Errorf("unknown backend %q (want fuse or nfs)", backend)
		}

		// The tree is complete before anything is mounted.
		t, err := loadTree()
		if err != nil {
			return err
		}
		adapter := vfs.New(t)

		switch backend {
		case "nfs":
			return mountNFS(cmd.Context(), adapter, mountPoint)
		default:
			fmt.Printf("Mounting %s at %s (fuse)...\n", configPath, mountPoint)
			return rcfs.Mount(rcfs.NewConfigFS(adapter, slog.Default()), mountPoint, nil)
		}
	},
}

// resolveConfigPath fills in the default configuration location.
func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home dir: %w", err)
	}
	return filepath.Join(home, ".mednafen", "mednafen-09x.cfg"), nil
}

// loadTree reads the configuration named by the global flags to exhaustion.
func loadTree() (*tree.Tree, error) {
	p, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}
	configPath = p

	t, err := tree.Load(p,
		tree.WithRootFile(rootFile),
		tree.WithStrict(strict),
		tree.WithLogger(slog.Default()),
	)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", p, err)
	}
	if n := len(t.Conflicts()); n > 0 {
		slog.Warn("settings skipped due to naming conflicts", "count", n)
	}
	return t, nil
}

// mountNFS serves the tree over NFS and mounts it, then waits for
// SIGINT/SIGTERM to unmount.
func mountNFS(ctx context.Context, a *vfs.Adapter, mountPoint string) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv, err := nfsmount.NewServer(nfsmount.NewConfigFS(a, slog.Default()))
	if err != nil {
		return err
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(srv.Serve)

	fmt.Printf("Mounting %s at %s (nfs, port %d)...\n", configPath, mountPoint, srv.Port())
	if err := nfsmount.Mount(srv.Port(), mountPoint); err != nil {
		_ = srv.Close()
		_ = eg.Wait()
		return err
	}

	eg.Go(func() error {
		<-ctx.Done()
		slog.Info("unmounting", "mountpoint", mountPoint)
		return errors.Join(nfsmount.Unmount(mountPoint), srv.Close())
	})
	return eg.Wait()
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
