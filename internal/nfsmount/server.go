package nfsmount

import (
	"errors"
	"fmt"
	"net"
	"os/exec"
	"runtime"

	billy "github.com/go-git/go-billy/v5"
	nfs "github.com/willscott/go-nfs"
	nfshelper "github.com/willscott/go-nfs/helpers"
)

// Server manages the NFS server lifecycle.
type Server struct {
	listener net.Listener
	handler  nfs.Handler
	port     int
}

// NewServer listens on an ephemeral localhost port. Call Serve to start
// answering requests for fs.
func NewServer(fs billy.Filesystem) (*Server, error) {
	listener, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return nil, fmt.Errorf("nfs listen: %w", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port

	handler := nfshelper.NewNullAuthHandler(fs)
	cacheHelper := nfshelper.NewCachingHandler(handler, 4096)

	return &Server{listener: listener, handler: cacheHelper, port: port}, nil
}

// Serve blocks until the listener is closed. The error from a closed
// listener is reported as nil.
func (s *Server) Serve() error {
	err := nfs.Serve(s.listener, s.handler)
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

// Port returns the TCP port the NFS server is listening on.
func (s *Server) Port() int {
	return s.port
}

// Close stops the NFS server by closing the listener.
func (s *Server) Close() error {
	return s.listener.Close()
}

// Mount calls the system mount command to mount the NFS server at mountpoint,
// read-only. Requires sudo.
func Mount(port int, mountpoint string) error {
	cmd, err := mountCommand(runtime.GOOS, port, mountpoint)
	if err != nil {
		return err
	}
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("mount failed: %w\n%s", err, string(output))
	}
	return nil
}

func mountCommand(goos string, port int, mountpoint string) (*exec.Cmd, error) {
	var opts string
	switch goos {
	case "darwin":
		opts = fmt.Sprintf("port=%d,mountport=%d,vers=3,tcp,locallocks,noresvport,rdonly", port, port)
	case "linux":
		opts = fmt.Sprintf("port=%d,mountport=%d,vers=3,tcp,local_lock=all,nolock,ro", port, port)
	default:
		return nil, fmt.Errorf("unsupported OS: %s", goos)
	}

	return exec.Command("sudo", "mount", "-t", "nfs", "-o", opts, "localhost:/", mountpoint), nil
}

// Unmount calls the system unmount command on the mountpoint.
func Unmount(mountpoint string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		// Try diskutil first (no sudo needed for user NFS mounts)
		cmd = exec.Command("diskutil", "unmount", mountpoint)
		if err := cmd.Run(); err == nil {
			return nil
		}
		// Fallback to sudo umount
		cmd = exec.Command("sudo", "umount", mountpoint)
	default:
		cmd = exec.Command("sudo", "umount", mountpoint)
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("unmount failed: %w\n%s", err, string(output))
	}
	return nil
}
