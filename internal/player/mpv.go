package player

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

const (
	callTimeout         = 3 * time.Second
	defaultStartTimeout = 5 * time.Second
)

// MPVConfig describes how to launch mpv.
type MPVConfig struct {
	Binary       string
	SocketPath   string
	Volume       int
	Resolver     Resolver
	StartTimeout time.Duration
}

// MPV is a Widget backed by an mpv process in idle mode.
type MPV struct {
	cmd      *exec.Cmd
	socket   string
	client   *ipcClient
	resolver Resolver
	logger   *slog.Logger
	exited   chan struct{}
}

// findPlayer returns the first mpv binary that exists.
func findPlayer(binary string) (string, error) {
	candidates := []string{binary}
	switch runtime.GOOS {
	case "darwin":
		candidates = append(candidates,
			"/opt/homebrew/bin/mpv",
			"/usr/local/bin/mpv",
			"/Applications/mpv.app/Contents/MacOS/mpv",
			filepath.Join(os.Getenv("HOME"), "Applications/mpv.app/Contents/MacOS/mpv"),
		)
	case "linux":
		candidates = append(candidates, "mpv", "/usr/bin/mpv", "/usr/local/bin/mpv")
	}

	for _, c := range candidates {
		if c == "" {
			continue
		}
		if path, err := exec.LookPath(c); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no suitable media player found (tried %q)", binary)
}

// StartMPV launches mpv and connects to its IPC socket.
func StartMPV(ctx context.Context, cfg MPVConfig) (*MPV, error) {
	if runtime.GOOS == "windows" {
		return nil, fmt.Errorf("mpv ipc is not supported on %s", runtime.GOOS)
	}
	if cfg.Resolver == nil {
		return nil, errors.New("mpv: a stream resolver is required")
	}
	if cfg.StartTimeout <= 0 {
		cfg.StartTimeout = defaultStartTimeout
	}

	path, err := findPlayer(cfg.Binary)
	if err != nil {
		return nil, err
	}

	_ = os.Remove(cfg.SocketPath)
	cmd := exec.Command(path,
		"--idle=yes",
		"--no-video",
		"--no-terminal",
		"--input-ipc-server="+cfg.SocketPath,
		fmt.Sprintf("--volume=%d", cfg.Volume),
	)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start mpv: %w", err)
	}

	logger := slog.Default().With(slog.String("component", "mpv"))
	exited := make(chan struct{})
	go func() {
		err := cmd.Wait()
		logger.Info("mpv exited", slog.Any("error", err))
		close(exited)
	}()

	conn, err := dialSocket(ctx, cfg.SocketPath, cfg.StartTimeout, exited)
	if err != nil {
		_ = cmd.Process.Kill()
		return nil, err
	}

	m := &MPV{
		cmd:      cmd,
		socket:   cfg.SocketPath,
		client:   newIPCClient(conn, logger),
		resolver: cfg.Resolver,
		logger:   logger,
		exited:   exited,
	}

	if _, err := m.do(ctx, "observe_property", pauseObserverID, "pause"); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("mpv: observe pause: %w", err)
	}

	logger.Info("mpv started", slog.String("path", path), slog.String("socket", cfg.SocketPath))
	return m, nil
}

func dialSocket(ctx context.Context, socket string, timeout time.Duration, exited <-chan struct{}) (net.Conn, error) {
	deadline := time.Now().Add(timeout)
	var d net.Dialer
	for {
		conn, err := d.DialContext(ctx, "unix", socket)
		if err == nil {
			return conn, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("mpv: socket %s not ready: %w", socket, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-exited:
			return nil, errors.New("mpv exited before its socket was ready")
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func (m *MPV) do(ctx context.Context, command ...any) (json.RawMessage, error) {
	return m.client.call(ctx, command...)
}

func (m *MPV) doTimeout(command ...any) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()
	return m.do(ctx, command...)
}

// LoadVideoByID replaces the current file with videoID and starts playing.
func (m *MPV) LoadVideoByID(ctx context.Context, videoID string) error {
	url, err := m.resolver.Resolve(ctx, videoID)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", videoID, err)
	}
	if _, err := m.do(ctx, "loadfile", url, "replace"); err != nil {
		return fmt.Errorf("load %s: %w", videoID, err)
	}
	_, err = m.do(ctx, "set_property", "pause", false)
	return err
}

func (m *MPV) Play() error {
	_, err := m.doTimeout("set_property", "pause", false)
	return err
}

func (m *MPV) Pause() error {
	_, err := m.doTimeout("set_property", "pause", true)
	return err
}

func (m *MPV) SeekTo(position time.Duration) error {
	_, err := m.doTimeout("seek", position.Seconds(), "absolute")
	return err
}

func (m *MPV) SetVolume(volume int) error {
	_, err := m.doTimeout("set_property", "volume", volume)
	return err
}

func (m *MPV) CurrentTime() (time.Duration, error) {
	return m.seconds("time-pos")
}

func (m *MPV) Duration() (time.Duration, error) {
	return m.seconds("duration")
}

// seconds reads a float property; an unavailable property (nothing loaded)
// reads as zero.
func (m *MPV) seconds(property string) (time.Duration, error) {
	raw, err := m.doTimeout("get_property", property)
	if errors.Is(err, errPropertyUnavailable) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var secs float64
	if err := json.Unmarshal(raw, &secs); err != nil {
		return 0, fmt.Errorf("mpv: decode %s: %w", property, err)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

func (m *MPV) Events() <-chan Event {
	return m.client.events
}

// Close quits mpv, killing it if it does not exit in time.
func (m *MPV) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	_, _ = m.do(ctx, "quit")
	cancel()
	_ = m.client.close()

	if m.cmd != nil && m.cmd.Process != nil {
		select {
		case <-m.exited:
		case <-time.After(2 * time.Second):
			_ = m.cmd.Process.Kill()
		}
	}
	if m.socket != "" {
		_ = os.Remove(m.socket)
	}
	return nil
}
