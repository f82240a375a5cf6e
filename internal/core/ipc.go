package core

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chess10kp/buttonlauncher/internal/logging"
)

const defaultHistoryLimit = 20

// IPCServer accepts one newline-terminated command per connection on a unix
// socket and writes a text reply before closing it.
type IPCServer struct {
	app        *App
	socketPath string
	logger     *logging.Logger

	mu       sync.Mutex
	listener net.Listener
	running  bool
	wg       sync.WaitGroup
}

func NewIPCServer(app *App, socketPath string, logger *logging.Logger) *IPCServer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &IPCServer{
		app:        app,
		socketPath: socketPath,
		logger:     logger,
	}
}

func (s *IPCServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("IPC server already running")
	}

	// Remove a stale socket left by a previous run
	if _, err := os.Stat(s.socketPath); err == nil {
		os.Remove(s.socketPath)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create socket listener: %w", err)
	}

	s.listener = listener
	s.running = true
	s.logger.Info("[IPC] listening on %s", s.socketPath)

	s.wg.Add(1)
	go s.acceptConnections(listener)
	return nil
}

func (s *IPCServer) isRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *IPCServer) acceptConnections(listener net.Listener) {
	defer s.wg.Done()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if !s.isRunning() {
				return
			}
			s.logger.Error("[IPC] error accepting connection", err)
			if errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(conn)
		}()
	}
}

func (s *IPCServer) handleConnection(conn net.Conn) {
	defer conn.Close()

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		s.logger.Error("[IPC] error reading from connection", err)
		return
	}

	message := strings.TrimSpace(line)
	if message == "" {
		return
	}
	s.logger.Info("[IPC] received: %s", message)

	reply := s.HandleMessage(message)
	if !strings.HasSuffix(reply, "\n") {
		reply += "\n"
	}
	if _, err := io.WriteString(conn, reply); err != nil {
		s.logger.Error("[IPC] error writing reply", err)
	}
}

// HandleMessage executes one command and returns its reply.
func (s *IPCServer) HandleMessage(message string) string {
	command, arg, _ := strings.Cut(strings.TrimSpace(message), " ")
	arg = strings.TrimSpace(arg)

	switch command {
	case "reload":
		if err := s.app.Reload(); err != nil {
			return "error: " + err.Error()
		}
		st, err := s.app.Status()
		if err != nil {
			return "error: " + err.Error()
		}
		return "ok: " + st.Message

	case "list":
		entries, err := s.app.Buttons()
		if err != nil {
			return "error: " + err.Error()
		}
		if len(entries) == 0 {
			return StatusNoButtons
		}
		var b strings.Builder
		for _, e := range entries {
			fmt.Fprintf(&b, "%s\t%s\t%s\t%s\n", e.ID, e.DisplayLabel(), e.ActionType, e.Target)
		}
		return b.String()

	case "activate":
		if arg == "" {
			return "error: usage: activate <id>"
		}
		outcome, err := s.app.Activate(arg)
		if err != nil {
			return "error: " + err.Error()
		}
		if outcome.Err != nil {
			return fmt.Sprintf("%s: %v", outcome.Status, outcome.Err)
		}
		return outcome.Status.String()

	case "find":
		matches, err := s.app.Find(arg)
		if err != nil {
			return "error: " + err.Error()
		}
		if len(matches) == 0 {
			return "no matches"
		}
		var b strings.Builder
		for _, m := range matches {
			fmt.Fprintf(&b, "%d\t%s\t%s\n", m.Index, m.Entry.ID, m.Entry.Label)
		}
		return b.String()

	case "status":
		st, err := s.app.Status()
		if err != nil {
			return "error: " + err.Error()
		}
		return formatStatus(st)

	case "history":
		limit := defaultHistoryLimit
		if arg != "" {
			n, err := strconv.Atoi(arg)
			if err != nil || n <= 0 {
				return "error: history limit must be a positive number"
			}
			limit = n
		}
		records, err := s.app.History(limit)
		if err != nil {
			return "error: " + err.Error()
		}
		if len(records) == 0 {
			return "no activations recorded"
		}
		var b strings.Builder
		for _, r := range records {
			fmt.Fprintf(&b, "%s\t%s\t%s\t%s\n", r.Timestamp.Format("2006-01-02 15:04:05"), r.ButtonID, r.Label, r.Status)
		}
		return b.String()

	case "quit":
		s.app.Quit()
		return "bye"
	}

	return fmt.Sprintf("error: unknown command '%s'", command)
}

func formatStatus(st Status) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", st.Message)
	fmt.Fprintf(&b, "file: %s\n", st.ButtonsPath)
	fmt.Fprintf(&b, "version: %s, grid columns: %d, buttons: %d\n", st.Version, st.GridColumns, st.Buttons)
	if st.Dropped > 0 {
		fmt.Fprintf(&b, "skipped without label: %d\n", st.Dropped)
	}
	if st.LastError != "" {
		fmt.Fprintf(&b, "last error: %s\n", st.LastError)
	}
	fmt.Fprintf(&b, "watching: %v\n", st.Watching)
	fmt.Fprintf(&b, "activations: %d completed, %d cancelled, %d failed\n",
		st.Activations.Completed, st.Activations.Cancelled, st.Activations.Failed)
	return b.String()
}

func (s *IPCServer) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	listener := s.listener
	s.mu.Unlock()

	listener.Close()
	s.wg.Wait()

	if _, err := os.Stat(s.socketPath); err == nil {
		os.Remove(s.socketPath)
	}

	s.logger.Info("[IPC] server stopped")
	return nil
}

// Send delivers one command to a running daemon and returns its reply.
func Send(socketPath, message string, timeout time.Duration) (string, error) {
	conn, err := net.DialTimeout("unix", socketPath, timeout)
	if err != nil {
		return "", fmt.Errorf("failed to connect to %s: %w", socketPath, err)
	}
	defer conn.Close()

	if timeout > 0 {
		conn.SetDeadline(time.Now().Add(timeout))
	}

	if _, err := io.WriteString(conn, message+"\n"); err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}

	reply, err := io.ReadAll(conn)
	if err != nil {
		return "", fmt.Errorf("failed to read reply: %w", err)
	}
	return strings.TrimRight(string(reply), "\n"), nil
}
