//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
)

// scrollback kept per session; older output is overwritten
const ringSize = 1 << 20

var binPath = "yacs_e2e"

// keys the yacs key map binds
const (
	KeyEnter  = "\r"
	KeyCtrlC  = "\x03"
	KeyTab    = "\t"
	KeySpace  = " "
	KeyDown   = "j"
	KeyQuit   = "q"
	KeyFilter = "/"
	KeyDept   = "d"
	KeyHelp   = "?"
)

// terminal control sequences stripped before matching plain text
var ansiRe = regexp.MustCompile(
	`(?:\x1b\[[0-9;?]*[ -/]*[@-~])|` +
		`(?:\x1b\][^\x07]*\x07)|` +
		`(?:\x1b[\(\)][A-Za-z])|` +
		`(?:\x1b=|\x1b>)|` +
		`\r`,
)

const pollInterval = 25 * time.Millisecond

// TUITestFramework runs one yacs process on a pseudo terminal and records what it draws
type TUITestFramework struct {
	t         *testing.T
	pty       *os.File
	cmd       *exec.Cmd
	workspace string

	mu   sync.Mutex
	ring []byte
	head int
	full bool
}

// NewTUITest creates a driver bound to t
func NewTUITest(t *testing.T) *TUITestFramework {
	return &TUITestFramework{t: t, ring: make([]byte, ringSize)}
}

// StartApp launches yacs with args on a 120x40 terminal, home set to the workspace
func (tf *TUITestFramework) StartApp(args ...string) error {
	tf.cmd = exec.Command(binPath, args...)
	tf.cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"LC_ALL=C",
		"LANG=C",
		"HOME="+tf.workspace,
		"XDG_CONFIG_HOME="+filepath.Join(tf.workspace, "config"),
		"XDG_CACHE_HOME="+filepath.Join(tf.workspace, "cache"),
	)

	f, err := pty.StartWithSize(tf.cmd, &pty.Winsize{Rows: 40, Cols: 120})
	if err != nil {
		return fmt.Errorf("failed to start yacs on a pty: %w", err)
	}
	tf.pty = f
	go tf.record(f)
	return nil
}

// record copies terminal output into the ring until the pty closes
func (tf *TUITestFramework) record(f *os.File) {
	chunk := make([]byte, 8192)
	for {
		n, err := f.Read(chunk)
		if n > 0 {
			tf.mu.Lock()
			for _, b := range chunk[:n] {
				tf.ring[tf.head] = b
				tf.head = (tf.head + 1) % ringSize
				if tf.head == 0 {
					tf.full = true
				}
			}
			tf.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// SendKeys writes raw input to the terminal
func (tf *TUITestFramework) SendKeys(keys string) error {
	tf.t.Helper()
	_, err := tf.pty.Write([]byte(keys))
	return err
}

// SendCtrlC interrupts the application
func (tf *TUITestFramework) SendCtrlC() error {
	tf.t.Helper()
	return tf.SendKeys(KeyCtrlC)
}

// Select toggles the course under the cursor
func (tf *TUITestFramework) Select() error {
	tf.t.Helper()
	return tf.SendKeys(KeySpace)
}

// Down moves the cursor one row
func (tf *TUITestFramework) Down() error {
	tf.t.Helper()
	return tf.SendKeys(KeyDown)
}

// Tab switches between the catalog and selection screens
func (tf *TUITestFramework) Tab() error {
	tf.t.Helper()
	return tf.SendKeys(KeyTab)
}

// Type sends text followed by enter, for the filter and department prompts
func (tf *TUITestFramework) Type(text string) error {
	tf.t.Helper()
	if err := tf.SendKeys(text); err != nil {
		return err
	}
	return tf.SendKeys(KeyEnter)
}

// Quit presses q
func (tf *TUITestFramework) Quit() error {
	tf.t.Helper()
	return tf.SendKeys(KeyQuit)
}

// Exit quits with q and waits for the process to end
func (tf *TUITestFramework) Exit(timeout time.Duration) error {
	tf.t.Helper()
	done := make(chan error, 1)
	go func() { done <- tf.cmd.Wait() }()
	if err := tf.Quit(); err != nil {
		return err
	}
	select {
	case err := <-done:
		tf.cmd = nil
		return err
	case <-time.After(timeout):
		return fmt.Errorf("yacs did not exit within %s", timeout)
	}
}

// Ready waits for the tab bar of the first frame
func (tf *TUITestFramework) Ready() bool {
	tf.t.Helper()
	return tf.waitPlain("Selection", 5*time.Second)
}

// SeePlain waits up to three seconds for text in the output without styling
func (tf *TUITestFramework) SeePlain(text string) bool {
	tf.t.Helper()
	return tf.waitPlain(text, 3*time.Second)
}

// WaitForStatusMessage waits for a status line text
func (tf *TUITestFramework) WaitForStatusMessage(message string, timeout time.Duration) bool {
	tf.t.Helper()
	return tf.poll(func(s string) bool { return strings.Contains(s, message) }, timeout)
}

// WaitForE is poll with the end of the output attached to the error
func (tf *TUITestFramework) WaitForE(pred func(string) bool, timeout time.Duration, failMsg string) error {
	tf.t.Helper()
	if tf.poll(pred, timeout) {
		return nil
	}
	return fmt.Errorf("%s\n--- tail ---\n%s", failMsg, tf.tail(4096))
}

func (tf *TUITestFramework) waitPlain(text string, timeout time.Duration) bool {
	return tf.poll(func(s string) bool {
		return strings.Contains(ansiRe.ReplaceAllString(s, ""), text)
	}, timeout)
}

// poll checks pred against the raw output until it holds or timeout passes
func (tf *TUITestFramework) poll(pred func(string) bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if pred(tf.Snapshot()) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(pollInterval)
	}
}

// Snapshot returns everything still held in the ring, oldest first
func (tf *TUITestFramework) Snapshot() string {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	if !tf.full {
		return string(tf.ring[:tf.head])
	}
	return string(tf.ring[tf.head:]) + string(tf.ring[:tf.head])
}

// SnapshotPlain is Snapshot without terminal control sequences
func (tf *TUITestFramework) SnapshotPlain() string {
	return ansiRe.ReplaceAllString(tf.Snapshot(), "")
}

func (tf *TUITestFramework) tail(n int) string {
	s := tf.SnapshotPlain()
	if len(s) > n {
		s = s[len(s)-n:]
	}
	return s
}

// DumpTailOnFail writes the last n bytes of plain output to a file and logs its path
func (tf *TUITestFramework) DumpTailOnFail(t *testing.T, name string, n int) {
	t.Helper()
	p := filepath.Join(t.TempDir(), name+".txt")
	_ = os.WriteFile(p, []byte(tf.tail(n)), 0644)
	t.Logf("output tail saved to %s", p)
}

// Cleanup closes the pty, which hangs up the child, then kills it and drops the workspace
func (tf *TUITestFramework) Cleanup() {
	if tf.pty != nil {
		_ = tf.pty.Close()
		tf.pty = nil
	}
	if tf.cmd != nil && tf.cmd.Process != nil {
		_ = tf.cmd.Process.Kill()
		_, _ = tf.cmd.Process.Wait()
		tf.cmd = nil
	}
	if tf.workspace != "" {
		_ = os.RemoveAll(tf.workspace)
		tf.workspace = ""
	}
}
