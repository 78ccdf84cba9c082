package safety

import (
	"errors"
	"testing"

	"github.com/k8ika0s/mcp-tmux/internal/tmux"
)

func TestDestructiveClassification(t *testing.T) {
	destructive := [][]string{
		{"kill-session", "-t", "s"},
		{"kill-window", "-t", "s:1"},
		{"kill-pane", "-t", "%3"},
		{"kill-server"},
		{"unlink-window", "-t", "s:1"},
		{"unlink-pane", "-t", "%3"},
		{"kill-anything-new"},
		{"attach-session", "-t", "s", "-k"},
	}
	for _, args := range destructive {
		if !IsDestructive(args) {
			t.Errorf("IsDestructive(%v) = false, want true", args)
		}
	}

	benign := [][]string{
		{"list-sessions"},
		{"attach-session", "-t", "s"},
		{"send-keys", "-t", "s", "kill-session"},
		{"new-session", "-d", "-s", "s"},
		{},
	}
	for _, args := range benign {
		if IsDestructive(args) {
			t.Errorf("IsDestructive(%v) = true, want false", args)
		}
	}
}

func TestGateRequiresConfirmation(t *testing.T) {
	g := NewGate()
	verbs := []string{"kill-session", "kill-window", "kill-pane", "kill-server", "unlink-window", "unlink-pane"}
	for _, verb := range verbs {
		err := g.Check("", []string{verb, "-t", "x"}, false)
		if !errors.Is(err, tmux.ErrConfirmRequired) {
			t.Errorf("Check(%s, confirm=false) = %v, want ErrConfirmRequired", verb, err)
		}
		if err := g.Check("", []string{verb, "-t", "x"}, true); err != nil {
			t.Errorf("Check(%s, confirm=true) = %v, want nil", verb, err)
		}
	}
}

func TestGateAllowsBenignWithoutConfirm(t *testing.T) {
	g := NewGate()
	if err := g.Check("", []string{"list-sessions"}, false); err != nil {
		t.Errorf("Check(list-sessions) = %v, want nil", err)
	}
}

func TestGateValidatesHost(t *testing.T) {
	g := NewGate()
	err := g.Check("-oEvil", []string{"list-sessions"}, false)
	if !errors.Is(err, tmux.ErrInvalidHost) {
		t.Errorf("Check = %v, want ErrInvalidHost", err)
	}
}

func TestAuditEnablement(t *testing.T) {
	g := NewGate()
	if g.AuditEnabled("h", "s") {
		t.Error("audit enabled by default")
	}
	g.SetAudit("h", "s", true)
	if !g.AuditEnabled("h", "s") {
		t.Error("audit not enabled after SetAudit(true)")
	}
	if g.AuditEnabled("h", "other") {
		t.Error("audit leaked to another session")
	}
	g.SetAudit("h", "s", false)
	if g.AuditEnabled("h", "s") {
		t.Error("audit still enabled after SetAudit(false)")
	}
}
