package tmux

import "fmt"

// PaneRef is a partial target address. Any combination of fields may be
// set; Resolve fills the gaps from defaults and host profiles.
type PaneRef struct {
	Host    string `json:"host,omitempty"`
	Session string `json:"session,omitempty"`
	Window  string `json:"window,omitempty"`
	Pane    string `json:"pane,omitempty"`
}

// IsZero reports whether no component is set.
func (r PaneRef) IsZero() bool {
	return r.Host == "" && r.Session == "" && r.Window == "" && r.Pane == ""
}

// Resolver normalizes partial PaneRefs into concrete pane tokens.
type Resolver struct {
	// Fallback supplies the process-wide default target for empty inputs.
	Fallback func() PaneRef
	Profiles map[string]HostProfile
}

// Resolve returns the filled-in ref and its pane token. The input is never
// mutated. Precedence: explicit pane, then session:window.0, then session.0.
func (r *Resolver) Resolve(ref PaneRef) (PaneRef, string, error) {
	if ref.IsZero() && r.Fallback != nil {
		ref = r.Fallback()
	}
	if hp, ok := r.Profiles[ref.Host]; ok {
		if ref.Session == "" && hp.DefaultSession != "" {
			ref.Session = hp.DefaultSession
		}
		if ref.Pane == "" && hp.DefaultPane != "" {
			ref.Pane = hp.DefaultPane
		}
	}
	pane := ref.Pane
	if pane == "" && ref.Window != "" && ref.Session != "" {
		pane = fmt.Sprintf("%s:%s.0", ref.Session, ref.Window)
	}
	if pane == "" && ref.Session != "" {
		pane = fmt.Sprintf("%s.0", ref.Session)
	}
	if pane == "" {
		return PaneRef{}, "", ErrInvalidTarget
	}
	return ref, pane, nil
}

// RequireSession resolves the ref far enough to have a session, without
// demanding a pane token.
func (r *Resolver) RequireSession(ref PaneRef) (PaneRef, error) {
	if ref.IsZero() && r.Fallback != nil {
		ref = r.Fallback()
	}
	if hp, ok := r.Profiles[ref.Host]; ok {
		if ref.Session == "" && hp.DefaultSession != "" {
			ref.Session = hp.DefaultSession
		}
	}
	if ref.Session == "" {
		return PaneRef{}, ErrNoSession
	}
	return ref, nil
}
