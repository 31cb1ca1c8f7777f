package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	s := ""
	if a.machine != nil {
		if st := a.machine.State(); st.Session != nil {
			s = st.Session.User.Email + " "
		}
	}
	if v := a.currentView(); v != "" {
		s = s + string(v) + " "
	}
	if m := a.mode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root greets the user, starts the connectivity watcher and blocks in the
// REPL until the user exits or ctx is cancelled.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to AdConnect (type 'help' for commands)")

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}
