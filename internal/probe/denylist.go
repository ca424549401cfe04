package probe

import "strings"

// denylistedCommands are program names that must never appear in the
// catalog; enforcing this at the catalog layer (not just at call time)
// means a misconfigured override cannot silently become destructive.
var denylistedCommands = map[string]bool{
	"rm": true, "dd": true, "mkfs": true, "shutdown": true, "reboot": true,
	"mkswap": true, "parted": true, "fdisk": true, "shred": true, "kill": true,
	"killall": true, "chmod": true, "chown": true, "mount": true, "umount": true,
}

// denylistedSystemctlVerbs blocks mutating systemctl subcommands while still
// allowing read-only ones like "status" and "--failed".
var denylistedSystemctlVerbs = map[string]bool{
	"start": true, "stop": true, "restart": true, "reload": true,
	"enable": true, "disable": true, "mask": true, "unmask": true,
	"kill": true, "reset-failed": true,
}

// shellRedirectionTokens catches attempts to smuggle shell redirection into
// an argument vector passed through exec.Command (which does not invoke a
// shell, but a misconfigured override might still embed these tokens).
var shellRedirectionTokens = []string{">", ">>", "<", "|", "&&", ";", "`", "$("}

// Validate reports whether a probe definition is safe to register. Returns
// an error describing the violation otherwise.
func Validate(d Definition) error {
	if denylistedCommands[d.Command] {
		return &ErrDenylistedCommand{Command: d.Command}
	}
	if d.Command == "systemctl" {
		for _, arg := range d.Args {
			if denylistedSystemctlVerbs[arg] {
				return &ErrDenylistedCommand{Command: "systemctl " + arg}
			}
		}
	}
	for _, arg := range append([]string{d.Command}, d.Args...) {
		for _, tok := range shellRedirectionTokens {
			if strings.Contains(arg, tok) {
				return &ErrDenylistedCommand{Command: d.Command, Reason: "shell redirection token: " + tok}
			}
		}
	}
	return nil
}

// ErrDenylistedCommand is returned when a probe definition fails the
// read-only audit.
type ErrDenylistedCommand struct {
	Command string
	Reason  string
}

func (e *ErrDenylistedCommand) Error() string {
	if e.Reason != "" {
		return "denylisted probe command: " + e.Command + " (" + e.Reason + ")"
	}
	return "denylisted probe command: " + e.Command
}
