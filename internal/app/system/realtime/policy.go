package realtime

import "fmt"

// Policy decides which clients receive a published message.
type Policy string

const (
	// PolicyBroadcast delivers every message to every client and ignores
	// recipients.
	PolicyBroadcast Policy = "broadcast"
	// PolicyTargeted delivers a message with recipients only to clients that
	// joined one of those groups. Messages without recipients still go to
	// everyone.
	PolicyTargeted Policy = "targeted"
)

// ParsePolicy validates a configured policy name. Empty means broadcast.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyBroadcast:
		return PolicyBroadcast, nil
	case PolicyTargeted:
		return PolicyTargeted, nil
	default:
		return "", fmt.Errorf("unknown realtime policy %q (want %q or %q)", s, PolicyBroadcast, PolicyTargeted)
	}
}
