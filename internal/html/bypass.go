package html

import (
	"fmt"
	"strconv"
	"strings"
)

// Rift guide bypass commands.
const (
	CmdEnterRift = "EnterRift"
	CmdExitRift  = "ExitRift"
	CmdChat      = "Chat"
)

// BypassCommand represents a parsed NPC bypass command.
// Format: "npc_<objectID>_<command> [args...]"
type BypassCommand struct {
	ObjectID uint32
	Command  string
	Args     []string
}

var allowedCommands = map[string]bool{
	CmdEnterRift: true,
	CmdExitRift:  true,
	CmdChat:      true,
}

// ParseNpcBypass parses a bypass string in format "npc_<objectID>_<command> [args...]".
func ParseNpcBypass(bypass string) (*BypassCommand, error) {
	if !strings.HasPrefix(bypass, "npc_") {
		return nil, fmt.Errorf("not an NPC bypass: %s", bypass)
	}

	// "npc_<objectID>_<command> args" → ["npc", "<objectID>", "<command> args"]
	parts := strings.SplitN(bypass, "_", 3)
	if len(parts) < 3 {
		return nil, fmt.Errorf("malformed NPC bypass: %s", bypass)
	}

	objectID, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid objectID in bypass %q: %w", bypass, err)
	}

	cmdParts := strings.SplitN(parts[2], " ", 2)
	cmdName := cmdParts[0]

	if !allowedCommands[cmdName] {
		return nil, fmt.Errorf("unknown bypass command: %s", cmdName)
	}

	var args []string
	if len(cmdParts) > 1 && cmdParts[1] != "" {
		args = strings.Fields(cmdParts[1])
	}

	return &BypassCommand{
		ObjectID: uint32(objectID),
		Command:  cmdName,
		Args:     args,
	}, nil
}

// IntArg returns argument i as an integer.
func (c *BypassCommand) IntArg(i int) (int, error) {
	if i >= len(c.Args) {
		return 0, fmt.Errorf("bypass %s: missing argument %d", c.Command, i)
	}
	n, err := strconv.Atoi(c.Args[i])
	if err != nil {
		return 0, fmt.Errorf("bypass %s: argument %d: %w", c.Command, i, err)
	}
	return n, nil
}
