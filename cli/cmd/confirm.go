package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
)

// errAborted is returned when the user declines a confirmation prompt.
var errAborted = errors.New("aborted by user")

// confirm asks before a destructive call unless force is set. Without a
// terminal to ask on, the call is refused.
func (a *app) confirm(force bool, question string) error {
	if force {
		return nil
	}
	if !a.isTerminal() {
		return fmt.Errorf("%s requires confirmation, use --%s on a non-interactive terminal", question, flagForce)
	}

	fmt.Fprintf(a.stderr, "Are you sure you want to %s? [y/N]: ", question)
	answer, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && answer == "" {
		return errAborted
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	}
	return errAborted
}
