package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

var stdin io.Reader = os.Stdin

// confirm asks the user whether to go on with what. force skips the
// question.
func confirm(what string, force bool) bool {
	if force {
		return true
	}
	fmt.Printf("%s? (yes/no): ", what)
	line, _ := bufio.NewReader(stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "yes", "y", "true", "1":
		return true
	default:
		fmt.Println("Cancelled!")
		return false
	}
}
