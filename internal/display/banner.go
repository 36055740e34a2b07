package display

import (
	"fmt"
	"os"

	"github.com/backmassage/lapsemaster/internal/logging"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	if logging.Magenta != "" {
		fmt.Fprint(os.Stdout, "\033[1;95m")
	}
	fmt.Fprint(os.Stdout, ` _                          __  __           _
| |    __ _ _ __  ___  ___|  \/  | __ _ ___| |_ ___ _ __
| |   / _`+"`"+` | '_ \/ __|/ _ \ |\/| |/ _`+"`"+` / __| __/ _ \ '__|
| |__| (_| | |_) \__ \  __/ |  | | (_| \__ \ ||  __/ |
|_____\__,_| .__/|___/\___|_|  |_|\__,_|___/\__\___|_|
           |_|
`)
	if logging.Magenta != "" {
		fmt.Fprintln(os.Stdout, logging.NC)
	}
}
