package cli

import (
	"fmt"
	"io"

	"github.com/diillson/revenue-forecast-go/pkg/console"
	"github.com/diillson/revenue-forecast-go/pkg/version"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner(out io.Writer) {
	banner := `
   ____                                        _____                                _
  |  _ \ _____   _____ _ __  _   _  ___       |  ___|__  _ __ ___  ___ __ _ ___| |_
  | |_) / _ \ \ / / _ \ '_ \| | | |/ _ \      | |_ / _ \| '__/ _ \/ __/ _' / __| __|
  |  _ <  __/\ V /  __/ | | | |_| |  __/      |  _| (_) | | |  __/ (_| (_| \__ \ |_
  |_| \_\___| \_/ \___|_| |_|\__,_|\___|      |_|  \___/|_|  \___|\___\__,_|___/\__|
`
	fmt.Fprintln(out, console.BrightGreen(banner))
	fmt.Fprintln(out, console.BrightCyan(fmt.Sprintf("Revenue Forecast CLI (v%s)", version.FormatVersion())))
}
