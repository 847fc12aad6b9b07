package cli

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/diillson/billing-usage-report-go/pkg/console"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner(versionStr string) {
	banner := `
     _   _                        ____                       _
    | | | |___  __ _  __ _  ___  |  _ \ ___ _ __   ___  _ __| |_
    | | | / __|/ _' |/ _' |/ _ \ | |_) / _ \ '_ \ / _ \| '__| __|
    | |_| \__ \ (_| | (_| |  __/ |  _ <  __/ |_) | (_) | |  | |_
     \___/|___/\__,_|\__, |\___| |_| \_\___| .__/ \___/|_|   \__|
                     |___/                 |_|
        `
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(console.BrightCyan(banner))
	fmt.Println(blue(fmt.Sprintf("Billing Usage Report CLI (v%s)", versionStr)))
}
