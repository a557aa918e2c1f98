package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
)

// stdout вывод отчетов; подменяется в тестах
var stdout io.Writer = os.Stdout

// Register регистрирует подкоманды по группам
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&serveCmd{}, "server")
	c.Register(&tokenCmd{}, "server")

	c.Register(&amortizeCmd{}, "reports")
	c.Register(&forecastCmd{}, "reports")
	c.Register(&portfolioCmd{}, "reports")
}

// printMarkdown выводит markdown; raw отключает оформление для терминала
func printMarkdown(md string, raw bool) {
	if raw {
		fmt.Fprint(stdout, md)
		return
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}
