package interactive

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/birdayz/smuggle/pkg/app"
	"github.com/birdayz/smuggle/pkg/carrier"
	"github.com/birdayz/smuggle/pkg/session"
	"github.com/birdayz/smuggle/pkg/stego"
)

const maxLineSize = 1024 * 1024

const help = `Lines are encoded or decoded in the current mode. Commands:
  :mode            switch between encode and decode
  :carrier [NAME]  show or set the carrier (name or single character)
  :help            show this help
  :quit            leave the session
Start a line with "::" to encode text that begins with ":".`

// NewCommand returns the "smuggle interactive" command.
func NewCommand(a *app.App) *cobra.Command {
	var encodeFlag bool

	cmd := &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Encode or decode line by line, switching modes on the fly",
		Long:    "Start a session that encodes or decodes every line read from stdin. The session starts in the mode from the config, decode if unset.\n\n" + help,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.ResolveCarrier()
			if err != nil {
				return err
			}
			mode, err := a.Cfg.InitialMode()
			if err != nil {
				return err
			}
			if encodeFlag {
				mode = stego.ModeEncode
			}

			s := session.New(c, session.WithMode(mode), session.WithUTF16Units(a.Cfg.UTF16))
			return run(cmd, a, s)
		},
	}

	a.AddCarrierFlag(cmd)
	cmd.Flags().BoolVar(&encodeFlag, "encode", false, "Start in encode mode")
	return cmd
}

func run(cmd *cobra.Command, a *app.App, s *session.Session) error {
	tty := app.IsTerminal(a.InReader)
	highlight := color.New(color.FgYellow, color.Bold)
	if !app.IsTerminal(a.OutWriter) {
		highlight.DisableColor()
	}

	prompt := func() {
		if tty {
			fmt.Fprintf(a.ErrWriter, "[%s %s] %s: ", s.Mode(), s.Carrier(), s.Placeholder())
		}
	}

	scanner := bufio.NewScanner(a.InReader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	a.Log.Debugw("session started", "mode", s.Mode().String(), "carrier", s.Carrier().Value)
	prompt()
	for scanner.Scan() {
		select {
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		default:
		}

		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "::"):
			line = line[1:]
		case strings.HasPrefix(line, ":"):
			done, err := command(a, s, strings.Fields(line[1:]))
			if err != nil {
				fmt.Fprintf(a.ErrWriter, "%v\n", err)
			}
			if done {
				return nil
			}
			prompt()
			continue
		}

		out, changed := s.SetInput(line)
		a.Log.Debugw("rendered", "mode", s.Mode().String(), "changed", changed)
		if changed && out != "" {
			fmt.Fprintln(a.ColorableOut, highlight.Sprint(out))
		} else {
			fmt.Fprintln(a.OutWriter, out)
		}
		prompt()
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanning input failed: %w", err)
	}
	return nil
}

// command runs a ":"-prefixed session command. It reports whether the
// session should end.
func command(a *app.App, s *session.Session, fields []string) (bool, error) {
	if len(fields) == 0 {
		return false, fmt.Errorf("empty command, try :help")
	}

	switch fields[0] {
	case "q", "quit", "exit":
		return true, nil
	case "h", "help":
		fmt.Fprintln(a.ErrWriter, help)
	case "m", "mode":
		mode := s.Toggle()
		fmt.Fprintf(a.ErrWriter, "Switched to %s mode.\n", mode)
	case "c", "carrier":
		if len(fields) == 1 {
			fmt.Fprintln(a.OutWriter, s.Carrier().Value)
			return false, nil
		}
		c, err := carrier.Parse(strings.Join(fields[1:], " "))
		if err != nil {
			return false, err
		}
		out, changed := s.SetCarrier(c)
		fmt.Fprintf(a.ErrWriter, "Switched to carrier %s.\n", c.Value)
		if s.ShowsPicker() && changed && s.Input() != "" {
			fmt.Fprintln(a.OutWriter, out)
		}
	default:
		return false, fmt.Errorf("unknown command %q, try :help", fields[0])
	}
	return false, nil
}
