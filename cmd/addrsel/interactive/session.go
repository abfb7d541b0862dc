// Package interactive drives a selector.Controller from a terminal. Each
// command stands in for a user changing one of the three selects.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dukerupert/thaiaddress/internal/events"
	"github.com/dukerupert/thaiaddress/internal/selector"
)

// Finder is the search capability used by the find command.
type Finder interface {
	FindProvincesByPrefix(query string) []string
}

// Session owns the three in-memory selects and the controller bound to them.
type Session struct {
	province    *selector.Select
	district    *selector.Select
	subDistrict *selector.Select

	ctrl   *selector.Controller
	finder Finder
	out    io.Writer
}

// NewSession binds a controller to fresh selects. cfg's widget fields are
// overwritten; finder may be nil when searching is not supported.
func NewSession(cfg selector.Config, finder Finder, out io.Writer) (*Session, error) {
	s := &Session{
		province:    selector.NewSelect("province"),
		district:    selector.NewSelect("district"),
		subDistrict: selector.NewSelect("sub-district"),
		finder:      finder,
		out:         out,
	}

	cfg.Province = s.province
	cfg.District = s.district
	cfg.SubDistrict = s.subDistrict

	ctrl, err := selector.New(cfg)
	if err != nil {
		return nil, err
	}
	s.ctrl = ctrl
	s.ctrl.On("", s.printEvent)

	return s, nil
}

// Run reads commands until quit, EOF or ctx is done.
func (s *Session) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "address> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	s.out = rl.Stdout()
	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			return nil
		}

		if !s.Exec(line) {
			return nil
		}
	}
}

// Exec runs one command line and reports whether the session continues.
func (s *Session) Exec(line string) bool {
	parts := strings.Fields(strings.TrimSpace(line))
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()

	case "province", "p":
		s.cmdChoose(s.province, args)

	case "district", "d":
		s.cmdChoose(s.district, args)

	case "sub", "s":
		s.cmdChoose(s.subDistrict, args)

	case "set":
		s.cmdSet(args)

	case "value", "v":
		s.cmdValue()

	case "options", "o":
		s.cmdOptions()

	case "find", "f":
		s.cmdFind(args)

	case "destroy":
		s.ctrl.Destroy()
		fmt.Fprintln(s.out, "Controller detached; choices no longer cascade.")

	case "quit", "exit", "q":
		fmt.Fprintln(s.out, "Exiting...")
		return false

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}

	return true
}

func (s *Session) printHelp() {
	fmt.Fprintln(s.out, `
Address Selector Commands:
  Selection:
    province|p <name|#>  - Choose a province (by name or option number)
    district|d <name|#>  - Choose a district
    sub|s <name|#>       - Choose a sub-district
    set <p> [d] [s]      - Set the whole selection without events
    Use "-" as the name to reset a select to its placeholder.

  Inspection:
    value|v              - Show the current selection and zip code
    options|o            - List the options of every select
    find|f <text>        - Search provinces

  General:
    destroy              - Detach the controller from the selects
    help                 - Show this help
    quit                 - Exit`)
}

func (s *Session) cmdChoose(w *selector.Select, args []string) {
	if len(args) == 0 {
		fmt.Fprintf(s.out, "Usage: %s <name|#>\n", w.Name())
		return
	}

	value := strings.Join(args, " ")
	if value == "-" {
		value = ""
	} else if n, err := strconv.Atoi(value); err == nil {
		opts := w.Options()
		if n < 1 || n >= len(opts) {
			fmt.Fprintf(s.out, "Error: %s has no option %d\n", w.Name(), n)
			return
		}
		value = opts[n].Value
	}

	if err := w.Choose(value); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

func (s *Session) cmdSet(args []string) {
	var v selector.Value
	if len(args) > 0 {
		v.Province = args[0]
	}
	if len(args) > 1 {
		v.District = args[1]
	}
	if len(args) > 2 {
		v.SubDistrict = args[2]
	}
	s.ctrl.SetValue(v)
	s.cmdValue()
}

func (s *Session) cmdValue() {
	v := s.ctrl.GetValue()
	fmt.Fprintf(s.out, "  province:     %s\n", orDash(v.Province))
	fmt.Fprintf(s.out, "  district:     %s\n", orDash(v.District))
	fmt.Fprintf(s.out, "  sub-district: %s\n", orDash(v.SubDistrict))
	fmt.Fprintf(s.out, "  zip code:     %s\n", orDash(v.ZipCode))
}

func (s *Session) cmdOptions() {
	for _, w := range []*selector.Select{s.province, s.district, s.subDistrict} {
		fmt.Fprintf(s.out, "%s:\n", w.Name())
		for i, o := range w.Options() {
			marker := " "
			if o.Selected {
				marker = "*"
			}
			if o.Disabled {
				fmt.Fprintf(s.out, "  %s   %s\n", marker, o.Label)
				continue
			}
			fmt.Fprintf(s.out, "  %s %2d %s\n", marker, i, o.Label)
		}
	}
}

func (s *Session) cmdFind(args []string) {
	if s.finder == nil {
		fmt.Fprintln(s.out, "Search is not available with an override dataset.")
		return
	}
	matches := s.finder.FindProvincesByPrefix(strings.Join(args, " "))
	if len(matches) == 0 {
		fmt.Fprintln(s.out, "No provinces found.")
		return
	}
	for _, m := range matches {
		fmt.Fprintf(s.out, "  %s\n", m)
	}
}

func (s *Session) printEvent(ev events.Event) {
	fmt.Fprintf(s.out, "[event] %s", ev.Kind)
	for _, kv := range [][2]string{
		{"province", ev.Province},
		{"district", ev.District},
		{"sub_district", ev.SubDistrict},
		{"zip_code", ev.ZipCode},
	} {
		if kv[1] != "" {
			fmt.Fprintf(s.out, " %s=%s", kv[0], kv[1])
		}
	}
	fmt.Fprintln(s.out)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
