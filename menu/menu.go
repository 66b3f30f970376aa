// Package menu drives the interactive numbered-menu loop of the catalog.
package menu

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"

	"cinetrack/storage"
)

// Command enumerates the menu choices. The numeric values are the digits the
// user types.
type Command int

const (
	CmdExit Command = iota
	CmdListMovies
	CmdAddMovie
	CmdDeleteMovie
	CmdUpdateMovie
	CmdStatistics
	CmdRandomMovie
	CmdSearchMovie
	CmdSortedByRating
	CmdRatingHistogram
	CmdChronological
	CmdFilterMovies
	CmdGenerateWebsite
	CmdSwitchUser
)

// Session holds the active profile. A nil User means guest; guarded commands
// refuse to run for a guest.
type Session struct {
	User *storage.User
}

// UserID returns the owner id for storage calls, 0 for a guest. Id 0 never
// owns rows, so a guest sees an empty catalog.
func (s Session) UserID() int64 {
	if s.User == nil {
		return 0
	}
	return s.User.ID
}

type entry struct {
	name      string
	needsUser bool
	run       func(ctx context.Context)
}

type Menu struct {
	store   storage.StorageInterface
	prompt  *Prompter
	out     io.Writer
	session Session
	table   map[Command]entry
}

var (
	errColor  = color.New(color.FgHiRed)
	okColor   = color.New(color.FgHiGreen)
	warnColor = color.New(color.FgHiYellow)

	// Palette the empty-input warning rotates through. Purely cosmetic.
	rotating = []*color.Color{
		color.New(color.FgHiRed),
		color.New(color.FgHiYellow),
		color.New(color.FgHiBlue),
		color.New(color.FgHiMagenta),
		color.New(color.FgYellow),
		color.New(color.FgHiCyan),
		color.New(color.FgMagenta),
	}
)

func New(store storage.StorageInterface, in io.Reader, out io.Writer) *Menu {
	m := &Menu{
		store:  store,
		prompt: NewPrompter(in, out),
		out:    out,
	}
	m.table = map[Command]entry{
		CmdExit:            {name: "Exit"},
		CmdListMovies:      {name: "ListMovies", needsUser: true, run: m.listView},
		CmdAddMovie:        {name: "AddMovie", needsUser: true, run: m.addView},
		CmdDeleteMovie:     {name: "DeleteMovie", needsUser: true, run: m.deleteView},
		CmdUpdateMovie:     {name: "UpdateMovie", needsUser: true, run: m.updateView},
		CmdStatistics:      {name: "Statistics", needsUser: true, run: m.statsView},
		CmdRandomMovie:     {name: "RandomMovie", needsUser: true, run: m.randomView},
		CmdSearchMovie:     {name: "SearchMovie", needsUser: true, run: m.searchView},
		CmdSortedByRating:  {name: "MoviesSortedByRating", needsUser: true, run: m.sortedByRatingView},
		CmdRatingHistogram: {name: "CreateRatingHistogram", needsUser: true, run: m.histogramView},
		CmdChronological:   {name: "MoviesChronological", needsUser: true, run: m.chronologicalView},
		CmdFilterMovies:    {name: "FilterMovies", needsUser: true, run: m.filterView},
		CmdGenerateWebsite: {name: "GenerateWebsite", needsUser: true, run: m.websiteView},
		CmdSwitchUser:      {name: "SwitchUser", run: m.switchUserView},
	}
	return m
}

// Run loops on "awaiting menu choice" until the user picks Exit or input
// runs out. Every handler runs synchronously to completion before the menu
// is redrawn.
func (m *Menu) Run(ctx context.Context) {
	m.printMenu()

	emptyAttempts := 0
	for {
		choice, err := m.prompt.Line("Enter choice: ")
		if err != nil {
			return
		}

		if choice == "" {
			c := rotating[emptyAttempts%len(rotating)]
			message := c.Sprint("Please enter a menu number.")
			if emptyAttempts == 0 {
				fmt.Fprintf(m.out, "\n%s", message)
			} else {
				// Rewrite the warning in place instead of stacking lines
				fmt.Fprintf(m.out, "\033[F\r%s", message)
			}
			fmt.Fprintln(m.out)
			emptyAttempts++
			continue
		}
		if emptyAttempts > 0 {
			// Reclaim the warning line before handling the choice
			fmt.Fprint(m.out, "\033[F\r")
			emptyAttempts = 0
		}

		n, err := strconv.Atoi(choice)
		if err != nil {
			fmt.Fprintln(m.out, errColor.Sprint("Invalid choice. Please enter a valid number."))
			continue
		}
		cmd := Command(n)
		e, ok := m.table[cmd]
		if !ok {
			fmt.Fprintln(m.out, errColor.Sprint("Invalid choice. Please enter a valid number."))
			continue
		}

		if cmd == CmdExit {
			fmt.Fprintln(m.out, "Bye!")
			return
		}

		fmt.Fprintln(m.out)
		if e.needsUser && !m.requireUser() {
			m.printMenu()
			continue
		}
		e.run(ctx)
		m.printMenu()
	}
}

// requireUser is the guard for commands that operate on a profile's
// collection. It reports whether an active user is set.
func (m *Menu) requireUser() bool {
	if m.session.User != nil {
		return true
	}
	fmt.Fprintln(m.out, warnColor.Sprintf("No active user. Choose SwitchUser (%d) first.", CmdSwitchUser))
	return false
}

func (m *Menu) printMenu() {
	fmt.Fprintln(m.out, "\n******** My Movies Database ********")
	if m.session.User != nil {
		fmt.Fprintf(m.out, "Active user: %s\n", m.session.User.Name)
	}
	fmt.Fprintln(m.out)
	for cmd := CmdExit; cmd <= CmdSwitchUser; cmd++ {
		fmt.Fprintf(m.out, "%d. %s\n", cmd, m.table[cmd].name)
	}
}
