package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/tasktracker/internal/client/client"
	"github.com/dmitrijs2005/tasktracker/internal/client/config"
	"github.com/dmitrijs2005/tasktracker/internal/client/models"
	"github.com/dmitrijs2005/tasktracker/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/tasktracker/internal/client/services"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	taskService services.TaskService
	db          *sql.DB
	user        *models.User
	lastListing []*models.Task
	reader      *bufio.Reader
	out         io.Writer
}

// NewApp opens the local session store and dials the server.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	db, err := client.InitDatabase(ctx, c.SessionFile)
	if err != nil {
		return nil, fmt.Errorf("error initializing session store: %w", err)
	}

	apiClient, err := client.NewTaskTrackerClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	store := metadata.NewSQLiteRepository(db)
	a := newApp(services.NewAuthService(apiClient, store), services.NewTaskService(apiClient), os.Stdin, os.Stdout)
	a.config = c
	a.db = db
	return a, nil
}

func newApp(as services.AuthService, ts services.TaskService, in io.Reader, out io.Writer) *App {
	return &App{authService: as, taskService: ts, reader: bufio.NewReader(in), out: out}
}

// Run restores the previous session if possible, starts the REPL and
// releases the connection and the session store on exit.
func (a *App) Run(ctx context.Context) {
	defer func() {
		_ = a.authService.Close(ctx)
		if a.db != nil {
			_ = a.db.Close()
		}
	}()

	fmt.Fprintln(a.out, "Welcome to TaskTracker CLI (type 'help' for commands)")
	if err := a.authService.Ping(ctx); err != nil {
		fmt.Fprintln(a.out, "Warning:", describe(err))
	} else {
		a.resume(ctx)
	}
	runREPL(ctx, a, a.status, a.reader, a.out)
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

func (a *App) status() string {
	if a.user == nil {
		return ""
	}
	return fmt.Sprintf(" (%s)", a.user.Email)
}

func (a *App) resume(ctx context.Context) {
	u, err := a.authService.Resume(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Previous session expired, please login")
		return
	}
	if u != nil {
		a.user = u
		fmt.Fprintf(a.out, "Signed in as %s\n", u.Email)
	}
}
