package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/keyregistry/internal/client/client"
	"github.com/dmitrijs2005/keyregistry/internal/client/config"
	"github.com/dmitrijs2005/keyregistry/internal/client/services"
	"github.com/dmitrijs2005/keyregistry/internal/cryptox"
	"github.com/dmitrijs2005/keyregistry/internal/filex"
	"github.com/dmitrijs2005/keyregistry/internal/registry"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

type App struct {
	config    *config.Config
	account   services.AccountService
	directory services.DirectoryService
	identity  *cryptox.Identity
	userName  string

	mu   sync.Mutex
	Mode Mode

	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	programID, err := registry.ParsePubkey(c.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("invalid program id: %w", err)
	}

	for _, p := range []string{c.CacheFile, c.KeyFile} {
		if _, err := filex.EnsureParentDir(p); err != nil {
			return nil, err
		}
	}

	db, err := client.InitDatabase(ctx, c.CacheFile)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config:    c,
		account:   services.NewAccountService(apiClient, db),
		directory: services.NewDirectoryService(apiClient, db, programID),
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}, nil
}

func (app *App) setMode(mode Mode) {
	app.mu.Lock()
	defer app.mu.Unlock()
	if app.Mode != mode {
		app.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (app *App) mode() Mode {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.Mode
}

func (a *App) Run(ctx context.Context) {
	defer a.account.Close(ctx)
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.identity != nil
}

// withTimeout bounds a single command's round trip to the server.
func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.account.Ping(ctx)
			cancel()

			if err != nil {
				if a.mode() == ModeOnline {
					a.setMode(ModeOffline)
				}
			} else {
				if a.mode() != ModeOnline {
					a.setMode(ModeOnline)
				}
			}

		case <-ctx.Done():
			return
		}
	}
}
