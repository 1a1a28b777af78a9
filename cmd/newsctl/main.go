package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/amiyamandal-dev/newsreader/internal/auth"
	"github.com/amiyamandal-dev/newsreader/internal/config"
	"github.com/amiyamandal-dev/newsreader/internal/ingest"
	"github.com/amiyamandal-dev/newsreader/internal/repository/sqlstore"
	"github.com/amiyamandal-dev/newsreader/internal/scheduler"
	"github.com/amiyamandal-dev/newsreader/internal/service"
	"github.com/amiyamandal-dev/newsreader/pkg/logger"
)

const commandTimeout = 5 * time.Minute

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "--help", "-h", "help":
		printHelp()
		return
	case "purge":
		err = cmdPurge(args)
	case "token":
		err = cmdToken(args)
	case "import":
		err = cmdImport(args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		printHelp()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", cmd, err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`Usage: newsctl <command> [flags]

Commands:
  purge   -user U              permanently remove soft-deleted folders (all users when -user is omitted)
  token   -user U              print an access token for U
  import  -user U -file F      load an RSS, Atom or JSON feed document
          [-folder N] [-url URL]

Every command accepts -config to point at a config file.`)
}

// env holds what the store-backed commands share
type env struct {
	cfg     *config.Config
	log     *logger.Logger
	db      *sqlstore.DB
	folders *service.FolderService
	feeds   *service.FeedService
	items   *service.ItemService
	repo    *sqlstore.FolderRepo
}

func openEnv(configFile string) (*env, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}

	db, err := sqlstore.New(sqlstore.Options{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return nil, err
	}

	// The server's stats cache expires on its own; the CLI writes without it.
	folderRepo := sqlstore.NewFolderRepo(db)
	feedRepo := sqlstore.NewFeedRepo(db)

	return &env{
		cfg:     cfg,
		log:     log,
		db:      db,
		repo:    folderRepo,
		folders: service.NewFolderService(folderRepo, db, nil, log),
		feeds:   service.NewFeedService(feedRepo, db, log),
		items: service.NewItemService(sqlstore.NewItemRepo(db), feedRepo, folderRepo, nil, service.ItemOptions{
			DefaultBatchSize: cfg.Items.DefaultBatchSize,
			MaxBatchSize:     cfg.Items.MaxBatchSize,
		}, log),
	}, nil
}

func (e *env) Close() {
	e.db.Close()
	_ = e.log.Sync()
}

func cmdPurge(args []string) error {
	fset := flag.NewFlagSet("purge", flag.ContinueOnError)
	configFile := fset.String("config", "", "path to the config file")
	user := fset.String("user", "", "only purge this user")
	if err := fset.Parse(args); err != nil {
		return err
	}

	e, err := openEnv(*configFile)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if u := strings.TrimSpace(*user); u != "" {
		if err := e.folders.PurgeDeleted(ctx, u, true); err != nil {
			return err
		}
		fmt.Printf("purged deleted folders of %s\n", u)
		return nil
	}

	n, err := scheduler.PurgeAll(ctx, e.repo, e.folders, e.log)
	if err != nil {
		return err
	}
	fmt.Printf("purged deleted folders of %d users\n", n)
	return nil
}

func cmdToken(args []string) error {
	fset := flag.NewFlagSet("token", flag.ContinueOnError)
	configFile := fset.String("config", "", "path to the config file")
	user := fset.String("user", "", "user id carried by the token")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*user) == "" {
		return errors.New("-user is required")
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}

	token, expiresAt, err := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry).GenerateToken(strings.TrimSpace(*user))
	if err != nil {
		return err
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires at %s\n", expiresAt.UTC().Format(time.RFC3339))
	return nil
}

func cmdImport(args []string) error {
	fset := flag.NewFlagSet("import", flag.ContinueOnError)
	configFile := fset.String("config", "", "path to the config file")
	user := fset.String("user", "", "owner of the imported feed")
	file := fset.String("file", "", "feed document to import")
	folder := fset.String("folder", "", "folder name for a new feed")
	url := fset.String("url", "", "feed url, when the document lacks one")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*user) == "" || strings.TrimSpace(*file) == "" {
		return errors.New("both -user and -file are required")
	}

	f, err := os.Open(*file)
	if err != nil {
		return err
	}
	defer f.Close()

	e, err := openEnv(*configFile)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	importer := ingest.NewImporter(e.feeds, e.items, e.folders, e.log)
	result, err := importer.Import(ctx, strings.TrimSpace(*user), f, ingest.Options{
		FeedURL: *url,
		Folder:  *folder,
	})
	if err != nil {
		return err
	}

	fmt.Printf("feed %d (%s): %d added, %d skipped\n", result.Feed.ID, result.Feed.URL, result.Added, result.Skipped)
	return nil
}
