// Command useradd creates an API user in the PostgreSQL credential store.
//
//	useradd -email ana@mail.com -password secret [-name Ana] [-dbdsn postgres://...]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"taskapi/internal/auth"
	"taskapi/internal/logger"
	"taskapi/internal/server"
	db "taskapi/repository/db"
)

type options struct {
	name     string
	email    string
	password string
	dsn      string
	migrate  string
	env      string
}

func parseOptions(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("useradd", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.name, "name", "", "display name (defaults to the email local part)")
	fs.StringVar(&opts.email, "email", "", "login email")
	fs.StringVar(&opts.password, "password", os.Getenv("USERADD_PASSWORD"), "login password (or USERADD_PASSWORD)")
	fs.StringVar(&opts.dsn, "dbdsn", "", "database DSN (defaults to the service configuration)")
	fs.StringVar(&opts.migrate, "migratepath", "", "apply migrations from this directory first")
	fs.StringVar(&opts.env, "env", "prod", "environment: local, dev or prod")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if opts.email == "" || opts.password == "" {
		fs.Usage()
		return options{}, fmt.Errorf("both -email and -password are required")
	}
	if opts.dsn == "" {
		cfg, err := server.ReadConfig(nil)
		if err != nil {
			return options{}, err
		}
		opts.dsn = cfg.DBStr
	}
	return opts, nil
}

func main() {
	opts, err := parseOptions(os.Args[1:], os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log, err := logger.New(opts.env)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(context.Background(), opts, log); err != nil {
		log.Error().Err(err).Str("email", opts.email).Msg("user not created")
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, log zerolog.Logger) error {
	if opts.migrate != "" {
		if err := db.Migration(opts.dsn, opts.migrate); err != nil {
			return err
		}
	}

	store, err := db.NewStorage(ctx, opts.dsn, 15*time.Second, log)
	if err != nil {
		return err
	}
	defer store.Close()

	user, err := auth.RegisterUser(ctx, store, opts.name, opts.email, opts.password)
	if err != nil {
		return err
	}
	log.Info().Int64("user_id", user.ID).Str("email", user.Email).Msg("user created")
	return nil
}
