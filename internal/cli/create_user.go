package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/mlopez/lectorpdf/internal/auth"
	"github.com/mlopez/lectorpdf/internal/config"
)

// CreateUserCommand registers an account from the terminal, useful for
// bootstrapping before the web form is reachable.
type CreateUserCommand struct {
	Email    string
	Password string
	Age      int
	DataRoot string
}

func NewCreateUserCommand() *CreateUserCommand {
	return &CreateUserCommand{}
}

func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)

	fs.StringVar(&cmd.Email, "email", "", "Email address of the new account (required)")
	fs.StringVar(&cmd.Password, "password", "", "Password of the new account (required)")
	fs.IntVar(&cmd.Age, "age", 0, "Age of the user (optional)")
	fs.StringVar(&cmd.DataRoot, "data-root", "", "Data root directory (defaults to the DATA_ROOT env or the OS config dir)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-user [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Register a local account in users.json under the data root.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s create-user -email ana@example.com -password secret\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Email == "" || cmd.Password == "" {
		fs.Usage()
		return fmt.Errorf("email and password are required")
	}

	return nil
}

func (cmd *CreateUserCommand) Run() error {
	dataRoot := cmd.DataRoot
	if dataRoot == "" {
		dataRoot = config.NewConfig().Storage.DataRoot
	}
	if err := os.MkdirAll(dataRoot, 0o755); err != nil {
		return fmt.Errorf("create data root: %w", err)
	}

	service, err := auth.NewService(dataRoot)
	if err != nil {
		return err
	}

	var age *int
	if cmd.Age > 0 {
		age = &cmd.Age
	}

	if err := service.CreateUser(cmd.Email, cmd.Password, age); err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			return fmt.Errorf("an account with email %q already exists", cmd.Email)
		}
		return err
	}

	fmt.Printf("Created user %s\n", cmd.Email)
	return nil
}
