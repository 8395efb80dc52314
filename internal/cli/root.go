// Package cli implements the diary command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	apperrors "github.com/vladimiradmaev/diabetes-diary/internal/errors"
	"github.com/vladimiradmaev/diabetes-diary/internal/logger"
)

// AppFactory opens the application a command runs against
type AppFactory func(ctx context.Context) (*App, error)

type runner struct {
	factory AppFactory
	app     *App
}

// newRootCmd builds the command tree. The factory behind r runs once, before
// the first command that needs the diary.
func newRootCmd(r *runner) *cobra.Command {
	root := &cobra.Command{
		Use:           "diary",
		Short:         "Personal diabetes diary",
		Long:          "Record blood sugar readings and insulin doses, keep a patient profile and view reports.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProfileCmd(r),
		newEntryCmd(r),
		newReportCmd(r),
		newHomeCmd(r),
	)
	return root
}

// open returns the app, creating it on first use
func (r *runner) open(cmd *cobra.Command) (*App, error) {
	if r.app != nil {
		return r.app, nil
	}
	app, err := r.factory(cmd.Context())
	if err != nil {
		return nil, err
	}
	r.app = app
	return app, nil
}

// close releases the app if a command opened it
func (r *runner) close() error {
	if r.app == nil {
		return nil
	}
	err := r.app.Close()
	r.app = nil
	return err
}

// Run executes one command line against the app built by factory and closes
// the app afterwards, whether the command failed or not.
func Run(ctx context.Context, factory AppFactory, args []string, stdout, stderr io.Writer) (err error) {
	r := &runner{factory: factory}
	defer func() {
		if closeErr := r.close(); closeErr != nil {
			logger.Warn("Failed to close storage", "error", closeErr)
			if err == nil {
				err = closeErr
			}
		}
	}()

	root := newRootCmd(r)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

// Execute runs the command line and returns the process exit code
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if err := Run(ctx, AppFromEnv, args, stdout, stderr); err != nil {
		reportError(stderr, err)
		return 1
	}
	return 0
}

// reportError prints what the user needs to see and logs the rest
func reportError(w io.Writer, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case apperrors.ErrorTypeValidation:
			fmt.Fprintf(w, "Validation Error: %s\n", appErr.Message)
			return
		case apperrors.ErrorTypeNotFound:
			fmt.Fprintln(w, appErr.Message)
			return
		}
	}

	apperrors.NewHandler(logger.GetLogger()).Handle(context.Background(), err)
	fmt.Fprintf(w, "Error: %v\n", err)
}
