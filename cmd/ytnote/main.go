package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"ytnote/internal/app"
	"ytnote/internal/config"
	"ytnote/internal/service"
)

// openApp loads configuration and builds the service stack.
var openApp = func(stderr io.Writer) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	slog.SetDefault(app.NewLogger(cfg, stderr))
	return app.New(cfg)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 1
	}

	switch args[0] {
	case "new":
		return cmdNew(args[1:], stdout, stderr)
	case "list":
		return cmdList(args[1:], stdout, stderr)
	case "folders":
		return cmdFolders(args[1:], stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stderr)
		return 0
	default:
		// A bare URL creates a note
		return cmdNew(args, stdout, stderr)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `ytnote - YouTube video notes for Obsidian

Usage:
  ytnote new [flags] <youtube-url>   Create a note for a video
  ytnote list [flags]                List recently created notes
  ytnote folders                     List vault folders
  ytnote help                        Show this help message

Examples:
  ytnote https://youtu.be/dQw4w9WgXcQ                      # Create a note
  ytnote new -active Daily/2024-03-01.md <url>             # Attachments next to the active note
  ytnote list -limit 5                                     # Five newest notes

Configuration is read from the environment or a .env file (VAULT_PATH is required).
`)
}

// newFlagSet returns a flag set that reports parse errors instead of exiting.
func newFlagSet(name, usage string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s\n", usage)
		if hasFlags(fs) {
			fmt.Fprintf(stderr, "\nFlags:\n")
			fs.PrintDefaults()
		}
	}
	return fs
}

func hasFlags(fs *flag.FlagSet) bool {
	found := false
	fs.VisitAll(func(*flag.Flag) { found = true })
	return found
}

// parseStatus maps a flag parse error to an exit status.
func parseStatus(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	return 2
}

func cmdNew(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("new", "ytnote new [flags] <youtube-url>", stderr)
	activeNote := fs.String("active", "", "Vault-relative path of the active note (resolves ./ attachment folders)")
	timeout := fs.Duration("timeout", 60*time.Second, "Time limit for fetching and writing the note")
	if err := fs.Parse(args); err != nil {
		return parseStatus(err)
	}

	argv := fs.Args()
	if len(argv) == 0 {
		fmt.Fprintf(stderr, "Error: missing youtube-url\n")
		fs.Usage()
		return 1
	}

	a, err := openApp(stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer func() {
		_ = a.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	note, err := a.Notes.CreateNote(ctx, service.CreateNoteRequest{
		URL:        argv[0],
		ActiveNote: *activeNote,
	})
	if err != nil {
		return reportError(stderr, err)
	}

	fmt.Fprintln(stdout, note.Path)
	if note.ThumbnailPath != "" {
		fmt.Fprintf(stderr, "Thumbnail: %s\n", note.ThumbnailPath)
	}
	return 0
}

func cmdList(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("list", "ytnote list [flags]", stderr)
	limit := fs.Int("limit", 20, "Maximum notes to list (0 = all)")
	if err := fs.Parse(args); err != nil {
		return parseStatus(err)
	}

	a, err := openApp(stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer func() {
		_ = a.Close()
	}()

	notes, err := a.Notes.ListNotes(context.Background(), *limit)
	if err != nil {
		return reportError(stderr, err)
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tVIDEO\tPATH")
	for _, n := range notes {
		fmt.Fprintf(w, "%s\t%s\t%s\n", n.CreatedAt.Local().Format("2006-01-02 15:04"), n.VideoID, n.Path)
	}
	_ = w.Flush()
	return 0
}

func cmdFolders(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("folders", "ytnote folders", stderr)
	if err := fs.Parse(args); err != nil {
		return parseStatus(err)
	}

	a, err := openApp(stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer func() {
		_ = a.Close()
	}()

	folders, err := a.Settings.Folders(context.Background())
	if err != nil {
		return reportError(stderr, err)
	}
	for _, f := range folders {
		fmt.Fprintln(stdout, f)
	}
	return 0
}

// reportError prints a service error and returns the failure status.
func reportError(stderr io.Writer, err error) int {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		fmt.Fprintf(stderr, "Error: invalid %s: %s\n", validationErr.Field, validationErr.Message)
	case errors.Is(err, service.ErrConflict):
		fmt.Fprintf(stderr, "Error: a note with this name already exists: %v\n", err)
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return 1
}
