package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/execanything/xa/internal/appupdate"
	"github.com/execanything/xa/internal/chat"
	"github.com/execanything/xa/internal/config"
	"github.com/execanything/xa/internal/core"
	"github.com/execanything/xa/internal/history"
	"github.com/execanything/xa/internal/llm"
	"github.com/execanything/xa/internal/output"
	"github.com/execanything/xa/internal/prompt"
	"github.com/execanything/xa/internal/store"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var BUILD_VERSION = "dev"

var setFlag = flag.String("set", "", "configure API settings (e.g. xa -set openai)")
var listFlag = flag.Bool("ls", false, "list all commands")
var addFlag = flag.Bool("add", false, "add a new command/prompt")
var rmFlag = flag.String("rm", "", "remove a command/prompt")
var resetFlag = flag.Bool("reset", false, "reset commands to the default set")
var historyFlag = flag.Bool("history", false, "show recent invocations")
var noStream = flag.Bool("no-stream", false, "disable streaming mode")
var debugFlag = flag.Bool("debug", false, "echo the filled prompt before sending")

var helpFlag = flag.Bool("h", false, "display help information")
var versionFlag = flag.Bool("ver", false, "display build version")

const helpText = `xa - Execute Anything via LLM

USAGE:
  xa [options] [command] [input] [args...]

MODES:
  xa translate "Hello"          Run a template command (fuzzy-resolved)
  xa add <secret> <note...>     Store a secret under an LLM-generated tag
  xa search <query...>          Retrieve a secret by natural-language query
  xa ask                        Interactive conversation mode

EXAMPLES:
  xa -set openai                Configure an OpenAI-compatible API
  xa -ls                        List all commands
  xa -add                       Add a new command
  xa -rm summarize              Remove the 'summarize' command
  xa trans "Hello"              Translate using fuzzy matching
  xa -no-stream polish "draft"  Polish text without streaming

OPTIONS:
`

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Println(BUILD_VERSION)
		return
	}

	if *helpFlag {
		fmt.Print(helpText)
		flag.PrintDefaults()
		return
	}

	logger, err := initializeLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("-------- new xa invocation --------", zap.Any("args", os.Args))

	// Check for updates in background
	updateChannel := appupdate.CheckForUpdate(
		BUILD_VERSION,
		logger,
		appupdate.DefaultFileSystem{},
		appupdate.DefaultUpdater{},
	)

	err = run(context.Background(), logger)

	notifyUpdate(updateChannel)

	if err != nil {
		logger.Error("unhandled error", zap.Error(err))
		fmt.Fprintln(os.Stderr, output.ERROR(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *zap.Logger) error {
	switch {
	case *setFlag != "":
		if *setFlag != "openai" {
			return fmt.Errorf("unknown configuration type %q (supported: openai)", *setFlag)
		}
		return config.Setup(ctx, os.Stdin, os.Stdout, llm.ListModels)
	case *listFlag:
		return listCommands()
	case *addFlag:
		return addCommand()
	case *rmFlag != "":
		return removeCommand(*rmFlag)
	case *resetFlag:
		return resetCommands()
	case *historyFlag:
		return showHistory()
	}

	command := flag.Arg(0)
	if command == "" {
		fmt.Print(helpText)
		flag.PrintDefaults()
		return nil
	}

	switch command {
	case "add":
		return addSecret(ctx, logger, flag.Arg(1), strings.Join(flag.Args()[min(2, flag.NArg()):], " "))
	case "search":
		return searchSecret(ctx, logger, strings.Join(flag.Args()[1:], " "))
	case "ask":
		if *noStream || flag.NArg() > 1 {
			return runCommand(ctx, logger, command, flag.Arg(1), restArgs())
		}
		return runInteractive(ctx, logger)
	default:
		return runCommand(ctx, logger, command, flag.Arg(1), restArgs())
	}
}

func restArgs() []string {
	if flag.NArg() <= 2 {
		return nil
	}
	return flag.Args()[2:]
}

// runCommand resolves a command name, fills its template, and sends the
// result to the API, streaming to the terminal unless disabled or stdout is
// not a terminal.
func runCommand(ctx context.Context, logger *zap.Logger, command string, input string, args []string) error {
	if input == "" {
		fmt.Fprintln(os.Stderr, output.ERROR(fmt.Sprintf("Error: no input provided for command %q", command)))
		os.Exit(1)
	}

	cfg, client, err := loadClient()
	if err != nil {
		return err
	}

	prompts, err := prompt.Load()
	if err != nil {
		return err
	}

	resolved := prompts.Resolve(command)
	if resolved == "" {
		fmt.Fprintln(os.Stderr, output.ERROR(fmt.Sprintf("Error: command %q not found. Use 'xa -ls' to see available commands.", command)))
		os.Exit(1)
	}

	entry := prompts.Prompts[resolved]
	input, args = prompt.ReorderTranslateArgs(resolved, input, args)
	filled := entry.Fill(input, args)

	if *debugFlag {
		fmt.Fprintf(os.Stderr, "---- filled prompt ----\n%s\n-----------------------\n", filled)
	}

	streaming := !*noStream && term.IsTerminal(int(os.Stdout.Fd()))
	logger.Debug("running command",
		zap.String("command", resolved),
		zap.String("model", cfg.Model()),
		zap.Bool("streaming", streaming),
	)

	start := time.Now()
	var result string
	if streaming {
		result, err = client.Stream(ctx, filled, func(delta string) {
			fmt.Print(delta)
		})
	} else {
		fmt.Println("Processing...")
		result, err = client.Complete(ctx, filled)
	}
	elapsed := time.Since(start)

	recordInvocation(logger, resolved, input, cfg.Model(), elapsed, err)
	if err != nil {
		return err
	}

	output.CopyToClipboard(result)

	if streaming {
		fmt.Printf("\n\n(Completed in %s)\n", elapsed.Round(10*time.Millisecond))
	} else {
		output.Render(result, true)
	}

	return nil
}

func runInteractive(ctx context.Context, logger *zap.Logger) error {
	_, client, err := loadClient()
	if err != nil {
		return err
	}

	prompts, err := prompt.Load()
	if err != nil {
		return err
	}

	session := chat.NewSession(client, prompts.Prompts["ask"], os.Stdin, os.Stdout, logger)
	return session.Run(ctx)
}

func addSecret(ctx context.Context, logger *zap.Logger, secret string, note string) error {
	_, client, err := loadClient()
	if err != nil {
		return err
	}

	tag, err := store.NewManager(client, logger).Add(ctx, secret, note)
	if err != nil {
		return err
	}

	fmt.Println(output.SUCCESS(fmt.Sprintf("Added secret with tag: %s", tag)))
	return nil
}

func searchSecret(ctx context.Context, logger *zap.Logger, query string) error {
	_, client, err := loadClient()
	if err != nil {
		return err
	}

	secret, found, err := store.NewManager(client, logger).Search(ctx, query)
	if err != nil {
		return err
	}
	if !found {
		fmt.Println("No found such thing.")
		return nil
	}

	fmt.Println(secret)
	output.CopyToClipboard(secret)
	return nil
}

func listCommands() error {
	prompts, err := prompt.Load()
	if err != nil {
		return err
	}

	fmt.Println("Built-in commands:")
	fmt.Println("  -set: Configure API settings (use: xa -set openai)")
	fmt.Println("  -ls: List all commands (this command)")
	fmt.Println("  -add: Add a new command/prompt (use: xa -add)")
	fmt.Println("  -rm: Remove a command/prompt")
	fmt.Println()
	fmt.Println("User-defined commands:")
	for _, name := range prompts.Names() {
		description := prompts.Prompts[name].Description
		if description == "" {
			description = "Custom prompt command"
		}
		fmt.Printf("  %s: %s\n", name, description)
	}

	masked, err := store.Tags()
	if err != nil {
		return err
	}
	if len(masked) > 0 {
		fmt.Println()
		fmt.Println("Stored secrets (tags only):")
		for _, entry := range masked {
			age := entry.CreatedAt
			if createdAt, parseErr := time.Parse(time.RFC3339, entry.CreatedAt); parseErr == nil {
				age = humanize.Time(createdAt)
			}
			fmt.Printf("  %s: %s (%s)\n", entry.Tag, entry.Note, age)
		}
	}

	return nil
}

func addCommand() error {
	prompts, err := prompt.Load()
	if err != nil {
		return err
	}

	fmt.Println("Adding a new command...")
	reader := bufio.NewReader(os.Stdin)

	name, err := promptLine(reader, "Enter command name: ")
	if err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("command name cannot be empty")
	}

	if _, exists := prompts.Prompts[name]; exists {
		fmt.Fprintln(os.Stderr, output.WARNING(fmt.Sprintf("Warning: command %q already exists. It will be overwritten.", name)))
	}

	template, err := promptLine(reader, "Enter prompt template (use {input} as placeholder): ")
	if err != nil {
		return err
	}
	if template == "" {
		return fmt.Errorf("prompt template cannot be empty")
	}

	description, err := promptLine(reader, "Enter description (optional): ")
	if err != nil {
		return err
	}

	if _, err := prompts.Add(name, prompt.Entry{Template: template, Description: description}); err != nil {
		return err
	}

	fmt.Println(output.SUCCESS(fmt.Sprintf("Command %q added successfully!", name)))
	fmt.Printf("Prompt file location: %s\n", core.PromptsFile())
	fmt.Println("You can edit this file with your favorite text editor to modify or add more commands.")
	return nil
}

func removeCommand(name string) error {
	prompts, err := prompt.Load()
	if err != nil {
		return err
	}

	if err := prompts.Remove(name); err != nil {
		fmt.Fprintln(os.Stderr, output.ERROR(fmt.Sprintf("Error: %v", err)))
		fmt.Println("Available commands:")
		for _, available := range prompts.Names() {
			fmt.Printf("  %s\n", available)
		}
		os.Exit(1)
	}

	fmt.Println(output.SUCCESS(fmt.Sprintf("Command %q removed successfully!", name)))
	return nil
}

func resetCommands() error {
	prompts, err := prompt.Load()
	if err != nil {
		return err
	}
	if err := prompts.Reset(); err != nil {
		return err
	}
	fmt.Println(output.SUCCESS("Commands reset to the default set."))
	return nil
}

func showHistory() error {
	manager, err := history.NewManager(core.HistoryFile())
	if err != nil {
		return err
	}

	entries, err := manager.RecentEntries(20)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No invocations recorded yet.")
		return nil
	}

	for _, entry := range entries {
		fmt.Printf("%-12s %-10s %-8s %6dms  %s  %q\n",
			humanize.Time(entry.CreatedAt),
			entry.Command,
			entry.Status,
			entry.DurationMs,
			entry.Model,
			entry.Input,
		)
	}
	return nil
}

// loadClient loads the configuration and builds the API client, failing fast
// when no API key has been configured.
func loadClient() (*config.Config, *llm.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	if !cfg.Configured() {
		fmt.Fprintln(os.Stderr, output.ERROR("Error: API key not configured. Please run 'xa -set openai' first."))
		os.Exit(1)
	}

	return cfg, llm.NewClient(cfg), nil
}

// recordInvocation appends to the local invocation history. Failures are
// warnings only.
func recordInvocation(logger *zap.Logger, command string, input string, model string, elapsed time.Duration, runErr error) {
	status := history.StatusOK
	if runErr != nil {
		status = history.StatusError
	}

	manager, err := history.NewManager(core.HistoryFile())
	if err != nil {
		logger.Warn("failed to open invocation history", zap.Error(err))
		return
	}
	if _, err := manager.Record(command, input, model, elapsed, status); err != nil {
		logger.Warn("failed to record invocation", zap.Error(err))
	}
}

func promptLine(reader *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// notifyUpdate prints a one-line notice when the background check found a
// newer release. It never blocks: a slow check is simply skipped.
func notifyUpdate(updateChannel chan string) {
	select {
	case latest, ok := <-updateChannel:
		if ok && latest != "" {
			fmt.Fprintln(os.Stderr, output.WARNING(fmt.Sprintf("A new version of xa is available: %s", latest)))
		}
	default:
	}
}

func initializeLogger() (*zap.Logger, error) {
	logLevel := zap.NewAtomicLevelAt(zap.InfoLevel)
	if level, err := zap.ParseAtomicLevel(os.Getenv("XA_LOG_LEVEL")); err == nil && os.Getenv("XA_LOG_LEVEL") != "" {
		logLevel = level
	}
	if BUILD_VERSION == "dev" {
		logLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	// Logs only go to file to avoid interleaving with streamed responses.
	// Use `tail -f` on the log file to monitor in real time.
	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = logLevel
	loggerConfig.OutputPaths = []string{
		core.LogFile(),
	}

	return loggerConfig.Build()
}
