package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// InteractiveCmd creates the interactive command. The session authenticates once and
// then runs sibling commands without re-running setup.
func InteractiveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (connect once, run multiple commands)",
		Long: `Start an interactive session where you can run multiple commands against the same
database connection and Google credentials. Type 'exit' or 'quit' to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("\n🚀 Starting interactive session...")
			fmt.Println("Type 'help' for available commands, 'exit' or 'quit' to leave")

			return runSession(cmd.Parent(), os.Stdin)
		},
	}
}

// runSession reads commands line by line and executes them against the root's children
func runSession(root *cobra.Command, in io.Reader) error {
	commands := make(map[string]*cobra.Command)
	for _, sub := range root.Commands() {
		switch sub.Name() {
		case "interactive", "completion", "help":
			continue
		}
		commands[sub.Name()] = sub
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		name, cmdArgs := parts[0], parts[1:]

		switch name {
		case "exit", "quit":
			fmt.Println("👋 Goodbye!")
			return nil
		case "help":
			printInteractiveHelp(commands)
			continue
		}

		target, ok := commands[name]
		if !ok {
			fmt.Printf("❌ Unknown command: %s (type 'help' for available commands)\n\n", name)
			continue
		}

		if err := runInSession(target, cmdArgs); err != nil {
			fmt.Printf("❌ Error: %v\n\n", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	return nil
}

// runInSession resets flags and calls RunE directly so PersistentPreRunE does not run again
func runInSession(target *cobra.Command, args []string) error {
	target.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
		_ = flag.Value.Set(flag.DefValue)
	})

	if err := target.ParseFlags(args); err != nil {
		return fmt.Errorf("error parsing flags: %w", err)
	}
	args = target.Flags().Args()

	if target.Args != nil {
		if err := target.Args(target, args); err != nil {
			return err
		}
	}

	if target.RunE != nil {
		return target.RunE(target, args)
	}
	if target.Run != nil {
		target.Run(target, args)
	}
	return nil
}

func printInteractiveHelp(commands map[string]*cobra.Command) {
	fmt.Println("\nAvailable commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("  %-45s %s\n", commands[name].Use, commands[name].Short)
	}

	fmt.Println("\n  help                                          Show this help message")
	fmt.Println("  exit, quit                                    Exit the interactive session")
}
