package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/circuitlab/internal/presentation/tui"
	"github.com/aretw0/circuitlab/internal/validator"
	"github.com/aretw0/circuitlab/pkg/challenge"
	"github.com/aretw0/circuitlab/pkg/domain"
	"github.com/spf13/cobra"
)

var challengeCmd = &cobra.Command{
	Use:     "challenge",
	Aliases: []string{"challenges"},
	Short:   "Browse, validate and solve challenges",
	Long:    `Challenges come from the built-in set, or from a directory of markdown files given with --challenges.`,
}

var challengeLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all challenges",
	Run: func(cmd *cobra.Command, args []string) {
		app := mustLoadApp(cmd)
		catalog, err := app.Catalog(cmd.Context())
		if err != nil {
			fail("%v", err)
		}

		list, err := catalog.List(cmd.Context())
		if err != nil {
			fail("listing challenges: %v", err)
		}
		if len(list) == 0 {
			fmt.Println("No challenges found.")
			return
		}

		fmt.Println("Challenges:")
		for _, ch := range list {
			fmt.Printf("- %-20s %s\n", ch.ID, ch.Title)
		}
	},
}

var challengeShowCmd = &cobra.Command{
	Use:   "show <challenge-id>",
	Short: "Show the description and goal of a challenge",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := mustLoadApp(cmd)
		catalog, err := app.Catalog(cmd.Context())
		if err != nil {
			fail("%v", err)
		}

		ch, err := catalog.Get(cmd.Context(), args[0])
		if err != nil {
			fail("%v", err)
		}

		render := tui.RendererFor(os.Stdout)
		out, err := render(challengeMarkdown(ch))
		if err != nil {
			fail("rendering challenge: %v", err)
		}
		fmt.Print(out)
	},
}

var challengeCheckCmd = &cobra.Command{
	Use:   "check <challenge-id> <layout-file|->",
	Short: "Grade a layout against a challenge",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		app := mustLoadApp(cmd)
		asJSON, _ := cmd.Flags().GetBool("json")

		catalog, err := app.Catalog(cmd.Context())
		if err != nil {
			fail("%v", err)
		}
		ch, err := catalog.Get(cmd.Context(), args[0])
		if err != nil {
			fail("%v", err)
		}
		l, err := readLayout(args[1], false)
		if err != nil {
			fail("%v", err)
		}

		verdict, err := challenge.Check(cmd.Context(), ch, l, app.GraphOptions()...)
		if err != nil {
			fail("%v", err)
		}

		if player, _ := cmd.Flags().GetString("player"); player != "" && verdict.Passed {
			board, closeBoard, err := app.Leaderboard()
			if err != nil {
				fail("%v", err)
			}
			improved, err := challenge.Record(cmd.Context(), board, verdict, player)
			_ = closeBoard()
			if err != nil {
				fail("recording score: %v", err)
			}
			if improved && !asJSON {
				fmt.Printf("New best for %s: %d points\n", player, verdict.Points)
			}
		}

		if asJSON {
			data, _ := json.MarshalIndent(verdict, "", "  ")
			fmt.Println(string(data))
		} else {
			tui.PrintResult(os.Stdout, verdict.Result)
			if verdict.Passed {
				fmt.Printf("\nSolved '%s'! (%d points)\n", ch.Title, verdict.Points)
			} else {
				fmt.Printf("\nNot yet:\n")
				for _, f := range verdict.Failures {
					fmt.Println("- " + f)
				}
			}
		}
		if !verdict.Passed {
			os.Exit(2)
		}
	},
}

var challengeTopCmd = &cobra.Command{
	Use:   "top <challenge-id>",
	Short: "Show the leaderboard of a challenge",
	Long:  `Scores persist only with the redis store driver; other drivers keep them for the life of the process.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := mustLoadApp(cmd)
		limit, _ := cmd.Flags().GetInt("limit")

		catalog, err := app.Catalog(cmd.Context())
		if err != nil {
			fail("%v", err)
		}
		ch, err := catalog.Get(cmd.Context(), args[0])
		if err != nil {
			fail("%v", err)
		}

		board, closeBoard, err := app.Leaderboard()
		if err != nil {
			fail("%v", err)
		}
		defer closeBoard()

		top, err := board.Top(cmd.Context(), ch.ID, limit)
		if err != nil {
			fail("reading leaderboard: %v", err)
		}
		if len(top) == 0 {
			fmt.Printf("No scores yet for '%s'.\n", ch.Title)
			return
		}
		fmt.Printf("Leaderboard: %s\n", ch.Title)
		for i, s := range top {
			fmt.Printf("%2d. %-20s %5d pts  (%d elements)\n", i+1, s.Player, s.Points, s.Elements)
		}
	},
}

var challengeValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate every challenge of the catalog",
	Run: func(cmd *cobra.Command, args []string) {
		app := mustLoadApp(cmd)
		catalog, err := app.Catalog(cmd.Context())
		if err != nil {
			fail("%v", err)
		}

		if err := validator.ValidateCatalog(cmd.Context(), catalog); err != nil {
			fail("%v", err)
		}
		fmt.Println("✓ All challenges are valid.")
	},
}

func init() {
	rootCmd.AddCommand(challengeCmd)
	challengeCmd.AddCommand(challengeLsCmd)
	challengeCmd.AddCommand(challengeShowCmd)
	challengeCmd.AddCommand(challengeCheckCmd)
	challengeCmd.AddCommand(challengeTopCmd)
	challengeCmd.AddCommand(challengeValidateCmd)

	challengeCheckCmd.Flags().Bool("json", false, "Print the verdict as JSON")
	challengeCheckCmd.Flags().String("player", "", "Record a passing verdict on the leaderboard under this name")
	challengeTopCmd.Flags().Int("limit", 10, "Number of entries to show")
}

// challengeMarkdown renders the challenge as a markdown document for the terminal.
func challengeMarkdown(ch *domain.Challenge) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n%s\n\n## Goal\n\n", ch.Title, ch.Description)

	g := ch.Goal
	fmt.Fprintf(&sb, "- The circuit must be **%s**\n", g.ExpectedStatus())
	if g.MinPaths > 0 {
		fmt.Fprintf(&sb, "- At least %d closed paths\n", g.MinPaths)
	}
	if g.LitLamps > 0 {
		fmt.Fprintf(&sb, "- At least %d lit lamps\n", g.LitLamps)
	}
	for _, k := range g.RequireKinds {
		fmt.Fprintf(&sb, "- Use at least one `%s`\n", k)
	}
	if g.MaxElements > 0 {
		fmt.Fprintf(&sb, "- No more than %d elements\n", g.MaxElements)
	}
	if g.NoBurnout {
		sb.WriteString("- Nothing may burn out\n")
	}
	if len(ch.Starter) > 0 {
		fmt.Fprintf(&sb, "\nStart from %d placed elements: `circuitlab sandbox create --challenge %s`\n", len(ch.Starter), ch.ID)
	}
	return sb.String()
}
