package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/khrees2412/jobmatch/internal/app"
	"github.com/khrees2412/jobmatch/internal/resume"
	"github.com/spf13/cobra"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Inspect the skill taxonomy",
}

var listSkillsCmd = &cobra.Command{
	Use:   "list",
	Short: "List every known skill with its weight and synonyms",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.RequireApp(cmd.Context())
		if err != nil {
			return err
		}

		skills := application.Taxonomy.Skills()
		cmd.Println(titleStyle.Render(fmt.Sprintf("Skills (%d)", len(skills))))
		for _, s := range skills {
			cmd.Printf("%s %s %s\n",
				labelStyle.Render(s.Name),
				valueStyle.Render(fmt.Sprintf("(weight %d)", s.Weight)),
				strings.Join(s.Synonyms, ", "),
			)
		}
		return nil
	},
}

var extractSkillsCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Show which skills are found in a file",
	Long: `Run the skill extractor over a résumé or job description and print
each skill found with its occurrence count and weighted score.`,
	Example: `  jobmatch skills extract cv.pdf
  jobmatch skills extract posting.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.RequireApp(cmd.Context())
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read file: %w", err)
		}
		text, err := resume.ExtractText(filepath.Base(args[0]), data)
		if err != nil {
			return err
		}

		matches, score := application.Engine.ScoreText(text)
		cmd.Println(titleStyle.Render(titleCase(filepath.Base(args[0]))))
		if len(matches) == 0 {
			cmd.Println("No known skills found.")
			return nil
		}
		for _, m := range matches {
			cmd.Printf("%s %s\n",
				labelStyle.Render(m.Skill+":"),
				valueStyle.Render(fmt.Sprintf("%d × weight %d = %d", m.Occurrences, m.Weight, m.Contribution())),
			)
		}
		cmd.Printf("\n%s %d\n", labelStyle.Render("Score:"), score)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(skillsCmd)
	skillsCmd.AddCommand(listSkillsCmd)
	skillsCmd.AddCommand(extractSkillsCmd)
}
