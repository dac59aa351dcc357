package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geoview/geoview/internal/article"
	"github.com/geoview/geoview/internal/graph"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify articles.jsonl",
	Long: `Verify every article: field validation, duplicate IDs, and related
posts that produce no graph edge (missing targets, self relations, repeats).

Exits with code 3 when any error-level issue is found. Dropped relations are
warnings since the graph ignores them.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

// CheckResult is the response for the check command.
type CheckResult struct {
	Status   string       `json:"status"`
	Articles int          `json:"articles"`
	Issues   []CheckIssue `json:"issues"`
}

// CheckIssue is one problem found by check.
type CheckIssue struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	ID       string `json:"id"`
	Target   string `json:"target,omitempty"`
	Message  string `json:"message,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	root := mustFindSite()
	articles := mustReadArticles(root)

	issues := checkArticles(articles)
	status := "ok"
	failed := false
	for _, is := range issues {
		if is.Severity == "error" {
			failed = true
		}
	}
	if failed {
		status = "errors"
	} else if len(issues) > 0 {
		status = "warnings"
	}

	if humanOutput {
		printCheckHuman(articles, issues)
	} else {
		outputJSON(CheckResult{Status: status, Articles: len(articles), Issues: issues})
	}
	if failed {
		exitWithCode(ExitDataError)
	}
	return nil
}

// checkArticles validates each article and reports relations the graph
// drops. The result is never nil.
func checkArticles(articles []article.Article) []CheckIssue {
	issues := []CheckIssue{}
	seen := make(map[string]bool, len(articles))
	for _, a := range articles {
		if err := a.ValidateForCreate(); err != nil {
			issues = append(issues, CheckIssue{Type: "invalid", Severity: "error", ID: a.ID, Message: err.Error()})
		}
		if seen[a.ID] {
			issues = append(issues, CheckIssue{Type: "duplicate_id", Severity: "error", ID: a.ID})
		}
		seen[a.ID] = true
	}
	for _, d := range graph.DetectDanglingRelations(articles) {
		issues = append(issues, CheckIssue{Type: string(d.Kind), Severity: "warning", ID: d.SourceID, Target: d.TargetID})
	}
	return issues
}

func printCheckHuman(articles []article.Article, issues []CheckIssue) {
	if len(issues) == 0 {
		fmt.Printf("Site check: OK\n\n%d articles checked\n", len(articles))
		return
	}
	fmt.Printf("Site check: %d issues found\n\n", len(issues))
	for _, is := range issues {
		tag := "[WARN] "
		if is.Severity == "error" {
			tag = "[ERROR]"
		}
		switch is.Type {
		case "invalid":
			fmt.Printf("  %s %s: %s\n", tag, is.ID, is.Message)
		case "duplicate_id":
			fmt.Printf("  %s Duplicate ID %s\n", tag, is.ID)
		case string(graph.DanglingMissing):
			fmt.Printf("  %s %s relates to missing article %s\n", tag, is.ID, is.Target)
		case string(graph.DanglingSelf):
			fmt.Printf("  %s %s relates to itself\n", tag, is.ID)
		case string(graph.DanglingDuplicate):
			fmt.Printf("  %s %s lists %s more than once\n", tag, is.ID, is.Target)
		}
	}
	fmt.Printf("\n%d articles checked\n", len(articles))
}
