package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/tutor-ai/internal/core"
	"github.com/hugo-lorenzo-mato/tutor-ai/internal/engine"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage learning sessions",
}

var sessionStartCmd = &cobra.Command{
	Use:   "start <file>",
	Short: "Start a new session from a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionStart,
}

var sessionRunCmd = &cobra.Command{
	Use:   "run <session-id>",
	Short: "Advance a session until it needs input or finishes",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionRun,
}

var sessionResumeCmd = &cobra.Command{
	Use:   "resume <session-id> <value>",
	Short: "Answer a pending prompt (yes/no for plans, option number for questions)",
	Args:  cobra.ExactArgs(2),
	RunE:  runSessionResume,
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show session progress",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionShow,
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sessions",
	Args:  cobra.NoArgs,
	RunE:  runSessionList,
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionDelete,
}

var sessionAskCmd = &cobra.Command{
	Use:   "ask <session-id> <question>",
	Short: "Ask the help assistant about the material",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runSessionAsk,
}

var askExpertise string

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionRunCmd)
	sessionCmd.AddCommand(sessionResumeCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)
	sessionCmd.AddCommand(sessionAskCmd)

	sessionAskCmd.Flags().StringVar(&askExpertise, "expertise", "",
		"learner level for this question (beginner, intermediate, advanced)")
}

func runSessionStart(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	session, err := rt.engine.Create(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Session %s created\n\n", session.ID)

	res, err := rt.engine.Run(cmd.Context(), session.ID)
	if err != nil {
		return err
	}
	renderResult(res)
	return nil
}

func runSessionRun(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	res, err := rt.engine.Run(cmd.Context(), core.SessionID(args[0]))
	if err != nil {
		return err
	}
	renderResult(res)
	return nil
}

func runSessionResume(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	id := core.SessionID(args[0])
	res, err := rt.engine.Resume(cmd.Context(), id, args[1])
	if err != nil {
		return err
	}
	if !res.Suspended && !res.Session.Complete {
		// The decision unblocked the session; keep going to the next
		// prompt so one command is one turn of the conversation.
		res, err = rt.engine.Run(cmd.Context(), id)
		if err != nil {
			return err
		}
	}
	renderResult(res)
	return nil
}

func runSessionShow(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	snap, err := rt.engine.GetState(cmd.Context(), core.SessionID(args[0]))
	if err != nil {
		return err
	}
	renderSnapshot(snap)
	return nil
}

func runSessionList(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	ids, err := rt.engine.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Println("No sessions")
		return nil
	}
	for _, id := range ids {
		snap, err := rt.engine.GetState(cmd.Context(), id)
		if err != nil {
			fmt.Printf("  %s  (unreadable: %v)\n", id, err)
			continue
		}
		status := string(snap.Phase)
		if snap.Complete {
			status = "complete"
		} else if snap.Suspended {
			status += " (waiting for input)"
		}
		fmt.Printf("  %s  %s\n", id, status)
	}
	return nil
}

func runSessionDelete(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	if err := rt.engine.Delete(cmd.Context(), core.SessionID(args[0])); err != nil {
		return err
	}
	fmt.Println("Session deleted")
	return nil
}

func runSessionAsk(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	question := strings.Join(args[1:], " ")
	reply, err := rt.engine.AskHelper(cmd.Context(), core.SessionID(args[0]), question, askExpertise, nil)
	if err != nil {
		return err
	}
	fmt.Println(reply.Response)
	return nil
}

// renderResult prints a step outcome: the pending prompt, the final
// report, or current progress.
func renderResult(res *engine.StepResult) {
	if res.Suspended && res.Interrupt != nil {
		renderInterrupt(res.Session, res.Interrupt)
		return
	}
	if res.Session.Complete && res.Session.Report != nil {
		renderReport(res.Session.Report)
		return
	}
	renderSnapshot(res.Session.Snapshot())
}

func renderInterrupt(session *core.Session, interrupt *core.Interrupt) {
	switch interrupt.Kind {
	case core.InterruptPlanApproval:
		fmt.Println("Proposed learning plan:")
		fmt.Println()
		for i, obj := range interrupt.PlanApproval.Objectives {
			fmt.Printf("  %d. %s [%s]\n     %s\n", i+1, obj.Title, obj.Difficulty, obj.Description)
		}
		fmt.Println()
		fmt.Printf("Approve with 'tutor session resume %s yes' or reject with 'no'.\n", session.ID)

	case core.InterruptAnswerPrompt:
		prompt := interrupt.AnswerPrompt
		fmt.Printf("Question %s:\n\n  %s\n\n", prompt.QuestionID, prompt.Question)
		for i, opt := range prompt.Options {
			fmt.Printf("    %d. %s\n", i, opt)
		}
		fmt.Println()
		if prompt.Attempts > 0 {
			fmt.Printf("Hint (attempt %d): %s\n\n", prompt.Attempts+1, prompt.Hint)
		}
		fmt.Printf("Answer with 'tutor session resume %s <option-number>'.\n", session.ID)
	}
}

func renderSnapshot(snap core.Snapshot) {
	fmt.Printf("Session %s\n", snap.ID)
	fmt.Printf("  Phase:      %s (%s)\n", snap.Phase, snap.PhaseDescription)
	fmt.Printf("  Objectives: %d\n", len(snap.Objectives))
	fmt.Printf("  Questions:  %d answered of %d\n", snap.AnsweredCount, snap.QuestionCount)
	if snap.Error != "" {
		fmt.Printf("  Last error: %s\n", snap.Error)
	}
	if snap.Complete && snap.Report != nil {
		fmt.Println()
		renderReport(snap.Report)
	}
}

func renderReport(report *core.ProgressReport) {
	fmt.Printf("Final score: %d/%d (%d%%)\n\n", report.Correct, report.Total, report.Percentage)
	if report.Narrative != "" {
		fmt.Println(report.Narrative)
		fmt.Println()
	}
	if len(report.AreasToReview) > 0 {
		fmt.Println("Areas to review:")
		for _, area := range report.AreasToReview {
			fmt.Printf("  - %s\n", area)
		}
		fmt.Println()
	}
	for _, tip := range report.Tips {
		fmt.Printf("Tip: %s\n", tip)
	}
}
